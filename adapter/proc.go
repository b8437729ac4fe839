package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RunProcess runs one subprocess to completion, capturing stdout and
// stderr separately. Each call pays full process startup cost; there is
// no pooling or reuse. The context bounds the run: on cancellation or
// deadline the process is killed and a timeout error is returned.
func RunProcess(ctx context.Context, bin string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		if ctx.Err() != nil {
			return stdout, stderr, fmt.Errorf("%s timed out: %w", bin, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			msg := strings.TrimSpace(stderr)
			if msg == "" {
				msg = runErr.Error()
			}
			return stdout, stderr, fmt.Errorf("%s execution failed: %s", bin, msg)
		}
		return stdout, stderr, fmt.Errorf("start %s: %w", bin, runErr)
	}
	return stdout, stderr, nil
}

// WriteSource writes a generated source file into a fresh temp directory
// and returns its path together with a cleanup function.
func WriteSource(name, code string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "worm-src-*")
	if err != nil {
		return "", nil, fmt.Errorf("create source dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		os.RemoveAll(dir)
		return "", nil, fmt.Errorf("write source: %w", err)
	}
	return path, func() { os.RemoveAll(dir) }, nil
}
