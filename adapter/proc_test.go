package adapter

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRunProcessCapturesStdout(t *testing.T) {
	stdout, _, err := RunProcess(context.Background(), "sh", "-c", "echo hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(stdout) != "hi" {
		t.Errorf("expected hi, got %q", stdout)
	}
}

func TestRunProcessNonZeroExit(t *testing.T) {
	_, _, err := RunProcess(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "oops") {
		t.Errorf("expected stderr in error, got %v", err)
	}
}

func TestRunProcessMissingBinary(t *testing.T) {
	_, _, err := RunProcess(context.Background(), "worm-no-such-binary")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunProcessTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := RunProcess(ctx, "sh", "-c", "sleep 5")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestWriteSource(t *testing.T) {
	path, cleanup, err := WriteSource("main.py", "print(1)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	if string(data) != "print(1)" {
		t.Errorf("unexpected content %q", data)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected source dir removed")
	}
}
