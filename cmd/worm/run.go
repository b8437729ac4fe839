package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wormhq/worm/session"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute code through one language backend",
	Long: `Execute a snippet through the chosen backend.

Code can be provided via:
  - File argument: worm run script.py
  - Inline flag: worm run -l python -c 'print(1+1)'
  - Stdin: echo 'sum 1 2 3' | worm run -l native

Native snippets use the closed command language (stages separated by |):
  worm run -l native -c 'evens 1 2 3 4 | square | sum'`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringP("code", "c", "", "Code to execute")
	runCmd.Flags().StringP("lang", "l", "", "Backend: native, python, cpp, go (default: by file extension)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	code, _ := cmd.Flags().GetString("code")
	lang, _ := cmd.Flags().GetString("lang")

	var source, filename string
	switch {
	case code != "":
		source = code
	case len(args) > 0:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			fatal(err)
		}
		source = string(data)
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal(err)
		}
		source = string(data)
		if strings.TrimSpace(source) == "" {
			cmd.Help()
			return
		}
	}

	facadeName, err := resolveLang(lang, filename)
	if err != nil {
		fatal(err)
	}

	reg, err := newRegistry(cmd)
	if err != nil {
		fatal(err)
	}
	defer reg.Shutdown()

	s := reg.CreateSession(sessionName(cmd))
	res := bound(s, facadeName).Execute(context.Background(), source)

	if res.Output != "" {
		fmt.Print(res.Output)
		if !strings.HasSuffix(res.Output, "\n") {
			fmt.Println()
		}
	} else if res.Value != nil {
		fmt.Println(res.Value)
	}
	if res.Degraded {
		fmt.Fprintf(os.Stderr, "(simulated: %s)\n", res.Reason)
	}
	if res.Error != nil {
		fatal(res.Error)
	}
}

func resolveLang(flag, filename string) (string, error) {
	lang := flag
	if lang == "" && filename != "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".py":
			lang = "python"
		case ".go":
			lang = "go"
		case ".cc", ".cpp", ".cxx":
			lang = "cpp"
		}
	}
	if lang == "" {
		lang = "native"
	}

	switch lang {
	case "native", "python", "cpp", "go":
		return lang, nil
	case "py":
		return "python", nil
	case "c++":
		return "cpp", nil
	default:
		return "", fmt.Errorf("unknown backend %q: use native, python, cpp, or go", lang)
	}
}

func bound(s *session.Session, lang string) *session.Bound {
	switch lang {
	case "python":
		return s.Python()
	case "cpp":
		return s.Cpp()
	case "go":
		return s.Go()
	default:
		return s.Native()
	}
}
