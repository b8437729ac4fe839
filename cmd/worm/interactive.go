package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/wormhq/worm/session"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"repl"},
	Short:   "Interactive shell over a persistent session",
	Long: `Start an interactive shell bound to one session.

Input lines run through the current backend. Meta commands:
  :lang <native|python|cpp|go>   switch backend
  :set <key> <value>             store a context value
  :get <key>                     read a context value
  :history                       show the session history
  :stats                         show container stats

Type 'exit' or 'quit' to end the session, or press Ctrl+D.`,
	Run: runInteractive,
}

func init() {
	interactiveCmd.Flags().StringP("lang", "l", "native", "Initial backend")
	interactiveCmd.Flags().String("history", "", "History file path (default: ~/.worm_history)")
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) {
	lang, _ := cmd.Flags().GetString("lang")
	historyFile, _ := cmd.Flags().GetString("history")

	if historyFile == "" {
		home, _ := os.UserHomeDir()
		historyFile = filepath.Join(home, ".worm_history")
	}

	if _, err := resolveLang(lang, ""); err != nil {
		fatal(err)
	}

	reg, err := newRegistry(cmd)
	if err != nil {
		fatal(err)
	}
	defer reg.Shutdown()

	s := reg.CreateSession(sessionName(cmd))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            lang + "> ",
		HistoryFile:       historyFile,
		HistoryLimit:      1000,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fatal(err)
	}
	defer rl.Close()

	fmt.Fprintf(os.Stderr, "worm %s interactive shell (session %s, type 'exit' to quit)\n",
		version, s.Name())

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		if strings.HasPrefix(line, ":") {
			lang = metaCommand(reg, s, line, lang)
			rl.SetPrompt(lang + "> ")
			continue
		}

		res := bound(s, lang).Execute(context.Background(), line)
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
			fmt.Fprintf(os.Stderr, "Error: %v\n", res.Error)
		}
	}
}

// metaCommand dispatches one ':' command and returns the (possibly
// changed) backend name.
func metaCommand(reg *session.Registry, s *session.Session, line, lang string) string {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":lang":
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, "usage: :lang <native|python|cpp|go>")
			return lang
		}
		resolved, err := resolveLang(fields[1], "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return lang
		}
		return resolved

	case ":set":
		if len(fields) < 3 {
			fmt.Fprintln(os.Stderr, "usage: :set <key> <value>")
			return lang
		}
		s.Set(fields[1], strings.Join(fields[2:], " "))

	case ":get":
		if len(fields) != 2 {
			fmt.Fprintln(os.Stderr, "usage: :get <key>")
			return lang
		}
		if v, ok := s.Get(fields[1]); ok {
			fmt.Println(v)
		} else {
			fmt.Println("(unset)")
		}

	case ":history":
		for i, rec := range s.History() {
			fmt.Printf("%3d  %s  %s -> %v\n",
				i+1, rec.Time.Format("15:04:05"), rec.Label, rec.Result.Value)
		}

	case ":stats":
		stats := reg.Container().Stats()
		fmt.Printf("files: %d, size: %s, embedded: %v\n",
			stats.FileCount, stats.HumanSize, stats.Embedded)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %s\n", fields[0])
	}
	return lang
}
