package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List the built-in demo pipelines",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(`Built-in demos:

  worm ml-pipeline     numeric pipeline across backends
  worm text-pipeline   string pipeline on the native backend
  worm selftest        run the built-in correctness checks

Each demo runs inside a session; pass --debug to see degradation
warnings when external toolchains are missing.`)
	},
}

var mlPipelineCmd = &cobra.Command{
	Use:   "ml-pipeline",
	Short: "Run the numeric demo pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := newRegistry(cmd)
		if err != nil {
			fatal(err)
		}
		defer reg.Shutdown()

		ctx := context.Background()
		s := reg.CreateSession(sessionName(cmd))

		fmt.Println("== ml-pipeline ==")

		res := s.Native().Execute(ctx, "evens 1 2 3 4 5 6 7 8 9 10 | square | sum")
		printStep("native", "sum of squared evens", res.Value, res.Degraded, res.Reason)

		res = s.Python().Call(ctx, "sqrt", 220)
		printStep("python", "sqrt(220)", res.Value, res.Degraded, res.Reason)

		res = s.Cpp().Call(ctx, "pow", 2, 10)
		printStep("cpp", "pow(2, 10)", res.Value, res.Degraded, res.Reason)

		res = s.Go().Call(ctx, "mean", 1, 2, 3, 4, 5)
		printStep("go", "mean(1..5)", res.Value, res.Degraded, res.Reason)

		fmt.Printf("\n%d operations recorded in session %s\n", len(s.History()), s.Name())
	},
}

var textPipelineCmd = &cobra.Command{
	Use:   "text-pipeline",
	Short: "Run the string demo pipeline",
	Run: func(cmd *cobra.Command, args []string) {
		reg, err := newRegistry(cmd)
		if err != nil {
			fatal(err)
		}
		defer reg.Shutdown()

		ctx := context.Background()
		s := reg.CreateSession(sessionName(cmd))

		fmt.Println("== text-pipeline ==")

		res := s.Native().Execute(ctx, "upper hello world")
		printStep("native", "upper", res.Value, res.Degraded, res.Reason)

		res = s.Native().Execute(ctx, "split hello world | join -")
		printStep("native", "split+join", res.Value, res.Degraded, res.Reason)

		res = s.Native().Execute(ctx, "title the worm demo")
		printStep("native", "title", res.Value, res.Degraded, res.Reason)

		fmt.Printf("\n%d operations recorded in session %s\n", len(s.History()), s.Name())
	},
}

func printStep(lang, label string, value any, degraded bool, reason string) {
	marker := ""
	if degraded {
		marker = fmt.Sprintf("  (simulated: %s)", reason)
	}
	fmt.Printf("  [%s] %-22s %v%s\n", lang, label, value, marker)
}

func init() {
	rootCmd.AddCommand(examplesCmd, mlPipelineCmd, textPipelineCmd)
}
