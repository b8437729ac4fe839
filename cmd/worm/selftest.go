package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wormhq/worm/container"
)

var selftestCmd = &cobra.Command{
	Use:     "selftest",
	Aliases: []string{"test"},
	Short:   "Run the built-in correctness checks",
	Run:     runSelftest,
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

func runSelftest(cmd *cobra.Command, args []string) {
	reg, err := newRegistry(cmd)
	if err != nil {
		fatal(err)
	}
	defer reg.Shutdown()

	ctx := context.Background()
	failed := 0
	check := func(name string, ok bool, detail any) {
		status := "ok"
		if !ok {
			status = "FAIL"
			failed++
		}
		fmt.Printf("  %-32s %s (%v)\n", name, status, detail)
	}

	fmt.Println("== selftest ==")

	s := reg.CreateSession("selftest")
	res := s.Native().Execute(ctx, "evens 1 2 3 4 5 6 7 8 9 10 | square | sum")
	check("native pipeline = 220", res.Value == 220.0, res.Value)

	res = s.Native().Execute(ctx, "upper hello world")
	check("native upper", res.Value == "HELLO WORLD", res.Value)

	res = s.Python().Call(ctx, "sqrt", 16)
	check("python sqrt(16) = 4", res.Error == nil && res.Value == 4.0, res.Value)

	check("history records", len(s.History()) == 3, len(s.History()))

	dir, err := os.MkdirTemp("", "worm-selftest-*")
	if err != nil {
		fatal(err)
	}
	defer os.RemoveAll(dir)

	payload := []byte{0x00, 0x01, 0xff, 0x00}
	for _, codec := range []container.Codec{container.ZipCodec{}, container.GzipJSONCodec{}} {
		path := filepath.Join(dir, "self-"+codec.Name())
		store := container.New(path, container.WithCodec(codec))
		store.Write("bin/data", payload)
		if err := store.Save(""); err != nil {
			fatal(err)
		}

		reloaded := container.New(path)
		data, err := reloaded.Read("bin/data")
		check("round trip "+codec.Name(), err == nil && bytes.Equal(data, payload), err)
	}

	if failed > 0 {
		fmt.Printf("\n%d check(s) failed\n", failed)
		os.Exit(1)
	}
	fmt.Println("\nall checks passed")
}
