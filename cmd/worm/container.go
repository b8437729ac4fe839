package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wormhq/worm/container"
)

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Manage the resource container archive",
	Long: `Inspect and modify the container archive used to embed resource
files into a packaged distribution.`,
}

func init() {
	containerCmd.PersistentFlags().String("archive", "", "Archive path (default: from config)")
	containerCmd.PersistentFlags().String("format", "zip", "Save format: zip, gzip-json")

	containerCmd.AddCommand(
		containerAddCmd, containerListCmd, containerExtractCmd,
		containerExtractAllCmd, containerRemoveCmd, containerExistsCmd,
		containerCatCmd, containerStatsCmd, containerClearCmd,
	)
	rootCmd.AddCommand(containerCmd)
}

// openStore builds the store from flags and config.
func openStore(cmd *cobra.Command) *container.Store {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fatal(err)
	}

	path, _ := cmd.Flags().GetString("archive")
	if path == "" {
		path = cfg.ContainerPath
	}

	var codec container.Codec = container.ZipCodec{}
	if format, _ := cmd.Flags().GetString("format"); format == "gzip-json" {
		codec = container.GzipJSONCodec{}
	}

	return container.New(path,
		container.WithCodec(codec),
		container.WithEmbedded(cfg.Embedded),
		container.WithLogger(cfg.Logger()))
}

func saveStore(store *container.Store) {
	if err := store.Save(""); err != nil {
		fatal(err)
	}
}

var containerAddCmd = &cobra.Command{
	Use:   "add <source> [target]",
	Short: "Add a file or directory to the container",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)

		target := ""
		if len(args) > 1 {
			target = args[1]
		}

		info, err := os.Stat(args[0])
		if err != nil {
			fatal(err)
		}
		if info.IsDir() {
			err = store.AddDirectory(args[0], target)
		} else {
			err = store.AddFile(args[0], target)
		}
		if err != nil {
			fatal(err)
		}
		saveStore(store)
		fmt.Printf("added %s\n", args[0])
	},
}

var containerListCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List stored paths",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)

		prefix := ""
		if len(args) > 0 {
			prefix = args[0]
		}
		for _, path := range store.List(prefix) {
			fmt.Println(path)
		}
	},
}

var containerExtractCmd = &cobra.Command{
	Use:   "extract <path> [output]",
	Short: "Extract one entry to the filesystem",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)

		output := ""
		if len(args) > 1 {
			output = args[1]
		}
		if err := store.Extract(args[0], output); err != nil {
			fatal(err)
		}
	},
}

var containerExtractAllCmd = &cobra.Command{
	Use:   "extract-all <dir>",
	Short: "Extract every entry into a directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)
		if err := store.ExtractAll(args[0]); err != nil {
			fatal(err)
		}
	},
}

var containerRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove one entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)
		if !store.Remove(args[0]) {
			fatal(fmt.Errorf("entry not found: %s", args[0]))
		}
		saveStore(store)
		fmt.Printf("removed %s\n", args[0])
	},
}

var containerExistsCmd = &cobra.Command{
	Use:   "exists <path>",
	Short: "Check whether an entry exists",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)
		fmt.Println(store.Exists(args[0]))
	},
}

var containerCatCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print one entry to stdout",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)
		data, err := store.Read(args[0])
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(data)
	},
}

var containerStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show container statistics",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)
		stats := store.Stats()
		fmt.Printf("files:    %d\n", stats.FileCount)
		fmt.Printf("size:     %d (%s)\n", stats.TotalSize, stats.HumanSize)
		fmt.Printf("embedded: %v\n", stats.Embedded)
		fmt.Printf("archive:  %s\n", store.Path())
	},
}

var containerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every entry and persist the empty container",
	Run: func(cmd *cobra.Command, args []string) {
		store := openStore(cmd)
		store.Clear()
		saveStore(store)
		fmt.Println("container cleared")
	},
}
