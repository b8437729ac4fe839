package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wormhq/worm/config"
	"github.com/wormhq/worm/session"
)

const version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "worm",
	Short: "Uniform fluent API over four language backends",
	Long: `worm - one API, four language backends (native, Python, C++, Go),
plus an in-memory container for embedding resource files.

Backends that need an external toolchain degrade gracefully when it is
absent: results are computed natively and labeled as simulated.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Operation timeout")
	rootCmd.PersistentFlags().String("session", "", "Session name (default: generated)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the worm version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("worm %s\n", version)
	},
}

// loadConfig merges the environment/file configuration with the global
// flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Root().PersistentFlags()
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Debug = true
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	return cfg, nil
}

// newRegistry builds a registry from the merged configuration.
func newRegistry(cmd *cobra.Command) (*session.Registry, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return session.NewRegistry(cfg), nil
}

// sessionName returns the --session flag value.
func sessionName(cmd *cobra.Command) string {
	name, _ := cmd.Root().PersistentFlags().GetString("session")
	return name
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
