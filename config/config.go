// Package config loads runtime configuration from the environment and an
// optional config file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultArchiveName is the container archive file name used when no
// explicit path is configured.
const DefaultArchiveName = "worm.pack"

// Config is the process-wide runtime configuration.
type Config struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	Debug         bool          `mapstructure:"debug"`
	Embedded      bool          `mapstructure:"embedded"`
	ContainerPath string        `mapstructure:"container_path"`
	PythonBin     string        `mapstructure:"python_bin"`
	GoBin         string        `mapstructure:"go_bin"`
	CppBin        string        `mapstructure:"cpp_bin"`
	HistoryLimit  int           `mapstructure:"history_limit"`
}

// Default returns the built-in configuration: 30s timeout, file-backed
// container under ./container, unbounded history.
func Default() Config {
	return Config{
		Timeout:       30 * time.Second,
		ContainerPath: filepath.Join("container", DefaultArchiveName),
	}
}

// Load reads configuration from WORM_* environment variables and, when
// present, a worm.yaml file in the working directory. Environment wins
// over file, file over defaults.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WORM")
	v.AutomaticEnv()

	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("embedded", false)
	v.SetDefault("container_path", "")
	v.SetDefault("python_bin", "")
	v.SetDefault("go_bin", "")
	v.SetDefault("cpp_bin", "")
	v.SetDefault("history_limit", 0)

	v.SetConfigName("worm")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.ContainerPath == "" {
		cfg.ContainerPath = resolveContainerPath(cfg.Embedded)
	}
	return cfg, nil
}

// resolveContainerPath picks the archive location: next to the running
// executable in embedded mode, under ./container otherwise.
func resolveContainerPath(embedded bool) string {
	if embedded {
		if exe, err := os.Executable(); err == nil {
			return filepath.Join(filepath.Dir(exe), DefaultArchiveName)
		}
	}
	return filepath.Join("container", DefaultArchiveName)
}

// Logger builds the process logger: text to stderr, debug level when the
// debug flag is set.
func (c Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
