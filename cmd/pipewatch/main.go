package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/systemcrafter/pipewatch/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pipewatch",
	Short: "Follow SystemCrafter pipeline runs in real time",
	Long: `pipewatch subscribes to the orchestrator's event stream for a project
and maintains a live view of its agent tasks, logs, and artifacts.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/pipewatch.yaml", "path to config file")
}

// loadConfig loads and validates the config file, exiting on failure.
// Subcommands call this after flag parsing.
func loadConfig() *config.Config {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// setupLogging installs the default slog logger at the configured level.
func setupLogging(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
