package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/commonseek/internal"
	"codeberg.org/snonux/commonseek/internal/cli"
	"codeberg.org/snonux/commonseek/internal/commons"
	"codeberg.org/snonux/commonseek/internal/composite"
	"codeberg.org/snonux/commonseek/internal/server"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	// Config file values apply where the flag was not given explicitly
	cli.ApplyConfig(cmd, flags)

	logger := newLogger(flags.LogLevel)

	client := commons.NewClient(commons.ClientOptions{
		Endpoint:   flags.Endpoint,
		Timeout:    flags.SearchTimeout,
		ThumbWidth: flags.ThumbSize,
		UserAgent:  userAgent(flags.UserAgent),
	})

	generator := composite.NewGenerator(composite.Options{
		ThumbSize:    flags.ThumbSize,
		Columns:      flags.GridColumns,
		Spacing:      flags.GridSpacing,
		MaxItems:     flags.MaxComposite,
		JPEGQuality:  flags.JPEGQuality,
		Concurrency:  flags.FetchConcurrency,
		FetchTimeout: flags.FetchTimeout,
	}, logger)

	srv := server.New(server.DefaultOptions(), client, generator, logger)

	if err := srv.Serve(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// newLogger builds the process logger. Logs go to stderr because stdout
// carries the MCP transport.
func newLogger(level string) *slog.Logger {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}

func userAgent(configured string) string {
	if configured != "" {
		return configured
	}
	return "commonseek/" + internal.Version + " (https://codeberg.org/snonux/commonseek)"
}
