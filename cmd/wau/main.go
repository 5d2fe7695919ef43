package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-unwrapped/internal/config"
	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
)

var version = "dev"

// app holds state shared by all subcommands, filled in before any of them run.
type app struct {
	cfg      *config.Config
	verbose  bool
	closeLog func() error
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "wau",
		Short:   "WhatsApp Unwrapped - statistics and search for WhatsApp chat exports",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg

			level := cfg.Level()
			if a.verbose {
				level = slog.LevelDebug
			}
			logger, closeLog := config.SetupLogger(cfg.LogFile, level)
			slog.SetDefault(logger)
			a.closeLog = closeLog
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(analyzeCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(previewCmd(a))
	rootCmd.AddCommand(openCmd(a))
	rootCmd.AddCommand(listCmd(a))
	rootCmd.AddCommand(doctorCmd(a))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openExport parses the export at path and loads it into a fresh index.
func openExport(path string) (*index.DB, error) {
	conv, err := parse.Load(path, parse.Options{})
	if err != nil {
		return nil, err
	}
	db, err := index.Build(conv)
	if err != nil {
		return nil, fmt.Errorf("index export: %w", err)
	}
	return db, nil
}
