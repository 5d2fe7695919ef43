package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-unwrapped/internal/config"
	"github.com/Zuo-Peng/chat-unwrapped/internal/index"
	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/search"
)

func doctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [export]",
		Short: "Self-check: verify config, FTS5, and optionally an export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			fmt.Println("=== Config ===")
			if path, err := config.Path(); err == nil {
				if _, err := os.Stat(path); err != nil {
					fmt.Printf("  File: %s (NOT FOUND, using defaults)\n", path)
				} else {
					fmt.Printf("  File: %s (OK)\n", path)
				}
			}
			fmt.Printf("  Gap hours:       %g\n", cfg.GapHours)
			fmt.Printf("  Min phrase freq: %d\n", cfg.MinPhraseFreq)
			fmt.Printf("  Max n-gram:      %d\n", cfg.MaxNgram)
			fmt.Printf("  Format:          %s\n", cfg.Format)
			fmt.Printf("  Log level:       %s\n", cfg.LogLevel)
			checkDir("Export dir", cfg.ExportDir)

			fmt.Println("\n=== FTS5 ===")
			db, err := index.OpenMemory()
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				db.Close()
				fmt.Println("  Status: OK")
			}

			if len(args) == 0 {
				return nil
			}

			fmt.Println("\n=== Export ===")
			fmt.Printf("  Path: %s\n", args[0])
			conv, err := parse.Load(args[0], parse.Options{})
			if err != nil {
				var fe *parse.FormatError
				var pe *parse.ParseError
				switch {
				case errors.As(err, &fe):
					fmt.Printf("  Status: NOT A WHATSAPP EXPORT (%v)\n", err)
				case errors.As(err, &pe):
					fmt.Printf("  Status: BROKEN AT LINE %d (%v)\n", pe.Line, err)
				default:
					return err
				}
				return nil
			}
			fmt.Printf("  Chat type:    %s\n", conv.ChatType)
			fmt.Printf("  Messages:     %d\n", len(conv.Messages))
			fmt.Printf("  Participants: %d\n", len(conv.Participants))
			fmt.Printf("  Orphan lines: %d\n", conv.OrphanLines)
			for _, w := range conv.Warnings {
				fmt.Printf("  Warning: %s\n", w)
			}

			// check the index round-trip
			db, err = index.Build(conv)
			if err != nil {
				return fmt.Errorf("index export: %w", err)
			}
			defer db.Close()

			count, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			listed, err := search.ListAll(db, search.Options{Limit: count + 1})
			if err != nil {
				fmt.Printf("  Index error: %v\n", err)
			} else {
				fmt.Printf("  Indexed: %d messages (%d from participants)\n", count, len(listed))
			}
			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
