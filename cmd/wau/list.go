package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/scan"
)

type exportSummary struct {
	file scan.FileInfo
	conv *parse.Conversation
	err  error
}

func listCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List chat exports found in a directory",
		Long:  `Scans a directory (the configured export_dir by default) for .txt exports, newest first, and prints a one-line overview of each.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.ExportDir
			if len(args) > 0 {
				dir = args[0]
			}

			files, err := scan.ScanDir(dir)
			if err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}
			if len(files) == 0 {
				fmt.Fprintf(os.Stderr, "No exports found in %s\n", dir)
				return nil
			}

			summaries := make([]exportSummary, len(files))
			var g errgroup.Group
			g.SetLimit(runtime.NumCPU())
			for i, f := range files {
				g.Go(func() error {
					conv, err := parse.Load(f.Path, parse.Options{
						Logger: slog.New(slog.DiscardHandler),
					})
					summaries[i] = exportSummary{file: f, conv: conv, err: err}
					return nil
				})
			}
			g.Wait()

			for _, s := range summaries {
				fmt.Println(formatSummary(s))
			}
			return nil
		},
	}
	return cmd
}

func formatSummary(s exportSummary) string {
	modified := time.Unix(s.file.Mtime, 0).Format("2006-01-02")
	if s.err != nil {
		return fmt.Sprintf("%s  %s%s  (skipped: %v)%s", modified, sColorDim, s.file.Name, s.err, sColorReset)
	}
	c := s.conv
	return fmt.Sprintf("%s  %s%s%s  %s, %d messages, %s to %s  [%s]",
		modified,
		sColorBlue, s.file.Name, sColorReset,
		c.ChatType,
		len(c.Messages),
		c.DateRange.Start.Format("2006-01-02"),
		c.DateRange.End.Format("2006-01-02"),
		strings.Join(c.Participants, ", "),
	)
}
