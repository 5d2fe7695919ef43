package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-unwrapped/internal/parse"
	"github.com/Zuo-Peng/chat-unwrapped/internal/render"
	"github.com/Zuo-Peng/chat-unwrapped/internal/report"
	"github.com/Zuo-Peng/chat-unwrapped/internal/stats"
)

func analyzeCmd(a *app) *cobra.Command {
	var chatType, format, output string
	var gapHours float64
	var minPhraseFreq, maxNgram int

	cmd := &cobra.Command{
		Use:   "analyze <export>",
		Short: "Compute statistics for a WhatsApp chat export",
		Long: `Parse a WhatsApp "Export chat" text file and compute message, timing,
content and interaction statistics.

The default text format prints a summary; json and yaml write the full report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := parse.ParseChatType(chatType)
			if err != nil {
				return err
			}

			opts := a.cfg.StatsOptions()
			if cmd.Flags().Changed("gap-hours") {
				opts.GapHours = gapHours
			}
			if cmd.Flags().Changed("min-phrase-freq") {
				opts.MinPhraseFreq = minPhraseFreq
			}
			if cmd.Flags().Changed("max-ngram") {
				opts.MaxNgram = maxNgram
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Format
			}

			conv, err := parse.Load(args[0], parse.Options{ChatType: ct})
			if err != nil {
				return err
			}

			s, err := stats.Analyze(conv, opts)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			write := func(w io.Writer) error {
				if format == "text" {
					return render.Summary(w, s)
				}
				return report.Write(w, report.New(conv, s), format)
			}

			if output == "" {
				return write(os.Stdout)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := writeAndClose(f, write); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			slog.Info("report written", "path", output, "format", format)
			return nil
		},
	}

	def := stats.DefaultOptions()
	cmd.Flags().StringVar(&chatType, "type", "auto", "Chat type (auto/1-on-1/group)")
	cmd.Flags().Float64Var(&gapHours, "gap-hours", def.GapHours, "Hours of silence that start a new session")
	cmd.Flags().IntVar(&minPhraseFreq, "min-phrase-freq", def.MinPhraseFreq, "Minimum occurrences for a phrase to be reported")
	cmd.Flags().IntVar(&maxNgram, "max-ngram", def.MaxNgram, "Longest phrase length in words (2-4)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text/json/yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to file instead of stdout")

	return cmd
}

// writeAndClose runs write against wc and closes it, reporting the close
// error when the write itself succeeded.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
