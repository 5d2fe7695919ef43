package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/chat-unwrapped/internal/search"
	"github.com/Zuo-Peng/chat-unwrapped/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func flatten(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}

func searchCmd(a *app) *cobra.Command {
	var sender, since string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <export> [query]",
		Short: "Full-text search across the messages of an export",
		Long: `Search the messages of an export using FTS5. Without a query on a terminal,
browse the whole conversation. Output is TSV for fzf integration:
  messageId, timestamp, sender, kind, snippet

Recommended shell function (add to .zshrc):
  wauf() {
    wau search "$1" "${@:2}" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=2.. \
      --preview "wau preview $1 --hit {1} --context 5 --query {q}" \
      --preview-window=right:60%:wrap \
      --bind "enter:execute(wau open $1 --hit {1})"
  }`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openExport(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			var query string
			if len(args) > 1 {
				query = args[1]
			}
			opts := search.Options{
				Sender: sender,
				Since:  since,
				Limit:  limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, query, opts)
			}

			opts.Query = query
			var results []search.Result
			if strings.TrimSpace(query) == "" {
				results, err = search.ListAll(db, opts)
			} else {
				results, err = search.Search(db, opts)
			}
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				who := r.Sender
				if who == "" {
					who = "-"
				}
				// first field (messageId) stays plain for fzf {1}
				fmt.Printf("%d\t%s%s%s\t%s%s%s\t%s\t%s\n",
					r.ID,
					sColorDim, r.Ts, sColorReset,
					sColorBlue, flatten(who), sColorReset,
					r.Kind,
					colorizeSnippet(flatten(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Filter by sender name")
	cmd.Flags().StringVar(&since, "since", "", "Filter messages sent since date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
