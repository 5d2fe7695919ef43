package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-unwrapped/internal/render"
)

func previewCmd(a *app) *cobra.Command {
	var hitID int
	var context int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <export>",
		Short: "Preview the conversation around a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openExport(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			out, _, err := render.RenderContext(db, render.Options{
				HitID:   hitID,
				Context: context,
				Query:   query,
			})
			if err != nil {
				return err
			}

			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&hitID, "hit", -1, "Message ID to highlight")
	cmd.Flags().IntVar(&context, "context", 10, "Messages before/after hit to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
