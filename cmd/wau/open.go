package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/chat-unwrapped/internal/open"
)

func openCmd(a *app) *cobra.Command {
	var hitID int

	cmd := &cobra.Command{
		Use:   "open <export>",
		Short: "Open the export in $EDITOR at a message's line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openExport(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenMessage(db, hitID)
		},
	}

	cmd.Flags().IntVar(&hitID, "hit", -1, "Message ID to jump to")

	return cmd
}
