package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newClearCommand() *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop every pending item from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}

			n, err := c.ClearQueue(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to clear the queue: %w", err)
			}

			_, _ = color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "cleared %d pending items\n", n)
			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
