package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	v1 "github.com/arcaneplugins/levelledmobs/api/v1"
)

func newStatusCommand() *cobra.Command {
	var (
		flags    clientFlags
		restarts uint64
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the queue, its workers and the latest worker restarts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}

			status, err := c.GetQueue(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get queue status: %w", err)
			}

			var list *v1.WorkerRestartList
			if restarts > 0 {
				if list, err = c.ListRestarts(cmd.Context(), restarts); err != nil {
					return fmt.Errorf("failed to list worker restarts: %w", err)
				}
			}

			renderStatus(cmd.OutOrStdout(), status, list)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Uint64Var(&restarts, "restarts", 10, "number of worker restarts to show, 0 hides them")

	return cmd
}

func renderStatus(w io.Writer, status *v1.QueueStatus, list *v1.WorkerRestartList) {
	state := color.New(color.FgGreen).Sprint("running")
	if !status.Running {
		state = color.New(color.FgRed).Sprint("stopped")
	}

	fmt.Fprintf(w, "Queue:          %s\n", state)
	fmt.Fprintf(w, "Pending items:  %d\n", status.Size)
	fmt.Fprintf(w, "In flight:      %d\n", status.InFlight)
	fmt.Fprintf(w, "Active workers: %d\n\n", status.ActiveWorkers)

	workers := tablewriter.NewWriter(w)
	workers.Header("Worker", "State", "Cancelled")
	for _, wk := range status.Workers {
		_ = workers.Append(strconv.Itoa(wk.Id), wk.State, strconv.FormatBool(wk.Cancelled))
	}
	_ = workers.Render()

	if list == nil {
		return
	}

	fmt.Fprintf(w, "\nWorker restarts (%d of %d):\n", len(list.Restarts), list.Total)
	if len(list.Restarts) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header("Time", "Worker", "Status")
	for _, r := range list.Restarts {
		_ = table.Append(
			r.RestartedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.WorkerId),
			r.Status,
		)
	}
	_ = table.Render()
}
