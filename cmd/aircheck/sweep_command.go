package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aircheck/internal/ipc"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a retention sweep now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SweepNow()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"Sweep complete: %d expired, %d orphans, %s reclaimed\n",
					resp.Expired, resp.Orphans, formatBytes(resp.BytesReclaimed))
				return nil
			})
		},
	}
}
