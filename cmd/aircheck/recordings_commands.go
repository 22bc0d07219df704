package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
)

func newRecordingsCommand(ctx *commandContext) *cobra.Command {
	recordingsCmd := &cobra.Command{
		Use:   "recordings",
		Short: "Inspect captured recordings",
	}
	recordingsCmd.AddCommand(newRecordingsListCommand(ctx))
	return recordingsCmd
}

func newRecordingsListCommand(ctx *commandContext) *cobra.Command {
	var showID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				recordings, err := store.ListRecordings(cmdCtx, showID)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(recordings))
				for _, recording := range recordings {
					expires := "never"
					if expiry := recording.EffectiveExpiry(); expiry != nil {
						expires = expiry.Local().Format("2006-01-02 15:04")
					}
					rows = append(rows, []string{
						strconv.FormatInt(recording.ID, 10),
						recording.Filename,
						recording.RecordedAt.Local().Format("2006-01-02 15:04"),
						formatBytes(recording.FileSizeBytes),
						string(recording.SourceType),
						string(recording.Tool),
						expires,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Filename", "Recorded", "Size", "Source", "Tool", "Expires"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&showID, "show", 0, "Limit to one show's recordings")
	return cmd
}
