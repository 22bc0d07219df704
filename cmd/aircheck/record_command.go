package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
	"aircheck/internal/ipc"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var durationMins int
	var test bool

	cmd := &cobra.Command{
		Use:   "record <station-id>",
		Short: "Start an immediate capture through the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stationID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid station id %q", args[0])
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			showID, err := resolveOnDemandShow(ctx, stationID)
			if err != nil {
				return err
			}

			sourceType := catalog.SourceOnDemand
			durationSeconds := durationMins * 60
			if durationMins <= 0 {
				durationSeconds = cfg.Capture.OnDemandDurationMins * 60
			}
			if test {
				sourceType = catalog.SourceTest
				durationSeconds = cfg.Capture.TestDurationSeconds
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecordNow(ipc.RecordNowRequest{
					StationID:       stationID,
					ShowID:          showID,
					DurationSeconds: durationSeconds,
					SourceType:      string(sourceType),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s, %s)\n",
					resp.Recording.Filename,
					formatBytes(resp.Recording.FileSizeBytes),
					resp.Recording.Tool)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&durationMins, "duration-mins", 0, "Capture length in minutes (default from config)")
	cmd.Flags().BoolVar(&test, "test", false, "Short test capture with the test TTL")
	return cmd
}
