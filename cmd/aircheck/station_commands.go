package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
	"aircheck/internal/discovery"
	"aircheck/internal/ipc"
	"aircheck/internal/logging"
)

func newStationCommand(ctx *commandContext) *cobra.Command {
	stationCmd := &cobra.Command{
		Use:   "station",
		Short: "Manage stations",
	}
	stationCmd.AddCommand(newStationAddCommand(ctx))
	stationCmd.AddCommand(newStationListCommand(ctx))
	stationCmd.AddCommand(newStationTestCommand(ctx))
	stationCmd.AddCommand(newStationDiscoverCommand(ctx))
	return stationCmd
}

func newStationAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var call string
	var streamURL string
	var userAgent string
	var discover bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a station to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			call = strings.ToUpper(strings.TrimSpace(call))
			if name == "" || call == "" {
				return fmt.Errorf("station add requires --name and --call")
			}
			if streamURL == "" && !discover {
				return fmt.Errorf("provide --url or use --discover to find a stream")
			}

			return ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				station, err := store.CreateStation(cmdCtx, &catalog.Station{
					Name:        name,
					CallLetters: call,
					StreamURL:   streamURL,
					UserAgent:   userAgent,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Added station %s (id %d)\n", station.CallLetters, station.ID)

				if !discover {
					return nil
				}
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				client := discovery.NewClient(cfg, logging.NewNop())
				updated, match, err := client.RefreshStation(cmdCtx, store, station.ID, discovery.FreshDiscoveryWeights)
				if err != nil {
					return fmt.Errorf("discover stream: %w", err)
				}
				fmt.Fprintf(out, "Discovered stream %s (confidence %.2f, via %s)\n",
					updated.StreamURL, match.Confidence, match.Source)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Station name, e.g. \"WEHC 90.7 FM\"")
	cmd.Flags().StringVar(&call, "call", "", "Call letters, e.g. WEHC")
	cmd.Flags().StringVar(&streamURL, "url", "", "Stream URL")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header some streams require")
	cmd.Flags().BoolVar(&discover, "discover", false, "Find a stream URL via the registry")
	return cmd
}

func newStationListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				stations, err := store.ListStations(cmdCtx)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(stations))
				for _, station := range stations {
					tested := ""
					if station.LastTestedAt != nil {
						tested = station.LastTestedAt.Local().Format("2006-01-02 15:04")
					}
					rows = append(rows, []string{
						strconv.FormatInt(station.ID, 10),
						station.CallLetters,
						station.Name,
						string(station.LastTestResult),
						string(station.RecommendedTool),
						tested,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Call", "Name", "Last Test", "Tool", "Tested At"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newStationTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test <station-id>",
		Short: "Run a short test capture against a station",
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
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RecordNow(ipc.RecordNowRequest{
					StationID:       stationID,
					ShowID:          showID,
					DurationSeconds: cfg.Capture.TestDurationSeconds,
					SourceType:      string(catalog.SourceTest),
				})
				if err != nil {
					return fmt.Errorf("test capture failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Test capture OK: %s (%s)\n",
					resp.Recording.Filename, formatBytes(resp.Recording.FileSizeBytes))
				return nil
			})
		},
	}
}

func newStationDiscoverCommand(ctx *commandContext) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "discover <station-id>",
		Short: "Find a working stream for a station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stationID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid station id %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DiscoverStation(stationID, fresh)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stream for %s: %s (confidence %.2f, via %s)\n",
					resp.Station.CallLetters, resp.StreamURL, resp.Confidence, resp.Source)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&fresh, "fresh", false, "Score as a first-time discovery instead of a rediscovery")
	return cmd
}

// onDemandShowName is the catalog show that owns test and on-demand
// captures for a station. The engine never creates it; this CLI does.
const onDemandShowName = "On-Demand Recordings"

func resolveOnDemandShow(ctx *commandContext, stationID int64) (int64, error) {
	var showID int64
	err := ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
		show, err := store.GetShowByName(cmdCtx, stationID, onDemandShowName)
		if err != nil {
			return err
		}
		if show == nil {
			show, err = store.CreateShow(cmdCtx, &catalog.Show{
				StationID:       stationID,
				Name:            onDemandShowName,
				RetentionUnit:   catalog.RetentionIndefinite,
				Active:          true,
				DurationMinutes: 60,
			})
			if err != nil {
				return fmt.Errorf("create on-demand show: %w", err)
			}
		}
		showID = show.ID
		return nil
	})
	return showID, err
}
