package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
	"aircheck/internal/ipc"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Manage shows",
	}
	showCmd.AddCommand(newShowAddCommand(ctx))
	showCmd.AddCommand(newShowListCommand(ctx))
	showCmd.AddCommand(newShowSetActiveCommand(ctx, "enable", true))
	showCmd.AddCommand(newShowSetActiveCommand(ctx, "disable", false))
	return showCmd
}

func newShowAddCommand(ctx *commandContext) *cobra.Command {
	var stationID int64
	var name string
	var durationMins int
	var retainValue int
	var retainUnit string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a show to a station",
		RunE: func(cmd *cobra.Command, args []string) error {
			if stationID <= 0 || name == "" {
				return fmt.Errorf("show add requires --station and --name")
			}
			unit := catalog.RetentionUnit(retainUnit)
			switch unit {
			case catalog.RetentionDays, catalog.RetentionWeeks, catalog.RetentionMonths, catalog.RetentionIndefinite:
			default:
				return fmt.Errorf("invalid retention unit %q (days, weeks, months, indefinite)", retainUnit)
			}
			return ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				station, err := store.GetStation(cmdCtx, stationID)
				if err != nil {
					return err
				}
				if station == nil {
					return fmt.Errorf("station %d not found", stationID)
				}
				show, err := store.CreateShow(cmdCtx, &catalog.Show{
					StationID:       stationID,
					Name:            name,
					RetentionUnit:   unit,
					RetentionValue:  retainValue,
					Active:          true,
					DurationMinutes: durationMins,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added show %q (id %d) on %s\n",
					show.Name, show.ID, station.CallLetters)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&stationID, "station", 0, "Station ID the show airs on")
	cmd.Flags().StringVar(&name, "name", "", "Show name")
	cmd.Flags().IntVar(&durationMins, "duration-mins", 60, "Capture length in minutes")
	cmd.Flags().IntVar(&retainValue, "retain", 4, "How many retention units to keep recordings")
	cmd.Flags().StringVar(&retainUnit, "retain-unit", "weeks", "Retention unit: days, weeks, months, indefinite")
	return cmd
}

func newShowListCommand(ctx *commandContext) *cobra.Command {
	var stationID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				shows, err := store.ListShows(cmdCtx, stationID)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(shows))
				for _, show := range shows {
					retention := string(show.RetentionUnit)
					if show.RetentionUnit != catalog.RetentionIndefinite {
						retention = fmt.Sprintf("%d %s", show.RetentionValue, show.RetentionUnit)
					}
					rows = append(rows, []string{
						strconv.FormatInt(show.ID, 10),
						strconv.FormatInt(show.StationID, 10),
						show.Name,
						strconv.Itoa(show.DurationMinutes) + "m",
						retention,
						yesNo(show.Active),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Station", "Name", "Length", "Retention", "Active"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&stationID, "station", 0, "Limit to one station's shows")
	return cmd
}

func newShowSetActiveCommand(ctx *commandContext, verb string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <show-id>",
		Short: verb + " a show's scheduled captures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}
			err = ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				return store.SetShowActive(cmdCtx, showID, active)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Show %d %sd\n", showID, verb)

			// Ask a running daemon to reinstall the show's triggers. Not
			// fatal when no daemon is up; the next start picks it up.
			if dialErr := ctx.withClient(func(client *ipc.Client) error {
				_, callErr := client.RefreshShow(showID)
				return callErr
			}); dialErr != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon not refreshed: %v\n", dialErr)
			}
			return nil
		},
	}
}
