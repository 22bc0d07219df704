package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"aircheck/internal/catalog"
	"aircheck/internal/ipc"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage show schedules",
	}
	scheduleCmd.AddCommand(newScheduleAddCommand(ctx))
	scheduleCmd.AddCommand(newScheduleListCommand(ctx))
	return scheduleCmd
}

func newScheduleAddCommand(ctx *commandContext) *cobra.Command {
	var airing string
	var priority int
	var description string

	cmd := &cobra.Command{
		Use:   "add <show-id> <cron-expression>",
		Short: "Add a cron trigger for a show",
		Long: `Add a cron trigger for a show. The expression uses standard five-field
cron syntax evaluated in the configured timezone, e.g. "0 8 * * 1-5"
for weekdays at 08:00.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			showID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}
			expression := args[1]
			if _, err := cron.ParseStandard(expression); err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", expression, err)
			}
			airingType := catalog.AiringType(airing)
			switch airingType {
			case catalog.AiringOriginal, catalog.AiringRepeat, catalog.AiringSpecial:
			default:
				return fmt.Errorf("invalid airing type %q (original, repeat, special)", airing)
			}

			err = ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				show, err := store.GetShow(cmdCtx, showID)
				if err != nil {
					return err
				}
				if show == nil {
					return fmt.Errorf("show %d not found", showID)
				}
				schedule, err := store.AddSchedule(cmdCtx, &catalog.ShowSchedule{
					ShowID:         showID,
					CronExpression: expression,
					AiringType:     airingType,
					Priority:       priority,
					Description:    description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Schedule %d added for show %q: %s (%s)\n",
					schedule.ID, show.Name, expression, airingType)
				return nil
			})
			if err != nil {
				return err
			}

			if dialErr := ctx.withClient(func(client *ipc.Client) error {
				_, callErr := client.RefreshShow(showID)
				return callErr
			}); dialErr != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Daemon not refreshed: %v\n", dialErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&airing, "airing", string(catalog.AiringOriginal), "Airing type: original, repeat, special")
	cmd.Flags().IntVar(&priority, "priority", 0, "Tie-break priority when airings overlap")
	cmd.Flags().StringVar(&description, "description", "", "Free-form note, e.g. \"Sunday repeat\"")
	return cmd
}

func newScheduleListCommand(ctx *commandContext) *cobra.Command {
	var showID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedule triggers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cmdCtx context.Context, store *catalog.Store) error {
				schedules, err := store.ListSchedules(cmdCtx, showID)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(schedules))
				for _, schedule := range schedules {
					rows = append(rows, []string{
						strconv.FormatInt(schedule.ID, 10),
						strconv.FormatInt(schedule.ShowID, 10),
						schedule.CronExpression,
						string(schedule.AiringType),
						strconv.Itoa(schedule.Priority),
						schedule.Description,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Show", "Cron", "Airing", "Priority", "Description"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&showID, "show", 0, "Limit to one show's triggers")
	return cmd
}
