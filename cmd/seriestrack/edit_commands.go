package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seriestrack/internal/series"
)

func newRateCommand(ctx *commandContext) *cobra.Command {
	var clearRating bool

	cmd := &cobra.Command{
		Use:   "rate <number|id> [rating]",
		Short: "Set or clear your rating for a series",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rating *float64
				err    error
			)
			switch {
			case clearRating && len(args) == 2:
				return errors.New("pass either a rating or --clear, not both")
			case clearRating:
			case len(args) == 2:
				if rating, err = series.ParseRating(args[1]); err != nil {
					return err
				}
			default:
				return errors.New("rating required (or use --clear)")
			}

			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			entry, err := st.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := st.UpdateUserRatingByID(cmd.Context(), entry.Record.ID, rating); err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), "Rated", statusOK,
				fmt.Sprintf("%s: %s", entry.Record.Title, series.FormatRating(rating, "unrated")))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearRating, "clear", false, "Remove the rating")
	return cmd
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var seasonFlag, episodeFlag string

	cmd := &cobra.Command{
		Use:   "progress <number|id>",
		Short: "Update the current season and episode of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seasonSet := cmd.Flags().Changed("season")
			episodeSet := cmd.Flags().Changed("episode")
			if !seasonSet && !episodeSet {
				return errors.New("set --season and/or --episode")
			}

			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			entry, err := st.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			progress := series.Progress{Season: entry.Record.Season(), Episode: entry.Record.Episode()}
			if seasonSet {
				progress.Season = seasonFlag
			}
			if episodeSet {
				progress.Episode = episodeFlag
			}
			if err := st.UpdateProgressByID(cmd.Context(), entry.Record.ID, progress); err != nil {
				return err
			}
			saved, err := st.Resolve(cmd.Context(), entry.Record.ID)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), "Updated", statusOK,
				fmt.Sprintf("%s: %s", saved.Record.Title, formatProgress(saved.Record)))
			return nil
		},
	}

	cmd.Flags().StringVar(&seasonFlag, "season", "", "Current season")
	cmd.Flags().StringVar(&episodeFlag, "episode", "", "Current episode")
	return cmd
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <number|id>",
		Aliases: []string{"rm"},
		Short:   "Delete a series from your list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			entry, err := st.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			removed, err := st.RemoveByID(cmd.Context(), entry.Record.ID)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), "Removed", statusWarn,
				fmt.Sprintf("%s (%s)", removed.Title, removed.Category))
			return nil
		},
	}
}
