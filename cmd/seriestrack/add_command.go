package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seriestrack/internal/series"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		categoryFlag string
		ratingFlag   string
		seasonFlag   string
		episodeFlag  string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Look up a series on TMDB and add it to your list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			category, err := series.ParseCategory(categoryFlag)
			if err != nil {
				return err
			}
			rating, err := series.ParseRating(ratingFlag)
			if err != nil {
				return err
			}
			if rating != nil && category == series.CategoryWatchlist {
				return errors.New("watchlist entries cannot be rated; add without --rating")
			}

			var progress *series.Progress
			if cmd.Flags().Changed("season") || cmd.Flags().Changed("episode") {
				if !category.TracksProgress() {
					return fmt.Errorf("%w: category %s", series.ErrProgressNotAllowed, category)
				}
				progress = &series.Progress{Season: seasonFlag, Episode: episodeFlag}
			}

			res, err := ctx.newResolver(cmd)
			if err != nil {
				return err
			}
			desc, err := res.Lookup(cmd.Context(), query)
			if err != nil {
				return lookupError(query, err)
			}
			rec, err := desc.Record(query, category, rating, progress)
			if err != nil {
				return err
			}

			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			entry, err := st.Append(cmd.Context(), rec)
			if err != nil {
				return fmt.Errorf("save series: %w", err)
			}

			msg := fmt.Sprintf("%s (%s) to %s as #%d [%s]", rec.Title, orDash(rec.Year), rec.Category, entry.Position+1, shortID(rec.ID))
			printStatus(cmd.OutOrStdout(), "Added", statusOK, msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categoryFlag, "category", "C", string(series.CategoryWatching), "Category: "+categoryChoices())
	cmd.Flags().StringVarP(&ratingFlag, "rating", "r", "", "Personal rating from 0.5 to 5.0 in steps of 0.5")
	cmd.Flags().StringVar(&seasonFlag, "season", "", "Current season (watching/abandoned)")
	cmd.Flags().StringVar(&episodeFlag, "episode", "", "Current episode (watching/abandoned)")
	return cmd
}

func categoryChoices() string {
	names := make([]string, 0, 4)
	for _, c := range series.Categories() {
		names = append(names, strings.ToLower(c.String()))
	}
	return strings.Join(names, ", ")
}
