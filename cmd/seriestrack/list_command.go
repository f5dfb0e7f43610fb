package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seriestrack/internal/series"
	"seriestrack/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		sortFlag string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list [category]",
		Short: "List tracked series, optionally for one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := store.ParseSortField(sortFlag)
			if err != nil {
				return err
			}
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}

			var (
				entries []store.Entry
				label   = "your list"
			)
			if len(args) == 1 {
				category, err := series.ParseCategory(args[0])
				if err != nil {
					return err
				}
				entries, err = st.ListByCategory(cmd.Context(), category)
				if err != nil {
					return err
				}
				label = category.String()
			} else {
				entries, err = st.All(cmd.Context())
				if err != nil {
					return err
				}
			}
			store.Sort(entries, field)

			if asJSON {
				return writeJSON(cmd, recordViews(entries))
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No series in %s\n", label)
				return nil
			}
			fmt.Fprintln(out, entriesTable(entries, len(args) == 0))
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "Sort by title, year, catalog_rating or user_rating")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
