package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newFindCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "find <text>",
		Short: "Search your list by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := strings.Join(args, " ")
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			entries, err := st.Find(cmd.Context(), term)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, recordViews(entries))
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(out, "No series match %q\n", term)
				return nil
			}
			fmt.Fprintln(out, entriesTable(entries, true))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
