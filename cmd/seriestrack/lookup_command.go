package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seriestrack/internal/resolver"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "lookup <title>",
		Short: "Show TMDB metadata for a series without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			res, err := ctx.newResolver(cmd)
			if err != nil {
				return err
			}
			desc, err := res.Lookup(cmd.Context(), query)
			if err != nil {
				return lookupError(query, err)
			}
			if asJSON {
				return writeJSON(cmd, desc)
			}

			out := cmd.OutOrStdout()
			for _, line := range descriptorLines(desc) {
				fmt.Fprintf(out, "%-12s %s\n", line[0]+":", line[1])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

// lookupError turns resolver failures into the user-facing not-found
// message, keeping the cause when the catalog could not be reached.
func lookupError(query string, err error) error {
	switch {
	case errors.Is(err, resolver.ErrCatalogUnavailable):
		return fmt.Errorf("series not found: %s (catalog unavailable: %w)", query, errors.Unwrap(err))
	case errors.Is(err, resolver.ErrNotFound):
		return fmt.Errorf("series not found: %s", query)
	default:
		return err
	}
}
