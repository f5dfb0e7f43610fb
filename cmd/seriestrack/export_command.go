package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"seriestrack/internal/config"
	"seriestrack/internal/fileutil"
	"seriestrack/internal/series"
	"seriestrack/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole list as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore(cmd)
			if err != nil {
				return err
			}
			entries, err := st.All(cmd.Context())
			if err != nil {
				return err
			}
			records := make([]series.Record, len(entries))
			for i, entry := range entries {
				records[i] = entry.Record
			}

			target := strings.TrimSpace(outputPath)
			if target == "" || target == "-" {
				return store.WriteCSV(cmd.OutOrStdout(), records)
			}
			if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			err = fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
				return store.WriteCSV(w, records)
			})
			if err != nil {
				return fmt.Errorf("export to %s: %w", target, err)
			}
			printStatus(cmd.ErrOrStderr(), "Exported", statusOK, fmt.Sprintf("%d series to %s", len(records), target))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (stdout when omitted)")
	return cmd
}
