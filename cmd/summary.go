package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryFile string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Load a listing snapshot once and print the market summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, closeSrc, err := openSource(cmd.Context(), summaryFile)
		if err != nil {
			return err
		}
		defer closeSrc()

		pipeline := newPipeline()
		snap, err := pipeline.Load(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Name(), err)
		}

		out := cmd.OutOrStdout()
		pipeline.Aggregator().Fprint(out, snap.Summary)
		fmt.Fprintf(out, "  Source: %s | rows read: %d | dropped: %d\n\n", snap.Source, snap.RowsRead, snap.RowsDropped)
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryFile, "file", "f", "", "snapshot file (.xlsx or .csv); defaults to SNAPSHOT_PATH")
	rootCmd.AddCommand(summaryCmd)
}
