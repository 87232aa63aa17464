package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"landscout/storage"
)

var (
	exportFile string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load a listing snapshot and write the normalized records as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, closeSrc, err := openSource(cmd.Context(), exportFile)
		if err != nil {
			return err
		}
		defer closeSrc()

		snap, err := newPipeline().Load(cmd.Context(), src)
		if err != nil {
			return fmt.Errorf("load %s: %w", src.Name(), err)
		}

		w, err := storage.NewRecordFileWriter(exportOut)
		if err != nil {
			return err
		}
		if err := w.Write(snap.Records); err != nil {
			_ = w.Close()
			return fmt.Errorf("export %s: %w", exportOut, err)
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("export %s: %w", exportOut, err)
		}

		logger.Info("[export] Wrote %d records from %s to %s", len(snap.Records), snap.Source, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "snapshot file (.xlsx or .csv); defaults to SNAPSHOT_PATH")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "output/records.csv", "destination CSV path")
	rootCmd.AddCommand(exportCmd)
}
