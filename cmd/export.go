package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwarden/theine/internal/export"
	"github.com/cwarden/theine/internal/log"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the schedule as an iCalendar file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	container, err := loadContainer()
	if err != nil {
		return err
	}
	acts := container.Snapshot().Activities

	if exportOutput == "" {
		return export.WriteICS(cmd.OutOrStdout(), acts, time.Now())
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOutput, err)
	}
	if err := export.WriteICS(f, acts, time.Now()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info("exported", "path", exportOutput, "activities", len(acts))
	return nil
}
