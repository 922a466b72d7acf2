package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cwarden/theine/internal/export"
	"github.com/cwarden/theine/internal/layout"
)

var (
	layoutAt     string
	layoutFormat string
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the calendar layout as JSON or YAML",
	Long: `Print the calendar grid the TUI would draw: the visible window, hour
markers and every activity with its column and minute offsets.`,
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVar(&layoutAt, "at", "", "Lay out as seen at this time")
	layoutCmd.Flags().StringVar(&layoutFormat, "format", string(export.FormatJSON), "Output format: json or yaml")
	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(layoutFormat)
	if err != nil {
		return err
	}

	now, err := resolveNow(layoutAt)
	if err != nil {
		return err
	}

	container, err := loadContainer()
	if err != nil {
		return err
	}

	cal, ok := layout.Build(container.Snapshot().Activities, now)
	doc := export.NewLayoutDocument(cal, ok, now, cfg.TimeFormat)
	return export.WriteLayout(cmd.OutOrStdout(), doc, format)
}
