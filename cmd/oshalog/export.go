package main

import (
	"oshalog/internal/app"
	oshaController "oshalog/internal/controllers/osha"
	"oshalog/internal/logger"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		establishmentID int
		year            int
		format          string
		dir             string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an establishment's OSHA 300 log as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("main").Function("export")

			return withApp(cmd.Context(), func(application *app.App) error {
				if dir == "" {
					dir = application.Config.ExportDir
				}

				path, err := application.OshaController.ExportToDir(
					cmd.Context(), dir, oshaController.ExportFormat(format), establishmentID, year,
				)
				if err != nil {
					return err
				}

				log.Info("Export written", "path", path)
				cmd.Println(path)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&establishmentID, "establishment", 0, "Establishment ID (required)")
	cmd.Flags().IntVar(&year, "year", currentYear(), "Calendar year of the log")
	cmd.Flags().StringVar(&format, "format", string(oshaController.FormatCSV), "csv or xlsx")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default: export_dir from config)")
	_ = cmd.MarkFlagRequired("establishment")

	return cmd
}
