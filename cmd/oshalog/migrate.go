package main

import (
	"oshalog/cmd/migration/seed"
	"oshalog/internal/app"
	"oshalog/internal/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var down int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations, or roll back with --down",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("main").Function("migrate")

			// Opening the app applies pending migrations.
			return withApp(cmd.Context(), func(application *app.App) error {
				if down <= 0 {
					log.Info("Schema is up to date")
					return nil
				}

				applied, err := application.Database.MigrateDown(down)
				if err != nil {
					return log.Err("failed to roll back migrations", err, "steps", down)
				}
				log.Info("Rolled back migrations", "count", applied)

				// Cached summaries may describe rows the rollback removed.
				return application.Database.FlushAllCaches(cmd.Context())
			})
		},
	}

	cmd.Flags().IntVar(&down, "down", 0, "Number of migrations to roll back")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo establishment data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(application *app.App) error {
				return seed.Seed(cmd.Context(), application, year, logger.New("seed"))
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", currentYear(), "Year to seed incidents into")
	return cmd
}
