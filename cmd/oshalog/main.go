package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"oshalog/internal/app"
	"oshalog/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "oshalog",
		Short:        "OSHA 300/300A/301 incident recordkeeping",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newPreviewCmd(),
		newImportCmd(),
		newExportCmd(),
		newSampleCmd(),
	)

	return cmd
}

// withApp builds the app from the environment, runs fn and closes the app.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	application, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	return fn(application)
}
