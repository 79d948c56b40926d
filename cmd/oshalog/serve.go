package main

import (
	"context"
	"fmt"

	"oshalog/internal/app"
	attachmentController "oshalog/internal/controllers/attachment"
	"oshalog/internal/handlers"
	"oshalog/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(application *app.App) error {
				return serve(cmd.Context(), application, port)
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default: server_port from config)")
	return cmd
}

func serve(ctx context.Context, application *app.App, port int) error {
	log := logger.New("main").Function("serve")

	if port == 0 {
		port = application.Config.ServerPort
	}

	server := fiber.New(fiber.Config{
		AppName:               "oshalog",
		DisableStartupMessage: true,
		BodyLimit:             attachmentController.MaxUploadBytes + 1<<20,
	})
	if err := handlers.Router(server, application); err != nil {
		return log.Err("failed to register routes", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server")
		if err := server.Shutdown(); err != nil {
			log.Er("failed to shut down server", err)
		}
	}()

	log.Info("Starting server", "port", port, "environment", application.Config.Environment)
	if err := server.Listen(fmt.Sprintf(":%d", port)); err != nil {
		return log.Err("server stopped", err)
	}
	return nil
}
