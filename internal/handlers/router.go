package handlers

import (
	"context"
	"errors"
	"strconv"

	"oshalog/internal/app"
	"oshalog/internal/apperrors"
	"oshalog/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	log    logger.Logger
	router fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}),
	))

	api := router.Group("/api")
	HealthHandler(api, app)
	NewEstablishmentHandler(app, api).Register()
	NewLocationHandler(app, api).Register()
	NewIncidentHandler(app, api).Register()
	NewAttachmentHandler(app, api).Register()
	NewCorrectiveActionHandler(app, api).Register()
	NewRcaHandler(app, api).Register()
	NewReportHandler(app, api).Register()
	NewImportHandler(app, api).Register()

	return nil
}

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		if err := app.TransactionService.Read(c.Context(), "health", func(ctx context.Context) error {
			return app.Database.SQLWithContext(ctx).Exec("SELECT 1").Error
		}); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"message": "error", "error": "database unavailable"})
		}
		return c.JSON(fiber.Map{"message": "success", "environment": app.Config.Environment})
	})
}

// statusFor maps engine error kinds to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperrors.ErrParse):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// fail logs server side failures and writes the error body. Client errors
// carry the engine's message; storage failures only a generic one.
func (h *Handler) fail(c *fiber.Ctx, function, message string, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		h.log.Function(function).Er(message, err)
		return c.Status(status).JSON(fiber.Map{"message": message, "error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"message": message, "error": apperrors.Message(err)})
}

func (h *Handler) badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

func paramID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt returns nil when the parameter is absent and false when it is
// present but not a number.
func queryInt(c *fiber.Ctx, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &value, true
}

func queryString(c *fiber.Ctx, name string) *string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	return &raw
}
