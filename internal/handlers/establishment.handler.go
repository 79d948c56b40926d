package handlers

import (
	"oshalog/internal/app"
	establishmentController "oshalog/internal/controllers/establishment"
	locationController "oshalog/internal/controllers/location"
	"oshalog/internal/logger"
	. "oshalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EstablishmentHandler struct {
	Handler
	controller *establishmentController.EstablishmentController
	locations  *locationController.LocationController
}

func NewEstablishmentHandler(app *app.App, router fiber.Router) *EstablishmentHandler {
	log := logger.New("handlers").File("establishment_handler")
	return &EstablishmentHandler{
		controller: app.EstablishmentController,
		locations:  app.LocationController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *EstablishmentHandler) Register() {
	establishments := h.router.Group("/establishments")
	establishments.Get("/", h.listEstablishments)
	establishments.Post("/", h.createEstablishment)
	establishments.Get("/:id", h.getEstablishment)
	establishments.Patch("/:id", h.updateEstablishment)
	establishments.Delete("/:id", h.deleteEstablishment)
	establishments.Get("/:id/locations", h.listLocations)
}

func (h *EstablishmentHandler) listEstablishments(c *fiber.Ctx) error {
	establishments, err := h.controller.List(c.Context())
	if err != nil {
		return h.fail(c, "listEstablishments", "failed to list establishments", err)
	}

	return c.JSON(fiber.Map{"message": "success", "establishments": establishments})
}

func (h *EstablishmentHandler) createEstablishment(c *fiber.Ctx) error {
	log := h.log.Function("createEstablishment")

	var request CreateEstablishmentRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse establishment request", err)
		return h.badRequest(c, "failed to parse establishment request")
	}

	establishment, err := h.controller.Create(c.Context(), request)
	if err != nil {
		return h.fail(c, "createEstablishment", "failed to create establishment", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "establishment": establishment})
}

func (h *EstablishmentHandler) getEstablishment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "establishment ID is required")
	}

	establishment, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, "getEstablishment", "failed to get establishment", err)
	}

	return c.JSON(fiber.Map{"message": "success", "establishment": establishment})
}

func (h *EstablishmentHandler) updateEstablishment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "establishment ID is required")
	}

	var patch EstablishmentPatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badRequest(c, "failed to parse establishment update")
	}

	establishment, err := h.controller.Update(c.Context(), id, patch)
	if err != nil {
		return h.fail(c, "updateEstablishment", "failed to update establishment", err)
	}

	return c.JSON(fiber.Map{"message": "success", "establishment": establishment})
}

func (h *EstablishmentHandler) deleteEstablishment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "establishment ID is required")
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.fail(c, "deleteEstablishment", "failed to delete establishment", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *EstablishmentHandler) listLocations(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "establishment ID is required")
	}

	locations, err := h.locations.List(c.Context(), id)
	if err != nil {
		return h.fail(c, "listLocations", "failed to list locations", err)
	}

	return c.JSON(fiber.Map{"message": "success", "locations": locations})
}
