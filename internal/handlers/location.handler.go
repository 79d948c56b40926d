package handlers

import (
	"oshalog/internal/app"
	locationController "oshalog/internal/controllers/location"
	"oshalog/internal/logger"
	. "oshalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LocationHandler struct {
	Handler
	controller *locationController.LocationController
}

func NewLocationHandler(app *app.App, router fiber.Router) *LocationHandler {
	return &LocationHandler{
		controller: app.LocationController,
		Handler: Handler{
			log:    logger.New("handlers").File("location_handler"),
			router: router,
		},
	}
}

func (h *LocationHandler) Register() {
	locations := h.router.Group("/locations")
	locations.Post("/", h.createLocation)
	locations.Get("/:id", h.getLocation)
	locations.Patch("/:id", h.updateLocation)
	locations.Delete("/:id", h.deleteLocation)
}

func (h *LocationHandler) createLocation(c *fiber.Ctx) error {
	var request CreateLocationRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse location request")
	}

	location, err := h.controller.Create(c.Context(), request)
	if err != nil {
		return h.fail(c, "createLocation", "failed to create location", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "location": location})
}

func (h *LocationHandler) getLocation(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "location ID is required")
	}

	location, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, "getLocation", "failed to get location", err)
	}

	return c.JSON(fiber.Map{"message": "success", "location": location})
}

func (h *LocationHandler) updateLocation(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "location ID is required")
	}

	var patch LocationPatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badRequest(c, "failed to parse location update")
	}

	location, err := h.controller.Update(c.Context(), id, patch)
	if err != nil {
		return h.fail(c, "updateLocation", "failed to update location", err)
	}

	return c.JSON(fiber.Map{"message": "success", "location": location})
}

func (h *LocationHandler) deleteLocation(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "location ID is required")
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.fail(c, "deleteLocation", "failed to delete location", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}
