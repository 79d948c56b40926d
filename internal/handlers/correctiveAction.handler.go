package handlers

import (
	"oshalog/internal/app"
	correctiveActionController "oshalog/internal/controllers/correctiveAction"
	"oshalog/internal/logger"
	. "oshalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CorrectiveActionHandler struct {
	Handler
	controller *correctiveActionController.CorrectiveActionController
}

func NewCorrectiveActionHandler(app *app.App, router fiber.Router) *CorrectiveActionHandler {
	return &CorrectiveActionHandler{
		controller: app.CorrectiveActionController,
		Handler: Handler{
			log:    logger.New("handlers").File("corrective_action_handler"),
			router: router,
		},
	}
}

func (h *CorrectiveActionHandler) Register() {
	actions := h.router.Group("/corrective-actions")
	actions.Get("/:id", h.getCorrectiveAction)
	actions.Patch("/:id", h.updateCorrectiveAction)
	actions.Delete("/:id", h.deleteCorrectiveAction)
}

func (h *CorrectiveActionHandler) getCorrectiveAction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "corrective action ID is required")
	}

	action, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, "getCorrectiveAction", "failed to get corrective action", err)
	}

	return c.JSON(fiber.Map{"message": "success", "correctiveAction": action})
}

func (h *CorrectiveActionHandler) updateCorrectiveAction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "corrective action ID is required")
	}

	var patch CorrectiveActionPatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badRequest(c, "failed to parse corrective action update")
	}

	action, err := h.controller.Update(c.Context(), id, patch)
	if err != nil {
		return h.fail(c, "updateCorrectiveAction", "failed to update corrective action", err)
	}

	return c.JSON(fiber.Map{"message": "success", "correctiveAction": action})
}

func (h *CorrectiveActionHandler) deleteCorrectiveAction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "corrective action ID is required")
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.fail(c, "deleteCorrectiveAction", "failed to delete corrective action", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}
