package handlers

import (
	"oshalog/internal/app"
	rcaController "oshalog/internal/controllers/rca"
	"oshalog/internal/logger"
	. "oshalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RcaHandler struct {
	Handler
	controller *rcaController.RcaController
}

func NewRcaHandler(app *app.App, router fiber.Router) *RcaHandler {
	return &RcaHandler{
		controller: app.RcaController,
		Handler: Handler{
			log:    logger.New("handlers").File("rca_handler"),
			router: router,
		},
	}
}

func (h *RcaHandler) Register() {
	h.router.Get("/incidents/:id/rca-sessions", h.listSessions)
	h.router.Post("/incidents/:id/rca-sessions", h.createSession)

	sessions := h.router.Group("/rca-sessions")
	sessions.Get("/:id", h.getAnalysis)
	sessions.Delete("/:id", h.deleteSession)
	sessions.Post("/:id/complete", h.completeSession)
	sessions.Get("/:id/steps", h.listSteps)
	sessions.Post("/:id/steps", h.addStep)
	sessions.Get("/:id/categories", h.listCategories)
	sessions.Post("/:id/categories", h.addCategory)

	h.router.Patch("/five-whys-steps/:id", h.updateStep)
	h.router.Post("/fishbone-categories/:id/causes", h.addCause)
	h.router.Patch("/fishbone-causes/:id", h.updateCause)
	h.router.Delete("/fishbone-causes/:id", h.deleteCause)
}

func (h *RcaHandler) listSessions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	sessions, err := h.controller.ListSessions(c.Context(), id)
	if err != nil {
		return h.fail(c, "listSessions", "failed to list RCA sessions", err)
	}

	return c.JSON(fiber.Map{"message": "success", "rcaSessions": sessions})
}

func (h *RcaHandler) createSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	var request CreateRcaSessionRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse RCA session request")
	}
	request.IncidentID = id

	session, err := h.controller.CreateSession(c.Context(), request)
	if err != nil {
		return h.fail(c, "createSession", "failed to create RCA session", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "rcaSession": session})
}

func (h *RcaHandler) getAnalysis(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	analysis, err := h.controller.GetAnalysis(c.Context(), id)
	if err != nil {
		return h.fail(c, "getAnalysis", "failed to get RCA session", err)
	}

	return c.JSON(fiber.Map{"message": "success", "rcaSession": analysis})
}

func (h *RcaHandler) completeSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	var request CompleteRcaSessionRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse RCA completion")
	}

	session, err := h.controller.CompleteSession(c.Context(), id, request.RootCauseSummary)
	if err != nil {
		return h.fail(c, "completeSession", "failed to complete RCA session", err)
	}

	return c.JSON(fiber.Map{"message": "success", "rcaSession": session})
}

func (h *RcaHandler) deleteSession(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	if err := h.controller.DeleteSession(c.Context(), id); err != nil {
		return h.fail(c, "deleteSession", "failed to delete RCA session", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *RcaHandler) listSteps(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	steps, err := h.controller.ListSteps(c.Context(), id)
	if err != nil {
		return h.fail(c, "listSteps", "failed to list five whys steps", err)
	}

	return c.JSON(fiber.Map{"message": "success", "steps": steps})
}

func (h *RcaHandler) addStep(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	var request AddFiveWhysStepRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse five whys step")
	}

	step, err := h.controller.AddStep(c.Context(), id, request)
	if err != nil {
		return h.fail(c, "addStep", "failed to add five whys step", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "step": step})
}

func (h *RcaHandler) updateStep(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "step ID is required")
	}

	var patch FiveWhysStepPatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badRequest(c, "failed to parse five whys step update")
	}

	step, err := h.controller.UpdateStep(c.Context(), id, patch)
	if err != nil {
		return h.fail(c, "updateStep", "failed to update five whys step", err)
	}

	return c.JSON(fiber.Map{"message": "success", "step": step})
}

func (h *RcaHandler) listCategories(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	categories, err := h.controller.ListCategories(c.Context(), id)
	if err != nil {
		return h.fail(c, "listCategories", "failed to list fishbone categories", err)
	}

	return c.JSON(fiber.Map{"message": "success", "categories": categories})
}

func (h *RcaHandler) addCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "RCA session ID is required")
	}

	var request AddFishboneCategoryRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse fishbone category")
	}

	category, err := h.controller.AddCategory(c.Context(), id, request)
	if err != nil {
		return h.fail(c, "addCategory", "failed to add fishbone category", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "category": category})
}

func (h *RcaHandler) addCause(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "category ID is required")
	}

	var request AddFishboneCauseRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse fishbone cause")
	}

	cause, err := h.controller.AddCause(c.Context(), id, request)
	if err != nil {
		return h.fail(c, "addCause", "failed to add fishbone cause", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "cause": cause})
}

func (h *RcaHandler) updateCause(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "cause ID is required")
	}

	var patch FishboneCausePatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badRequest(c, "failed to parse fishbone cause update")
	}

	cause, err := h.controller.UpdateCause(c.Context(), id, patch)
	if err != nil {
		return h.fail(c, "updateCause", "failed to update fishbone cause", err)
	}

	return c.JSON(fiber.Map{"message": "success", "cause": cause})
}

func (h *RcaHandler) deleteCause(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "cause ID is required")
	}

	if err := h.controller.DeleteCause(c.Context(), id); err != nil {
		return h.fail(c, "deleteCause", "failed to delete fishbone cause", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}
