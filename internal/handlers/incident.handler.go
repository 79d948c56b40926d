package handlers

import (
	"oshalog/internal/app"
	attachmentController "oshalog/internal/controllers/attachment"
	correctiveActionController "oshalog/internal/controllers/correctiveAction"
	incidentController "oshalog/internal/controllers/incident"
	oshaController "oshalog/internal/controllers/osha"
	"oshalog/internal/logger"
	. "oshalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type IncidentHandler struct {
	Handler
	controller  *incidentController.IncidentController
	attachments *attachmentController.AttachmentController
	actions     *correctiveActionController.CorrectiveActionController
	osha        *oshaController.OshaController
}

func NewIncidentHandler(app *app.App, router fiber.Router) *IncidentHandler {
	log := logger.New("handlers").File("incident_handler")
	return &IncidentHandler{
		controller:  app.IncidentController,
		attachments: app.AttachmentController,
		actions:     app.CorrectiveActionController,
		osha:        app.OshaController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *IncidentHandler) Register() {
	incidents := h.router.Group("/incidents")
	incidents.Get("/", h.listIncidents)
	incidents.Post("/", h.createIncident)
	incidents.Get("/:id", h.getIncident)
	incidents.Patch("/:id", h.updateIncident)
	incidents.Delete("/:id", h.deleteIncident)
	incidents.Get("/:id/osha301", h.getPerCaseReport)
	incidents.Get("/:id/attachments", h.listAttachments)
	incidents.Post("/:id/attachments", h.uploadAttachment)
	incidents.Get("/:id/corrective-actions", h.listCorrectiveActions)
	incidents.Post("/:id/corrective-actions", h.createCorrectiveAction)
}

func (h *IncidentHandler) listIncidents(c *fiber.Ctx) error {
	establishmentID, ok := queryInt(c, "establishmentId")
	if !ok || establishmentID == nil {
		return h.badRequest(c, "establishmentId is required")
	}
	locationID, ok := queryInt(c, "locationId")
	if !ok {
		return h.badRequest(c, "locationId must be a number")
	}

	filter := IncidentFilter{
		EstablishmentID: *establishmentID,
		LocationID:      locationID,
		DateFrom:        queryString(c, "dateFrom"),
		DateTo:          queryString(c, "dateTo"),
		Search:          queryString(c, "search"),
	}
	if raw := queryString(c, "status"); raw != nil {
		status, err := ParseIncidentStatus(*raw)
		if err != nil {
			return h.badRequest(c, err.Error())
		}
		filter.Status = &status
	}
	if raw := queryString(c, "severity"); raw != nil {
		severity, err := ParseOutcomeSeverity(*raw)
		if err != nil {
			return h.badRequest(c, err.Error())
		}
		filter.OutcomeSeverity = &severity
	}

	incidents, err := h.controller.List(c.Context(), filter)
	if err != nil {
		return h.fail(c, "listIncidents", "failed to list incidents", err)
	}

	return c.JSON(fiber.Map{"message": "success", "incidents": incidents})
}

func (h *IncidentHandler) createIncident(c *fiber.Ctx) error {
	log := h.log.Function("createIncident")

	var request CreateIncidentRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse incident request", err)
		return h.badRequest(c, "failed to parse incident request")
	}

	incident, err := h.controller.Create(c.Context(), request)
	if err != nil {
		return h.fail(c, "createIncident", "failed to create incident", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "incident": incident})
}

func (h *IncidentHandler) getIncident(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	incident, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, "getIncident", "failed to get incident", err)
	}

	return c.JSON(fiber.Map{"message": "success", "incident": incident})
}

func (h *IncidentHandler) updateIncident(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	var patch IncidentPatch
	if err := c.BodyParser(&patch); err != nil {
		return h.badRequest(c, "failed to parse incident update")
	}

	incident, err := h.controller.Update(c.Context(), id, patch)
	if err != nil {
		return h.fail(c, "updateIncident", "failed to update incident", err)
	}

	return c.JSON(fiber.Map{"message": "success", "incident": incident})
}

func (h *IncidentHandler) deleteIncident(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.fail(c, "deleteIncident", "failed to delete incident", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}

func (h *IncidentHandler) getPerCaseReport(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	report, err := h.osha.PerCaseReport(c.Context(), id)
	if err != nil {
		return h.fail(c, "getPerCaseReport", "failed to build OSHA 301 report", err)
	}

	return c.JSON(fiber.Map{"message": "success", "report": report})
}

func (h *IncidentHandler) listAttachments(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	attachments, err := h.attachments.List(c.Context(), id)
	if err != nil {
		return h.fail(c, "listAttachments", "failed to list attachments", err)
	}

	return c.JSON(fiber.Map{"message": "success", "attachments": attachments})
}

func (h *IncidentHandler) uploadAttachment(c *fiber.Ctx) error {
	log := h.log.Function("uploadAttachment")

	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	fileType, err := ParseAttachmentType(c.FormValue("type"))
	if err != nil {
		return h.badRequest(c, err.Error())
	}

	header, err := c.FormFile("file")
	if err != nil {
		return h.badRequest(c, "file is required")
	}

	file, err := header.Open()
	if err != nil {
		log.Er("failed to open uploaded file", err, "fileName", header.Filename)
		return h.badRequest(c, "failed to read uploaded file")
	}
	defer file.Close()

	attachment, err := h.attachments.Upload(
		c.Context(),
		id,
		header.Filename,
		fileType,
		header.Header.Get(fiber.HeaderContentType),
		file,
	)
	if err != nil {
		return h.fail(c, "uploadAttachment", "failed to upload attachment", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "attachment": attachment})
}

func (h *IncidentHandler) listCorrectiveActions(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	actions, err := h.actions.List(c.Context(), id)
	if err != nil {
		return h.fail(c, "listCorrectiveActions", "failed to list corrective actions", err)
	}

	return c.JSON(fiber.Map{"message": "success", "correctiveActions": actions})
}

func (h *IncidentHandler) createCorrectiveAction(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "incident ID is required")
	}

	var request CreateCorrectiveActionRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse corrective action request")
	}
	request.IncidentID = id

	action, err := h.actions.Create(c.Context(), request)
	if err != nil {
		return h.fail(c, "createCorrectiveAction", "failed to create corrective action", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success", "correctiveAction": action})
}
