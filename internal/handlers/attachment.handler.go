package handlers

import (
	"fmt"
	"io"

	"oshalog/internal/app"
	attachmentController "oshalog/internal/controllers/attachment"
	"oshalog/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type AttachmentHandler struct {
	Handler
	controller *attachmentController.AttachmentController
}

func NewAttachmentHandler(app *app.App, router fiber.Router) *AttachmentHandler {
	return &AttachmentHandler{
		controller: app.AttachmentController,
		Handler: Handler{
			log:    logger.New("handlers").File("attachment_handler"),
			router: router,
		},
	}
}

func (h *AttachmentHandler) Register() {
	attachments := h.router.Group("/attachments")
	attachments.Get("/:id", h.getAttachment)
	attachments.Get("/:id/download", h.downloadAttachment)
	attachments.Delete("/:id", h.deleteAttachment)
}

func (h *AttachmentHandler) getAttachment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "attachment ID is required")
	}

	attachment, err := h.controller.Get(c.Context(), id)
	if err != nil {
		return h.fail(c, "getAttachment", "failed to get attachment", err)
	}

	return c.JSON(fiber.Map{"message": "success", "attachment": attachment})
}

func (h *AttachmentHandler) downloadAttachment(c *fiber.Ctx) error {
	log := h.log.Function("downloadAttachment")

	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "attachment ID is required")
	}

	attachment, body, err := h.controller.Open(c.Context(), id)
	if err != nil {
		return h.fail(c, "downloadAttachment", "failed to open attachment", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		log.Er("failed to read attachment", err, "attachmentID", id)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"message": "failed to read attachment", "error": "internal error"})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	c.Type("bin")
	return c.Send(data)
}

func (h *AttachmentHandler) deleteAttachment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "attachment ID is required")
	}

	if err := h.controller.Delete(c.Context(), id); err != nil {
		return h.fail(c, "deleteAttachment", "failed to delete attachment", err)
	}

	return c.JSON(fiber.Map{"message": "success"})
}
