package handlers

import (
	"encoding/json"
	"strconv"

	"oshalog/internal/app"
	importerController "oshalog/internal/controllers/importer"
	"oshalog/internal/logger"
	. "oshalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ImportHandler struct {
	Handler
	controller *importerController.ImporterController
}

func NewImportHandler(app *app.App, router fiber.Router) *ImportHandler {
	return &ImportHandler{
		controller: app.ImporterController,
		Handler: Handler{
			log:    logger.New("handlers").File("import_handler"),
			router: router,
		},
	}
}

func (h *ImportHandler) Register() {
	imports := h.router.Group("/imports")
	imports.Post("/preview", h.previewImport)
	imports.Post("/", h.importIncidents)
}

func (h *ImportHandler) previewImport(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return h.badRequest(c, "file is required")
	}

	file, err := header.Open()
	if err != nil {
		return h.badRequest(c, "failed to read uploaded file")
	}
	defer file.Close()

	preview, err := h.controller.Preview(file)
	if err != nil {
		return h.fail(c, "previewImport", "failed to preview CSV", err)
	}

	return c.JSON(fiber.Map{"message": "success", "preview": preview})
}

// importIncidents expects the CSV as "file", the target as "establishmentId"
// and optional "locationId", and the column mapping as a JSON "mapping" field.
func (h *ImportHandler) importIncidents(c *fiber.Ctx) error {
	log := h.log.Function("importIncidents")

	establishmentID, err := strconv.Atoi(c.FormValue("establishmentId"))
	if err != nil {
		return h.badRequest(c, "establishmentId is required")
	}

	request := ImportRequest{EstablishmentID: establishmentID}
	if raw := c.FormValue("locationId"); raw != "" {
		locationID, err := strconv.Atoi(raw)
		if err != nil {
			return h.badRequest(c, "locationId must be a number")
		}
		request.LocationID = &locationID
	}
	if err := json.Unmarshal([]byte(c.FormValue("mapping")), &request.Mapping); err != nil {
		log.Er("failed to parse column mapping", err)
		return h.badRequest(c, "mapping must be a JSON object")
	}

	header, err := c.FormFile("file")
	if err != nil {
		return h.badRequest(c, "file is required")
	}

	file, err := header.Open()
	if err != nil {
		return h.badRequest(c, "failed to read uploaded file")
	}
	defer file.Close()

	result, err := h.controller.Import(c.Context(), file, request)
	if err != nil {
		return h.fail(c, "importIncidents", "failed to import incidents", err)
	}

	return c.JSON(fiber.Map{"message": "success", "result": result})
}
