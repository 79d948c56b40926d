package handlers

import (
	"bytes"
	"fmt"

	"oshalog/internal/app"
	dashboardController "oshalog/internal/controllers/dashboard"
	oshaController "oshalog/internal/controllers/osha"
	"oshalog/internal/logger"
	. "oshalog/internal/models"
	"oshalog/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	Handler
	osha      *oshaController.OshaController
	dashboard *dashboardController.DashboardController
}

func NewReportHandler(app *app.App, router fiber.Router) *ReportHandler {
	log := logger.New("handlers").File("report_handler")
	return &ReportHandler{
		osha:      app.OshaController,
		dashboard: app.DashboardController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *ReportHandler) Register() {
	establishments := h.router.Group("/establishments/:id")
	establishments.Get("/osha300", h.getAnnualLog)
	establishments.Get("/osha300a", h.getAnnualSummary)
	establishments.Get("/stats", h.getAnnualStats)
	establishments.Put("/stats", h.upsertAnnualStats)
	establishments.Get("/export", h.exportAnnualLog)
	establishments.Get("/dashboard", h.getDashboard)
}

// establishmentYear reads the establishment path parameter and the
// required year query parameter. A non-empty problem describes the bad input.
func establishmentYear(c *fiber.Ctx) (id, year int, problem string) {
	id, ok := paramID(c, "id")
	if !ok {
		return 0, 0, "establishment ID is required"
	}
	y, ok := queryInt(c, "year")
	if !ok || y == nil {
		return 0, 0, "year is required"
	}
	return id, *y, ""
}

func (h *ReportHandler) getAnnualLog(c *fiber.Ctx) error {
	id, year, problem := establishmentYear(c)
	if problem != "" {
		return h.badRequest(c, problem)
	}

	rows, err := h.osha.AnnualLog(c.Context(), id, year)
	if err != nil {
		return h.fail(c, "getAnnualLog", "failed to build OSHA 300 log", err)
	}

	return c.JSON(fiber.Map{"message": "success", "rows": rows})
}

func (h *ReportHandler) getAnnualSummary(c *fiber.Ctx) error {
	id, year, problem := establishmentYear(c)
	if problem != "" {
		return h.badRequest(c, problem)
	}

	summary, err := h.osha.AnnualSummary(c.Context(), id, year)
	if err != nil {
		return h.fail(c, "getAnnualSummary", "failed to build OSHA 300A summary", err)
	}

	return c.JSON(fiber.Map{"message": "success", "summary": summary})
}

func (h *ReportHandler) getAnnualStats(c *fiber.Ctx) error {
	id, year, problem := establishmentYear(c)
	if problem != "" {
		return h.badRequest(c, problem)
	}

	stats, err := h.osha.GetAnnualStats(c.Context(), id, year)
	if err != nil {
		return h.fail(c, "getAnnualStats", "failed to get annual stats", err)
	}

	return c.JSON(fiber.Map{"message": "success", "stats": stats})
}

func (h *ReportHandler) upsertAnnualStats(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.badRequest(c, "establishment ID is required")
	}

	var request UpsertAnnualStatsRequest
	if err := c.BodyParser(&request); err != nil {
		return h.badRequest(c, "failed to parse annual stats request")
	}
	request.EstablishmentID = id

	stats, err := h.osha.UpsertAnnualStats(c.Context(), request)
	if err != nil {
		return h.fail(c, "upsertAnnualStats", "failed to save annual stats", err)
	}

	return c.JSON(fiber.Map{"message": "success", "stats": stats})
}

func (h *ReportHandler) exportAnnualLog(c *fiber.Ctx) error {
	id, year, problem := establishmentYear(c)
	if problem != "" {
		return h.badRequest(c, problem)
	}

	format := oshaController.ExportFormat(c.Query("format", string(oshaController.FormatCSV)))

	var (
		buf bytes.Buffer
		err error
	)
	switch format {
	case oshaController.FormatCSV:
		err = h.osha.ExportAnnualLogCSV(c.Context(), &buf, id, year)
		c.Set(fiber.HeaderContentType, "text/csv")
	case oshaController.FormatXLSX:
		err = h.osha.ExportAnnualLogXLSX(c.Context(), &buf, id, year)
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		return h.badRequest(c, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return h.fail(c, "exportAnnualLog", "failed to export OSHA 300 log", err)
	}

	base, err := h.osha.ExportFileBase(c.Context(), id, year)
	if err != nil {
		return h.fail(c, "exportAnnualLog", "failed to name export", err)
	}

	fileName := utils.SanitizeFilename(base) + "." + string(format)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Send(buf.Bytes())
}

func (h *ReportHandler) getDashboard(c *fiber.Ctx) error {
	id, year, problem := establishmentYear(c)
	if problem != "" {
		return h.badRequest(c, problem)
	}

	dashboard, err := h.dashboard.Get(c.Context(), id, year)
	if err != nil {
		return h.fail(c, "getDashboard", "failed to build dashboard", err)
	}

	return c.JSON(fiber.Map{"message": "success", "dashboard": dashboard})
}
