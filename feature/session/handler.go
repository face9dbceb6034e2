package session

import (
	"errors"
	"strconv"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"
	"dat-workbench/core/logger"
	"dat-workbench/feature/logs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes a Session over HTTP.
type Handler struct {
	session *Session
}

// NewHandler creates a new HTTP handler.
func NewHandler(s *Session) *Handler {
	return &Handler{session: s}
}

type folderRequest struct {
	Path string `json:"path"`
}

// RegisterRoutes registers the session routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/status", h.HandleStatus)
	app.Get("/logs", h.HandleLogs)
	app.Get("/working-files", h.HandleWorkingFiles)
	app.Get("/processing", h.HandleProcessing)

	targets := app.Group("/targets")
	targets.Get("/fixed/:group", h.HandleFixedTargets)
	targets.Get("/zones/:category", h.HandleZoneTargets)

	folders := app.Group("/folders")
	folders.Put("/data", h.HandleSetDataPath)
	folders.Put("/project", h.HandleSetProjectPath)

	app.Post("/export", h.HandleExportAll)
	app.Post("/generate", h.HandleGenerateAll)
	app.Post("/export/:descriptor", h.HandleExport)
	app.Post("/generate/:descriptor", h.HandleGenerate)
}

// HandleStatus returns the session summary.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.session.Status())
}

// HandleLogs returns log entries, newest first.
// Query: errors=true keeps failures only, limit=N caps the page.
func (h *Handler) HandleLogs(c *fiber.Ctx) error {
	q := logs.Query{
		ErrorsOnly:  c.Query("errors") == "true",
		NewestFirst: true,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		q.Limit = limit
	}
	return c.JSON(h.session.Logs().Page(q))
}

// HandleWorkingFiles returns the keys of every existing export file.
func (h *Handler) HandleWorkingFiles(c *fiber.Ctx) error {
	return c.JSON(h.session.WorkingFiles().Keys())
}

// HandleProcessing returns the in-flight operations.
func (h *Handler) HandleProcessing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"count":     h.session.Processing().Count(),
		"in_flight": h.session.Processing().InFlight(),
	})
}

// HandleFixedTargets lists the targets of a fixed group.
func (h *Handler) HandleFixedTargets(c *fiber.Ctx) error {
	group := backend.FixedGroup(c.Params("group"))
	targets, err := h.session.Backend().EnumerateFixedCategoryTargets(c.Context(), group)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(targets)
}

// HandleZoneTargets lists the zones that have a target for a category.
func (h *Handler) HandleZoneTargets(c *fiber.Ctx) error {
	category := descriptor.Category(c.Params("category"))
	zones, err := h.session.Backend().EnumerateZoneScopedTargets(c.Context(), category)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(zones)
}

// HandleSetDataPath selects the game data folder.
func (h *Handler) HandleSetDataPath(c *fiber.Ctx) error {
	var req folderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	h.session.SetDataPath(c.Context(), req.Path)
	return c.JSON(h.session.Status())
}

// HandleSetProjectPath selects the project folder.
func (h *Handler) HandleSetProjectPath(c *fiber.Ctx) error {
	var req folderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	h.session.SetProjectPath(c.Context(), req.Path)
	return c.JSON(h.session.Status())
}

// HandleExport requests an export of one descriptor, e.g. /export/EntityNames:7.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	d, err := descriptor.Parse(c.Params("descriptor"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.session.Export(c.Context(), d); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.session.logger, c).Info("Export requested", zap.String("descriptor", d.Label()))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// HandleGenerate requests a DAT generation for one descriptor.
func (h *Handler) HandleGenerate(c *fiber.Ctx) error {
	d, err := descriptor.Parse(c.Params("descriptor"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.session.Generate(c.Context(), d); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.session.logger, c).Info("Generation requested", zap.String("descriptor", d.Label()))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// HandleExportAll requests an export of every fixed-category target.
func (h *Handler) HandleExportAll(c *fiber.Ctx) error {
	if err := h.session.ExportAll(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

// HandleGenerateAll requests a generation for every existing export file.
func (h *Handler) HandleGenerateAll(c *fiber.Ctx) error {
	if err := h.session.GenerateAll(c.Context()); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "accepted"})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotReady), errors.Is(err, ErrInFlight),
		errors.Is(err, backend.ErrNoDataPath), errors.Is(err, backend.ErrNoProjectPath):
		status = fiber.StatusConflict
	case errors.Is(err, backend.ErrUnknownCategory), errors.Is(err, backend.ErrInvalidPath):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		logger.WithRayID(h.session.logger, c).Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
