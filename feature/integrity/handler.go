package integrity

import (
	"errors"

	"dat-workbench/core/descriptor"
	"dat-workbench/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/lookup", h.HandleLookupCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/outputs", h.HandleOutputsCheck)
	group.Get("/outputs/:descriptor", h.HandleTargetCheck)
}

// HandleIntegrityCheck runs every check and reports each one separately.
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = fiber.Map{"status": "ok", "missing": missing}
	}

	if lookup, err := h.service.CheckLookup(ctx); err != nil {
		report["lookup"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["lookup"] = lookup
	}

	if st, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = st
	}

	if plan, err := h.service.Reconcile(ctx); err != nil {
		report["outputs"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["outputs"] = plan.Summary
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the project folders.
// Query: fix=true creates what is missing.
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return fail(c, err)
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleLookupCheck checks the project lookup tables.
func (h *Handler) HandleLookupCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckLookup(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Lookup check failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(report)
}

// HandleStorageCheck checks the publishing target.
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Storage check failed", zap.Error(err))
		return fail(c, err)
	}
	return c.JSON(report)
}

// HandleOutputsCheck reconciles exports, DATs and published objects.
// Query: refresh=true ignores cached indices.
func (h *Handler) HandleOutputsCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if c.Query("refresh") == "true" {
		h.service.Invalidate()
	}

	plan, err := h.service.Reconcile(c.Context())
	if err != nil {
		l.Error("Output reconciliation failed", zap.Error(err))
		return fail(c, err)
	}

	l.Info("Output reconciliation completed",
		zap.Int("total", plan.Summary.Total),
		zap.Int("actions", len(plan.Actions)))
	return c.JSON(plan)
}

// HandleTargetCheck reports where one target is present.
func (h *Handler) HandleTargetCheck(c *fiber.Ctx) error {
	d, err := descriptor.Parse(c.Params("descriptor"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.ReconcileTarget(c.Context(), d)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, ErrNoProject) {
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
