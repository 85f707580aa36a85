package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/services"
	"expyra/internal/validate"
)

type PredictionHandler struct {
	Predictions *services.PredictionService
}

// parseTimeRange turns "7d" / "30d" / "90d" into a day count.
func parseTimeRange(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 30, true
	}
	if !strings.HasSuffix(s, "d") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// GET /api/v1/predictions?productId=&limit=
func (h *PredictionHandler) List(c *fiber.Ctx) error {
	productID := ""
	if pid := c.Query("productId"); pid != "" {
		id, ok := validate.ID(pid)
		if !ok {
			return badRequest(c, "productId", "invalid product id")
		}
		productID = id
	}
	limit, ok := validate.PositiveInt(c.Query("limit"), 30)
	if !ok {
		return badRequest(c, "limit", "must be a positive integer")
	}

	out, err := h.Predictions.List(productID, limit)
	if err != nil {
		return respondError(c, "predictions.list.fail", err)
	}
	return c.JSON(fiber.Map{"predictions": out})
}

type generatePredictionRequest struct {
	ProductID string `json:"productId"`
	TimeRange string `json:"timeRange"`
}

// POST /api/v1/predictions — runs the (mock) forecaster and stores the rows.
func (h *PredictionHandler) Generate(c *fiber.Ctx) error {
	var req generatePredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return badRequest(c, "productId", "is required")
	}
	days, ok := parseTimeRange(req.TimeRange)
	if !ok {
		return badRequest(c, "timeRange", "must look like 7d, 30d or 90d")
	}

	out, err := h.Predictions.Generate(id, days)
	if err != nil {
		return respondError(c, "predictions.generate.fail", err)
	}
	applog.Info(c, "predictions.generate", map[string]any{"product_id": id, "days": days})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"predictions": out})
}
