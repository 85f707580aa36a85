package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/services"
)

type VisionHandler struct {
	Vision services.VisionSource
}

// POST /api/v1/scan — runs the label scanner on an uploaded image. The mock
// source ignores the payload and answers from its corpus.
func (h *VisionHandler) Scan(c *fiber.Ctx) error {
	scan := h.Vision.ScanLabel()
	applog.Info(c, "vision.scan", map[string]any{"product": scan.ProductName, "confidence": scan.Confidence})
	return c.JSON(scan)
}
