package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/services"
)

type SeedHandler struct {
	Seeder *services.SeedService
}

// POST /api/v1/seed?action=seed|clear
func (h *SeedHandler) Run(c *fiber.Ctx) error {
	switch c.Query("action") {
	case "seed":
		if err := h.Seeder.Seed(); err != nil {
			return respondError(c, "seed.run.fail", err)
		}
		applog.Audit(c, "seed.run", nil)
		return c.JSON(fiber.Map{"success": true, "message": "database seeded"})
	case "clear":
		if err := h.Seeder.Clear(); err != nil {
			return respondError(c, "seed.clear.fail", err)
		}
		applog.Audit(c, "seed.clear", nil)
		return c.JSON(fiber.Map{"success": true, "message": "database cleared"})
	default:
		return badRequest(c, "action", "must be seed or clear")
	}
}
