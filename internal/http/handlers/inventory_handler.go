package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/services"
	"expyra/internal/validate"
)

type InventoryHandler struct {
	Inventory *services.InventoryService
}

// GET /api/v1/inventory
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	rows, err := h.Inventory.List()
	if err != nil {
		return respondError(c, "inventory.list.fail", err)
	}
	return c.JSON(fiber.Map{"inventory": rows})
}

type placeBatchRequest struct {
	Quantity int    `json:"quantity"`
	Location string `json:"location"`
}

// PUT /api/v1/batches/:id/inventory
func (h *InventoryHandler) Place(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid batch id")
	}
	var req placeBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}

	inv, err := h.Inventory.Place(services.PlaceBatchInput{
		BatchID:  id,
		Quantity: req.Quantity,
		Location: req.Location,
	})
	if err != nil {
		return respondError(c, "inventory.place.fail", err)
	}
	applog.Audit(c, "inventory.place", map[string]any{"batch_id": id, "location": inv.Location})
	return c.JSON(inv)
}
