package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/services"
	"expyra/internal/validate"
)

type BatchHandler struct {
	Products *services.ProductService
}

// GET /api/v1/products/:id/batches
func (h *BatchHandler) ListByProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	batches, err := h.Products.ListBatches(id)
	if err != nil {
		return respondError(c, "batches.list.fail", err)
	}
	return c.JSON(fiber.Map{"batches": batches})
}

// POST /api/v1/products/:id/batches
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}
	in, err := parseBatchRequest(id, req)
	if err != nil {
		return respondError(c, "", err)
	}

	b, err := h.Products.CreateBatch(in)
	if err != nil {
		return respondError(c, "batches.create.fail", err)
	}
	applog.Audit(c, "batches.create", map[string]any{"batch_id": b.ID, "product_id": id})
	return c.Status(fiber.StatusCreated).JSON(b)
}

// DELETE /api/v1/batches/:id
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid batch id")
	}
	if err := h.Products.DeleteBatch(id); err != nil {
		return respondError(c, "batches.delete.fail", err)
	}
	applog.Audit(c, "batches.delete", map[string]any{"batch_id": id})
	return c.JSON(fiber.Map{"message": "batch deleted"})
}
