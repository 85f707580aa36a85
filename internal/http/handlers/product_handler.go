package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/repos"
	"expyra/internal/services"
	"expyra/internal/validate"
)

type ProductHandler struct {
	Products    *services.ProductService
	Predictions *repos.PredictionRepo
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	rows, err := h.Products.List()
	if err != nil {
		return respondError(c, "products.list.fail", err)
	}
	return c.JSON(fiber.Map{"products": rows})
}

type batchRequest struct {
	BatchCode         string `json:"batchCode"`
	ManufacturingDate string `json:"manufacturingDate"`
	ExpiryDate        string `json:"expiryDate"`
	InitialQuantity   int    `json:"initialQuantity"`
}

type createProductRequest struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Category    string        `json:"category"`
	SKU         *string       `json:"sku"`
	Barcode     *string       `json:"barcode"`
	Image       *string       `json:"image"`
	SupplierID  *string       `json:"supplierId"`
	Batch       *batchRequest `json:"batch"`
}

func parseBatchRequest(productID string, req batchRequest) (services.CreateBatchInput, error) {
	code, ok := validate.BatchCode(req.BatchCode)
	if !ok {
		return services.CreateBatchInput{}, validationErr("batchCode", "is required (alphanumeric, max 40 chars)")
	}
	mfg, ok := validate.Date(req.ManufacturingDate)
	if !ok {
		return services.CreateBatchInput{}, validationErr("manufacturingDate", "must be an RFC3339 timestamp or yyyy-mm-dd")
	}
	exp, ok := validate.Date(req.ExpiryDate)
	if !ok {
		return services.CreateBatchInput{}, validationErr("expiryDate", "must be an RFC3339 timestamp or yyyy-mm-dd")
	}
	return services.CreateBatchInput{
		ProductID:         productID,
		BatchCode:         code,
		ManufacturingDate: mfg,
		ExpiryDate:        exp,
		InitialQuantity:   req.InitialQuantity,
	}, nil
}

// POST /api/v1/products — optionally creates the first batch along with the
// product.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}

	in := services.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Image:       req.Image,
		SupplierID:  req.SupplierID,
	}
	if req.Batch != nil {
		batch, err := parseBatchRequest("", *req.Batch)
		if err != nil {
			return respondError(c, "", err)
		}
		in.InitialBatch = &batch
	}

	p, err := h.Products.Create(in)
	if err != nil {
		return respondError(c, "products.create.fail", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GET /api/v1/products/:id — product with supplier, batches and recent
// predictions.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	d, err := h.Products.Detail(id, h.Predictions)
	if err != nil {
		return respondError(c, "products.get.fail", err)
	}
	return c.JSON(d)
}

type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	SKU         *string `json:"sku"`
	Barcode     *string `json:"barcode"`
	Image       *string `json:"image"`
	SupplierID  *string `json:"supplierId"`
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var req updateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}

	p, err := h.Products.Update(id, services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Image:       req.Image,
		SupplierID:  req.SupplierID,
	})
	if err != nil {
		return respondError(c, "products.update.fail", err)
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id — cascades to batches, inventory, alerts and
// predictions.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	if err := h.Products.Delete(id); err != nil {
		return respondError(c, "products.delete.fail", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// GET /api/v1/suppliers
func (h *ProductHandler) Suppliers(c *fiber.Ctx) error {
	out, err := h.Products.ListSuppliers()
	if err != nil {
		return respondError(c, "suppliers.list.fail", err)
	}
	return c.JSON(fiber.Map{"suppliers": out})
}
