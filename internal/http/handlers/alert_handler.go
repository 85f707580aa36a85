package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "expyra/internal/log"
	"expyra/internal/services"
	"expyra/internal/validate"
)

type AlertHandler struct {
	Alerts *services.AlertService
	Expiry *services.ExpiryService
}

// GET /api/v1/alerts?type=&status=&page=&limit=&sortBy=&sortOrder=
func (h *AlertHandler) List(c *fiber.Ctx) error {
	page, ok := validate.PositiveInt(c.Query("page"), 1)
	if !ok {
		return badRequest(c, "page", "must be a positive integer")
	}
	limit, ok := validate.PositiveInt(c.Query("limit"), 10)
	if !ok {
		return badRequest(c, "limit", "must be a positive integer")
	}

	f := services.AlertFilter{}
	if t := c.Query("type"); t != "" {
		typ, ok := validate.AlertType(t)
		if !ok {
			return badRequest(c, "type", "unknown alert type")
		}
		f.Type = string(typ)
	}
	if st := c.Query("status"); st != "" {
		status, ok := validate.AlertStatus(st)
		if !ok {
			return badRequest(c, "status", "must be ACTIVE, RESOLVED or DISMISSED")
		}
		f.Status = string(status)
	}
	var okSort bool
	if f.SortCol, okSort = validate.SortField(c.Query("sortBy")); !okSort {
		return badRequest(c, "sortBy", "unsupported sort field")
	}
	if f.SortDir, okSort = validate.SortOrder(c.Query("sortOrder")); !okSort {
		return badRequest(c, "sortOrder", "must be asc or desc")
	}

	pageOut, err := h.Alerts.List(f, page, limit)
	if err != nil {
		return respondError(c, "alerts.list.fail", err)
	}
	return c.JSON(fiber.Map{
		"alerts": pageOut.Alerts,
		"pagination": fiber.Map{
			"page":  pageOut.Page,
			"limit": pageOut.Limit,
			"total": pageOut.Total,
			"pages": pageOut.Pages,
		},
	})
}

type createAlertRequest struct {
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	ProductID *string `json:"productId"`
	BatchID   *string `json:"batchId"`
}

// POST /api/v1/alerts
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var req createAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}
	typ, ok := validate.AlertType(req.Type)
	if !ok {
		return badRequest(c, "type", "must be one of NEAR_EXPIRY, DONATION_READY, EXPIRED, LOW_STOCK")
	}
	title, ok := validate.Title(req.Title, 200)
	if !ok {
		return badRequest(c, "title", "is required (max 200 chars)")
	}
	message, ok := validate.Title(req.Message, 1000)
	if !ok {
		return badRequest(c, "message", "is required (max 1000 chars)")
	}

	a, err := h.Alerts.Create(services.CreateAlertInput{
		Type:      typ,
		Title:     title,
		Message:   message,
		ProductID: req.ProductID,
		BatchID:   req.BatchID,
	})
	if err != nil {
		return respondError(c, "alerts.create.fail", err)
	}
	applog.Audit(c, "alerts.create", map[string]any{"alert_id": a.ID, "type": a.Type})
	return c.Status(fiber.StatusCreated).JSON(a)
}

// GET /api/v1/alerts/:id
func (h *AlertHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid alert id")
	}
	a, err := h.Alerts.Get(id)
	if err != nil {
		return respondError(c, "alerts.get.fail", err)
	}
	return c.JSON(a)
}

type updateAlertRequest struct {
	Status string `json:"status"`
}

// PUT /api/v1/alerts/:id
func (h *AlertHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid alert id")
	}
	var req updateAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "", "malformed JSON body")
	}
	status, ok := validate.AlertStatus(req.Status)
	if !ok {
		return badRequest(c, "status", "must be ACTIVE, RESOLVED or DISMISSED")
	}

	a, err := h.Alerts.Transition(id, status)
	if err != nil {
		return respondError(c, "alerts.transition.fail", err)
	}
	applog.Audit(c, "alerts.transition", map[string]any{"alert_id": id, "status": status})
	return c.JSON(a)
}

// DELETE /api/v1/alerts/:id
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid alert id")
	}
	if err := h.Alerts.Delete(id); err != nil {
		return respondError(c, "alerts.delete.fail", err)
	}
	applog.Audit(c, "alerts.delete", map[string]any{"alert_id": id})
	return c.JSON(fiber.Map{"message": "alert deleted"})
}

// POST /api/v1/alerts/check — synchronous expiry sweep over all batches.
func (h *AlertHandler) RunCheck(c *fiber.Ctx) error {
	res, err := h.Expiry.RunCheck()
	if err != nil {
		return respondError(c, "alerts.check.fail", err)
	}
	applog.Info(c, "alerts.check", map[string]any{"checked": res.Checked, "new_alerts": res.NewAlerts})
	return c.JSON(res)
}
