package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"expyra/internal/domain"
	applog "expyra/internal/log"
	"expyra/internal/repos"
	"expyra/internal/services"
)

// PageHandler renders the server-side dashboard views.
type PageHandler struct {
	ProductRepo *repos.ProductRepo
	Batches     *repos.BatchRepo
	AlertRepo   *repos.AlertRepo
}

// batchView decorates a batch with its derived expiry bucket for templates.
type batchView struct {
	repos.BatchStock
	Status ExpiryBadge
}

type ExpiryBadge struct {
	Label string
	Days  int
}

// GET /
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	products, err := h.ProductRepo.Count()
	if err != nil {
		return h.renderError(c, "pages.dashboard.fail", err)
	}
	batches, err := h.Batches.Count()
	if err != nil {
		return h.renderError(c, "pages.dashboard.fail", err)
	}
	active, err := h.AlertRepo.CountByStatus(domain.StatusActive)
	if err != nil {
		return h.renderError(c, "pages.dashboard.fail", err)
	}
	recent, err := h.AlertRepo.Recent(10)
	if err != nil {
		return h.renderError(c, "pages.dashboard.fail", err)
	}

	return c.Render("dashboard", fiber.Map{
		"ProductCount": products,
		"BatchCount":   batches,
		"ActiveAlerts": active,
		"RecentAlerts": recent,
	})
}

// GET /alerts
func (h *PageHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.AlertRepo.Recent(50)
	if err != nil {
		return h.renderError(c, "pages.alerts.fail", err)
	}
	return c.Render("alerts", fiber.Map{"Alerts": alerts})
}

// GET /products
func (h *PageHandler) Products(c *fiber.Ctx) error {
	batches, err := h.Batches.ListAllWithProduct()
	if err != nil {
		return h.renderError(c, "pages.products.fail", err)
	}

	now := time.Now().UTC()
	views := make([]batchView, 0, len(batches))
	for _, b := range batches {
		v := batchView{BatchStock: b}
		if expiry, err := b.ExpiryTime(); err == nil {
			cls := services.Classify(expiry, now)
			v.Status = ExpiryBadge{Label: string(cls.Status), Days: cls.DaysUntilExpiry}
		}
		views = append(views, v)
	}

	rows, err := h.ProductRepo.List()
	if err != nil {
		return h.renderError(c, "pages.products.fail", err)
	}
	return c.Render("products", fiber.Map{"Products": rows, "Batches": views})
}

func (h *PageHandler) renderError(c *fiber.Ctx, action string, err error) error {
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	})
}
