package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"expyra/internal/config"
	"expyra/internal/http/handlers"
	"expyra/internal/relay"
	"expyra/internal/repos"
)

// Minimal app setup mirroring the route table in cmd/expyra.
func newTestApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", LowStockThreshold: 5, DonationMinQty: 20}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, relay.NewHub())

	api := app.Group("/api/v1")
	api.Get("/alerts", deps.AlertHandler.List)
	api.Post("/alerts", deps.AlertHandler.Create)
	api.Post("/alerts/check", deps.AlertHandler.RunCheck)
	api.Get("/alerts/:id", deps.AlertHandler.Get)
	api.Put("/alerts/:id", deps.AlertHandler.UpdateStatus)
	api.Delete("/alerts/:id", deps.AlertHandler.Delete)
	api.Get("/products", deps.ProductHandler.List)
	api.Post("/products", deps.ProductHandler.Create)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Put("/products/:id", deps.ProductHandler.Update)
	api.Delete("/products/:id", deps.ProductHandler.Delete)
	api.Post("/products/:id/batches", deps.BatchHandler.Create)
	api.Post("/scan", deps.VisionHandler.Scan)
	api.Post("/seed", deps.SeedHandler.Run)

	return app, deps
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("decode %q: %v", b, err)
	}
}

func TestCreateAlertRejectsUnknownType(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/alerts",
		`{"type":"UNKNOWN","title":"t","message":"m"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decode(t, resp, &body)
	if body.Error != "validation_error" || body.Field != "type" {
		t.Fatalf("want validation_error on field type, got %+v", body)
	}
}

func TestAlertResolveFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/v1/alerts",
		`{"type":"NEAR_EXPIRY","title":"Milk expiring","message":"Batch B-003 expires in 2 days"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: want 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		ResolvedAt *string `json:"resolvedAt"`
	}
	decode(t, resp, &created)
	if created.Status != "ACTIVE" || created.ResolvedAt != nil {
		t.Fatalf("fresh alert: %+v", created)
	}

	resp = doJSON(t, app, "PUT", "/api/v1/alerts/"+created.ID, `{"status":"RESOLVED"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve: want 200, got %d", resp.StatusCode)
	}
	var resolved struct {
		Status     string  `json:"status"`
		ResolvedAt *string `json:"resolvedAt"`
	}
	decode(t, resp, &resolved)
	if resolved.Status != "RESOLVED" || resolved.ResolvedAt == nil {
		t.Fatalf("resolved alert: %+v", resolved)
	}

	// GET reflects the same state
	resp = doJSON(t, app, "GET", "/api/v1/alerts/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: want 200, got %d", resp.StatusCode)
	}
	var fetched struct {
		Status     string  `json:"status"`
		ResolvedAt *string `json:"resolvedAt"`
	}
	decode(t, resp, &fetched)
	if fetched.Status != "RESOLVED" || fetched.ResolvedAt == nil {
		t.Fatalf("fetched alert: %+v", fetched)
	}

	// dismissing a resolved alert conflicts
	resp = doJSON(t, app, "PUT", "/api/v1/alerts/"+created.ID, `{"status":"DISMISSED"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("cross-terminal transition: want 409, got %d", resp.StatusCode)
	}
}

func TestAlertNotFoundAndBadStatus(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "PUT", "/api/v1/alerts/missing", `{"status":"RESOLVED"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id: want 404, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "PUT", "/api/v1/alerts/missing", `{"status":"SNOOZED"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad status: want 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "DELETE", "/api/v1/alerts/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("delete unknown: want 404, got %d", resp.StatusCode)
	}
}

func TestAlertListPaginationOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)

	for i := 0; i < 15; i++ {
		resp := doJSON(t, app, "POST", "/api/v1/alerts",
			fmt.Sprintf(`{"type":"LOW_STOCK","title":"alert %02d","message":"m"}`, i))
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %d: got %d", i, resp.StatusCode)
		}
	}

	resp := doJSON(t, app, "GET", "/api/v1/alerts?page=2&limit=10", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var body struct {
		Alerts     []json.RawMessage `json:"alerts"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	decode(t, resp, &body)
	if len(body.Alerts) != 5 {
		t.Fatalf("page 2: want 5 alerts, got %d", len(body.Alerts))
	}
	if body.Pagination.Total != 15 || body.Pagination.Pages != 2 {
		t.Fatalf("pagination: %+v", body.Pagination)
	}

	// page must be a positive integer
	resp = doJSON(t, app, "GET", "/api/v1/alerts?page=0&limit=10", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("page=0: want 400, got %d", resp.StatusCode)
	}
	resp = doJSON(t, app, "GET", "/api/v1/alerts?page=x", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("page=x: want 400, got %d", resp.StatusCode)
	}
}

func TestExpiryCheckEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	// load the demo catalog, which includes expired and critical batches
	resp := doJSON(t, app, "POST", "/api/v1/seed?action=seed", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("seed: want 200, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, "POST", "/api/v1/alerts/check", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("check: want 200, got %d", resp.StatusCode)
	}
	var res struct {
		Checked   int `json:"checked"`
		NewAlerts int `json:"newAlerts"`
	}
	decode(t, resp, &res)
	if res.Checked == 0 {
		t.Fatal("check ran over no batches")
	}
	if res.NewAlerts == 0 {
		t.Fatal("seeded catalog must produce at least one alert")
	}

	// a second sweep finds nothing new
	resp = doJSON(t, app, "POST", "/api/v1/alerts/check", "")
	decode(t, resp, &res)
	if res.NewAlerts != 0 {
		t.Fatalf("second check: want 0 new alerts, got %d", res.NewAlerts)
	}
}
