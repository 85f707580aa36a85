package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"expyra/internal/config"
	"expyra/internal/http/handlers"
	applog "expyra/internal/log"
	"expyra/internal/relay"
	"expyra/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.SeedOnStart {
		if err := repos.Seed(db, time.Now().UTC()); err != nil {
			log.Fatal(err)
		}
		log.Println("[seed] demo catalog loaded")
	}

	hub := relay.NewHub()

	engine := html.New(cfg.TemplateDir, ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			// long-lived SSE connections must not count against the limit
			return strings.HasPrefix(c.Path(), "/api/v1/events")
		},
	}))

	// ---------- Handlers ----------
	deps := handlers.NewDeps(db, cfg, hub)

	// Pages
	app.Get("/", deps.PageHandler.Dashboard)
	app.Get("/alerts", deps.PageHandler.Alerts)
	app.Get("/products", deps.PageHandler.Products)

	// API
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
	api.Get("/products/:id/batches", deps.BatchHandler.ListByProduct)
	api.Post("/products/:id/batches", deps.BatchHandler.Create)
	api.Delete("/batches/:id", deps.BatchHandler.Delete)
	api.Put("/batches/:id/inventory", deps.InventoryHandler.Place)
	api.Get("/inventory", deps.InventoryHandler.List)
	api.Get("/suppliers", deps.ProductHandler.Suppliers)

	api.Get("/predictions", deps.PredictionHandler.List)
	api.Post("/predictions", deps.PredictionHandler.Generate)
	api.Post("/scan", deps.VisionHandler.Scan)
	api.Post("/seed", deps.SeedHandler.Run)
	api.Get("/events", deps.EventsHandler.Stream)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
