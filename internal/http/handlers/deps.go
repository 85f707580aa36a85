package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"expyra/internal/config"
	"expyra/internal/relay"
	"expyra/internal/repos"
	"expyra/internal/services"
)

type Deps struct {
	AlertHandler      *AlertHandler
	ProductHandler    *ProductHandler
	BatchHandler      *BatchHandler
	InventoryHandler  *InventoryHandler
	PredictionHandler *PredictionHandler
	VisionHandler     *VisionHandler
	SeedHandler       *SeedHandler
	EventsHandler     *EventsHandler
	PageHandler       *PageHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, hub *relay.Hub) *Deps {
	supplierRepo := repos.NewSupplierRepo(db)
	productRepo := repos.NewProductRepo(db)
	batchRepo := repos.NewBatchRepo(db)
	alertRepo := repos.NewAlertRepo(db)
	inventoryRepo := repos.NewInventoryRepo(db)
	predictionRepo := repos.NewPredictionRepo(db)

	alertSvc := services.NewAlertService(alertRepo, productRepo, batchRepo, hub)
	expirySvc := services.NewExpiryService(batchRepo, alertRepo, alertSvc, hub,
		cfg.LowStockThreshold, cfg.DonationMinQty)
	productSvc := services.NewProductService(productRepo, batchRepo, supplierRepo)
	inventorySvc := services.NewInventoryService(inventoryRepo, batchRepo)
	predictionSvc := services.NewPredictionService(productSvc, predictionRepo,
		services.NewMockPredictionSource(time.Now().UnixNano()))
	visionSrc := services.NewMockVisionSource(time.Now().UnixNano())
	seedSvc := services.NewSeedService(db)

	return &Deps{
		AlertHandler:      &AlertHandler{Alerts: alertSvc, Expiry: expirySvc},
		ProductHandler:    &ProductHandler{Products: productSvc, Predictions: predictionRepo},
		BatchHandler:      &BatchHandler{Products: productSvc},
		InventoryHandler:  &InventoryHandler{Inventory: inventorySvc},
		PredictionHandler: &PredictionHandler{Predictions: predictionSvc},
		VisionHandler:     &VisionHandler{Vision: visionSrc},
		SeedHandler:       &SeedHandler{Seeder: seedSvc},
		EventsHandler:     &EventsHandler{Hub: hub},
		PageHandler:       &PageHandler{ProductRepo: productRepo, Batches: batchRepo, AlertRepo: alertRepo},
	}
}
