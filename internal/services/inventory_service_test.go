package services_test

import (
	"errors"
	"testing"
	"time"

	"expyra/internal/domain"
	"expyra/internal/repos"
	"expyra/internal/services"
)

func TestInventoryPlaceAndMove(t *testing.T) {
	db := memdb(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedSweepFixtures(t, db, now)

	svc := services.NewInventoryService(repos.NewInventoryRepo(db), repos.NewBatchRepo(db))

	inv, err := svc.Place(services.PlaceBatchInput{BatchID: "b-good", Quantity: 10, Location: "AISLE-3"})
	if err != nil {
		t.Fatal(err)
	}
	if inv.Location != "AISLE-3" || inv.ProductID != "p1" {
		t.Fatalf("placement: %+v", inv)
	}

	// placing the same batch again moves the stock, one row per batch
	moved, err := svc.Place(services.PlaceBatchInput{BatchID: "b-good", Quantity: 8, Location: "COLD-1"})
	if err != nil {
		t.Fatal(err)
	}
	if moved.ID != inv.ID {
		t.Fatalf("re-placement must keep the row, got new id %s", moved.ID)
	}
	if moved.Location != "COLD-1" || moved.Quantity != 8 {
		t.Fatalf("moved placement: %+v", moved)
	}

	rows, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("want 1 placement, got %d", len(rows))
	}
	if rows[0].ProductName != "Whole Milk" || rows[0].BatchCode != "B-103" {
		t.Fatalf("joined row: %+v", rows[0])
	}
}

func TestInventoryPlaceValidation(t *testing.T) {
	db := memdb(t)
	svc := services.NewInventoryService(repos.NewInventoryRepo(db), repos.NewBatchRepo(db))

	var ve domain.ValidationError
	if _, err := svc.Place(services.PlaceBatchInput{BatchID: "b1", Quantity: 1}); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for missing location, got %v", err)
	}
	if _, err := svc.Place(services.PlaceBatchInput{BatchID: "b1", Quantity: -1, Location: "A"}); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for negative quantity, got %v", err)
	}
	var nf domain.NotFoundError
	if _, err := svc.Place(services.PlaceBatchInput{BatchID: "missing", Quantity: 1, Location: "A"}); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
