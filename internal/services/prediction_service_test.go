package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"expyra/internal/domain"
	"expyra/internal/repos"
	"expyra/internal/services"
)

func newPredictionService(db *sqlx.DB, seed int64) *services.PredictionService {
	productSvc := services.NewProductService(
		repos.NewProductRepo(db),
		repos.NewBatchRepo(db),
		repos.NewSupplierRepo(db),
	)
	return services.NewPredictionService(productSvc, repos.NewPredictionRepo(db),
		services.NewMockPredictionSource(seed))
}

func TestPredictionGenerate(t *testing.T) {
	db := memdb(t)
	svc := newPredictionService(db, 42)
	svc.Now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	products := repos.NewProductRepo(db)
	if err := products.Insert(domain.Product{ID: "p1", Name: "Bananas", Category: "Produce", CreatedAt: "2025-06-01T00:00:00Z"}); err != nil {
		t.Fatal(err)
	}

	out, err := svc.Generate("p1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 7 {
		t.Fatalf("want 7 predictions, got %d", len(out))
	}
	for _, p := range out {
		if p.Confidence < 0.7 || p.Confidence > 0.95 {
			t.Fatalf("confidence out of range: %f", p.Confidence)
		}
		if p.PredictedQuantity < 0 {
			t.Fatalf("negative quantity: %d", p.PredictedQuantity)
		}
		if p.FactorsJSON == nil {
			t.Fatal("factors missing")
		}
	}
	if out[0].PredictedDate != "2025-06-01" {
		t.Fatalf("first prediction date: got %s", out[0].PredictedDate)
	}

	// stored rows are readable afterwards
	listed, err := svc.List("p1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 7 {
		t.Fatalf("want 7 stored predictions, got %d", len(listed))
	}
}

func TestPredictionGenerateValidation(t *testing.T) {
	db := memdb(t)
	svc := newPredictionService(db, 1)

	var nf domain.NotFoundError
	if _, err := svc.Generate("missing", 7); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}

	products := repos.NewProductRepo(db)
	if err := products.Insert(domain.Product{ID: "p1", Name: "Bananas", Category: "Produce", CreatedAt: "2025-06-01T00:00:00Z"}); err != nil {
		t.Fatal(err)
	}
	var ve domain.ValidationError
	if _, err := svc.Generate("p1", 0); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for 0 days, got %v", err)
	}
	if _, err := svc.Generate("p1", 120); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for 120 days, got %v", err)
	}
}

func TestMockVisionScan(t *testing.T) {
	src := services.NewMockVisionSource(7)
	for i := 0; i < 20; i++ {
		scan := src.ScanLabel()
		if scan.ProductName == "" || scan.BatchCode == "" || scan.RawText == "" {
			t.Fatalf("incomplete scan: %+v", scan)
		}
		if _, err := time.Parse("2006-01-02", scan.ExpiryDate); err != nil {
			t.Fatalf("unparseable expiry %q", scan.ExpiryDate)
		}
		if scan.Confidence < 0.5 || scan.Confidence > 0.99 {
			t.Fatalf("confidence out of range: %f", scan.Confidence)
		}
	}
}
