package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"expyra/internal/domain"
)

// Seed loads the demo catalog inside a single transaction. Every insert is an
// upsert by primary key, so running it twice leaves the same rows behind.
func Seed(db *sqlx.DB, now time.Time) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := domain.FormatTime(now)
	day := func(offset int) string {
		return domain.FormatTime(now.AddDate(0, 0, offset))
	}

	upsertSupplier := `
	  INSERT INTO suppliers(id, name, email, phone, address, created_at)
	  VALUES(?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    name = excluded.name, email = excluded.email,
	    phone = excluded.phone, address = excluded.address`
	suppliers := [][]any{
		{"sup-fresh-farms", "Fresh Farms Inc.", "contact@freshfarms.com", "123-456-7890", "123 Farm Rd", ts},
		{"sup-dairy-best", "Dairy Best", "info@dairybest.com", "098-765-4321", "456 Dairy Ln", ts},
	}
	for _, s := range suppliers {
		if _, err := tx.Exec(upsertSupplier, s...); err != nil {
			return err
		}
	}

	upsertProduct := `
	  INSERT INTO products(id, name, description, category, sku, barcode, image, supplier_id, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    name = excluded.name, description = excluded.description,
	    category = excluded.category, sku = excluded.sku,
	    barcode = excluded.barcode, image = excluded.image,
	    supplier_id = excluded.supplier_id`
	products := [][]any{
		{"prod-bananas", "Organic Bananas", "A bunch of fresh, organic bananas.", "Produce",
			"PROD-BNN-001", "1234567890123", "/images/bananas.jpg", "sup-fresh-farms", ts},
		{"prod-milk", "Whole Milk", "A gallon of fresh, whole milk.", "Dairy",
			"DAIRY-MLK-001", "1234567890124", "/images/milk.jpg", "sup-dairy-best", ts},
		{"prod-bread", "Sourdough Bread", "Artisan sourdough loaf.", "Bakery",
			"BAKE-BRD-001", "1234567890125", "/images/bread.jpg", "sup-fresh-farms", ts},
	}
	for _, p := range products {
		if _, err := tx.Exec(upsertProduct, p...); err != nil {
			return err
		}
	}

	upsertBatch := `
	  INSERT INTO batches(id, batch_code, product_id, manufacturing_date, expiry_date,
	    initial_quantity, current_quantity, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    batch_code = excluded.batch_code, product_id = excluded.product_id,
	    manufacturing_date = excluded.manufacturing_date,
	    expiry_date = excluded.expiry_date,
	    initial_quantity = excluded.initial_quantity,
	    current_quantity = excluded.current_quantity`
	// Expiries are staggered around "now" so the classifier has every bucket
	// to chew on: expired, critical, warning and good.
	batches := [][]any{
		{"batch-bnn-1", "B-001", "prod-bananas", day(-12), day(2), 100, 100, ts},
		{"batch-bnn-2", "B-002", "prod-bananas", day(-2), day(20), 50, 50, ts},
		{"batch-mlk-1", "B-003", "prod-milk", day(-10), day(6), 75, 75, ts},
		{"batch-brd-1", "B-004", "prod-bread", day(-5), day(-1), 40, 3, ts},
	}
	for _, b := range batches {
		if _, err := tx.Exec(upsertBatch, b...); err != nil {
			return err
		}
	}

	upsertInventory := `
	  INSERT INTO inventory(id, batch_id, product_id, quantity, location, created_at)
	  VALUES(?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    batch_id = excluded.batch_id, product_id = excluded.product_id,
	    quantity = excluded.quantity, location = excluded.location`
	placements := [][]any{
		{"inv-bnn-1", "batch-bnn-1", "prod-bananas", 100, "AISLE-1", ts},
		{"inv-mlk-1", "batch-mlk-1", "prod-milk", 75, "COLD-2", ts},
		{"inv-brd-1", "batch-brd-1", "prod-bread", 3, "AISLE-4", ts},
	}
	for _, p := range placements {
		if _, err := tx.Exec(upsertInventory, p...); err != nil {
			return err
		}
	}

	upsertAlert := `
	  INSERT INTO alerts(id, type, title, message, status, product_id, batch_id, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    type = excluded.type, title = excluded.title, message = excluded.message,
	    status = excluded.status, product_id = excluded.product_id,
	    batch_id = excluded.batch_id`
	if _, err := tx.Exec(upsertAlert,
		"alert-seed-1", string(domain.AlertNearExpiry),
		"Batch B-001 expires soon",
		"Batch B-001 of Organic Bananas expires in 2 days.",
		string(domain.StatusActive), "prod-bananas", "batch-bnn-1", ts); err != nil {
		return err
	}

	upsertPrediction := `
	  INSERT INTO sales_predictions(id, product_id, predicted_date, predicted_quantity,
	    confidence, factors_json, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?)
	  ON CONFLICT(id) DO UPDATE SET
	    product_id = excluded.product_id, predicted_date = excluded.predicted_date,
	    predicted_quantity = excluded.predicted_quantity,
	    confidence = excluded.confidence, factors_json = excluded.factors_json`
	predictions := [][]any{
		{"pred-bnn-1", "prod-bananas", day(1), 42, 0.84,
			`{"seasonality":1.1,"trend":1.02,"random":0.95}`, ts},
		{"pred-mlk-1", "prod-milk", day(1), 61, 0.79,
			`{"seasonality":0.97,"trend":1.05,"random":1.08}`, ts},
	}
	for _, p := range predictions {
		if _, err := tx.Exec(upsertPrediction, p...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Clear removes every row, children before parents so foreign keys never
// trip, all inside one transaction.
func Clear(db *sqlx.DB) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	tables := []string{
		"sales_predictions", "alerts", "inventory", "batches", "products", "suppliers",
	}
	for _, t := range tables {
		if _, err := tx.Exec(`DELETE FROM ` + t); err != nil {
			return err
		}
	}
	return tx.Commit()
}
