package repos

import (
	"expyra/internal/domain"

	"github.com/jmoiron/sqlx"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// InventoryRow joins a placement with its product and batch for list views.
type InventoryRow struct {
	domain.Inventory
	ProductName string `db:"product_name" json:"productName"`
	BatchCode   string `db:"batch_code" json:"batchCode"`
	ExpiryDate  string `db:"expiry_date" json:"expiryDate"`
}

func (r *InventoryRepo) ListAll() ([]InventoryRow, error) {
	var out []InventoryRow
	err := r.db.Select(&out, `
	  SELECT i.id, i.batch_id, i.product_id, i.quantity, i.location,
	         i.created_at, i.updated_at,
	         p.name AS product_name, b.batch_code, b.expiry_date
	  FROM inventory i
	  JOIN products p ON p.id = i.product_id
	  JOIN batches  b ON b.id = i.batch_id
	  ORDER BY p.name, b.expiry_date
	`)
	return out, err
}

func (r *InventoryRepo) GetByBatch(batchID string) (domain.Inventory, error) {
	var inv domain.Inventory
	err := r.db.Get(&inv, `
	  SELECT id, batch_id, product_id, quantity, location, created_at, updated_at
	  FROM inventory WHERE batch_id = ?
	`, batchID)
	return inv, err
}

// Upsert sets the placement for a batch, creating the row if needed.
func (r *InventoryRepo) Upsert(inv domain.Inventory) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO inventory(id, batch_id, product_id, quantity, location, created_at)
	  VALUES(:id, :batch_id, :product_id, :quantity, :location, :created_at)
	  ON CONFLICT(batch_id) DO UPDATE SET
	    quantity = excluded.quantity,
	    location = excluded.location,
	    updated_at = excluded.created_at
	`, inv)
	return err
}
