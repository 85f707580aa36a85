package repos

import (
	"expyra/internal/domain"

	"github.com/jmoiron/sqlx"
)

type BatchRepo struct{ db *sqlx.DB }

func NewBatchRepo(db *sqlx.DB) *BatchRepo { return &BatchRepo{db: db} }

const batchCols = `id, batch_code, product_id, manufacturing_date, expiry_date,
	initial_quantity, current_quantity, created_at, updated_at`

func (r *BatchRepo) Get(id string) (domain.Batch, error) {
	var b domain.Batch
	err := r.db.Get(&b, `SELECT `+batchCols+` FROM batches WHERE id = ?`, id)
	return b, err
}

func (r *BatchRepo) ListByProduct(productID string) ([]domain.Batch, error) {
	var out []domain.Batch
	err := r.db.Select(&out, `
	  SELECT `+batchCols+`
	  FROM batches
	  WHERE product_id = ?
	  ORDER BY expiry_date, id
	`, productID)
	return out, err
}

// BatchStock is a batch joined with its product name, used by the expiry sweep.
type BatchStock struct {
	domain.Batch
	ProductName string `db:"product_name"`
}

func (r *BatchRepo) ListAllWithProduct() ([]BatchStock, error) {
	var out []BatchStock
	err := r.db.Select(&out, `
	  SELECT b.id, b.batch_code, b.product_id, b.manufacturing_date, b.expiry_date,
	         b.initial_quantity, b.current_quantity, b.created_at, b.updated_at,
	         p.name AS product_name
	  FROM batches b
	  JOIN products p ON p.id = b.product_id
	  ORDER BY b.expiry_date, b.id
	`)
	return out, err
}

func (r *BatchRepo) Insert(b domain.Batch) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO batches(id, batch_code, product_id, manufacturing_date, expiry_date,
	    initial_quantity, current_quantity, created_at)
	  VALUES(:id, :batch_code, :product_id, :manufacturing_date, :expiry_date,
	    :initial_quantity, :current_quantity, :created_at)
	`, b)
	return err
}

func (r *BatchRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM batches WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *BatchRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM batches`)
	return n, err
}
