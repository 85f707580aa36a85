package repos

import (
	"expyra/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, description, category, sku, barcode, image, supplier_id, created_at, updated_at`

// ProductRow is a product joined with its batch/alert counts for list views.
type ProductRow struct {
	domain.Product
	BatchCount int `db:"batch_count" json:"batchCount"`
	AlertCount int `db:"alert_count" json:"alertCount"`
}

func (r *ProductRepo) List() ([]ProductRow, error) {
	var out []ProductRow
	err := r.db.Select(&out, `
	  SELECT p.id, p.name, p.description, p.category, p.sku, p.barcode, p.image,
	         p.supplier_id, p.created_at, p.updated_at,
	         (SELECT COUNT(*) FROM batches b WHERE b.product_id = p.id) AS batch_count,
	         (SELECT COUNT(*) FROM alerts a WHERE a.product_id = p.id AND a.status = 'ACTIVE') AS alert_count
	  FROM products p
	  ORDER BY p.created_at DESC, p.id
	`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO products(id, name, description, category, sku, barcode, image, supplier_id, created_at)
	  VALUES(:id, :name, :description, :category, :sku, :barcode, :image, :supplier_id, :created_at)
	`, p)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.NamedExec(`
	  UPDATE products
	  SET name = :name, description = :description, category = :category,
	      sku = :sku, barcode = :barcode, image = :image,
	      supplier_id = :supplier_id, updated_at = :updated_at
	  WHERE id = :id
	`, p)
	return err
}

// Delete removes a product; batches, inventory, alerts and predictions go
// with it via FK cascade.
func (r *ProductRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SKUExists reports whether another product already uses sku.
func (r *ProductRepo) SKUExists(sku, excludeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE sku = ? AND id != ?`, sku, excludeID)
	return n > 0, err
}

func (r *ProductRepo) BarcodeExists(barcode, excludeID string) (bool, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE barcode = ? AND id != ?`, barcode, excludeID)
	return n > 0, err
}

func (r *ProductRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}
