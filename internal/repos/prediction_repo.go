package repos

import (
	"expyra/internal/domain"

	"github.com/jmoiron/sqlx"
)

type PredictionRepo struct{ db *sqlx.DB }

func NewPredictionRepo(db *sqlx.DB) *PredictionRepo { return &PredictionRepo{db: db} }

const predictionCols = `id, product_id, predicted_date, predicted_quantity,
	confidence, factors_json, created_at`

func (r *PredictionRepo) Insert(p domain.SalesPrediction) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO sales_predictions(id, product_id, predicted_date, predicted_quantity,
	    confidence, factors_json, created_at)
	  VALUES(:id, :product_id, :predicted_date, :predicted_quantity,
	    :confidence, :factors_json, :created_at)
	`, p)
	return err
}

func (r *PredictionRepo) ListByProduct(productID string, limit int) ([]domain.SalesPrediction, error) {
	var out []domain.SalesPrediction
	err := r.db.Select(&out, `
	  SELECT `+predictionCols+` FROM sales_predictions
	  WHERE product_id = ?
	  ORDER BY predicted_date DESC, id LIMIT ?
	`, productID, limit)
	return out, err
}

func (r *PredictionRepo) List(limit int) ([]domain.SalesPrediction, error) {
	var out []domain.SalesPrediction
	err := r.db.Select(&out, `
	  SELECT `+predictionCols+` FROM sales_predictions
	  ORDER BY predicted_date DESC, id LIMIT ?
	`, limit)
	return out, err
}
