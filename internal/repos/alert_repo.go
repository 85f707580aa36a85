package repos

import (
	"expyra/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AlertRepo struct{ db *sqlx.DB }

func NewAlertRepo(db *sqlx.DB) *AlertRepo { return &AlertRepo{db: db} }

const alertCols = `id, type, title, message, status, product_id, batch_id,
	created_at, updated_at, resolved_at`

func (r *AlertRepo) Get(id string) (domain.Alert, error) {
	var a domain.Alert
	err := r.db.Get(&a, `SELECT `+alertCols+` FROM alerts WHERE id = ?`, id)
	return a, err
}

func (r *AlertRepo) Insert(a domain.Alert) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO alerts(id, type, title, message, status, product_id, batch_id, created_at)
	  VALUES(:id, :type, :title, :message, :status, :product_id, :batch_id, :created_at)
	`, a)
	return err
}

// UpdateStatus persists a lifecycle transition. resolvedAt is only ever
// written here on the transition to RESOLVED and never cleared.
func (r *AlertRepo) UpdateStatus(a domain.Alert) error {
	_, err := r.db.NamedExec(`
	  UPDATE alerts
	  SET status = :status, updated_at = :updated_at, resolved_at = :resolved_at
	  WHERE id = :id
	`, a)
	return err
}

func (r *AlertRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM alerts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// List returns one page of alerts plus the total count for the same filter.
// sortCol and sortDir must come from the validate whitelist; they are
// interpolated, not bound.
func (r *AlertRepo) List(typ, status, sortCol, sortDir string, limit, offset int) ([]domain.Alert, int, error) {
	where := `1=1`
	args := []any{}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	if typ != "" {
		where += ` AND type = ?`
		args = append(args, typ)
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM alerts WHERE `+where, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + alertCols + ` FROM alerts WHERE ` + where +
		` ORDER BY ` + sortCol + ` ` + sortDir + `, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var out []domain.Alert
	if err := r.db.Select(&out, query, args...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HasActive reports whether the batch already carries an ACTIVE alert of the
// given type; the expiry sweep uses it to avoid piling up duplicates.
func (r *AlertRepo) HasActive(batchID string, typ domain.AlertType) (bool, error) {
	var n int
	err := r.db.Get(&n, `
	  SELECT COUNT(*) FROM alerts
	  WHERE batch_id = ? AND type = ? AND status = 'ACTIVE'
	`, batchID, typ)
	return n > 0, err
}

func (r *AlertRepo) CountByStatus(status domain.AlertStatus) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM alerts WHERE status = ?`, status)
	return n, err
}

func (r *AlertRepo) Recent(limit int) ([]domain.Alert, error) {
	var out []domain.Alert
	err := r.db.Select(&out, `
	  SELECT `+alertCols+` FROM alerts
	  ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	return out, err
}
