package domain

import "time"

// TimeFormat is used for every persisted timestamp column.
const TimeFormat = time.RFC3339

func FormatTime(t time.Time) string { return t.UTC().Format(TimeFormat) }

func ParseTime(s string) (time.Time, error) { return time.Parse(TimeFormat, s) }

type AlertType string

const (
	AlertNearExpiry    AlertType = "NEAR_EXPIRY"
	AlertDonationReady AlertType = "DONATION_READY"
	AlertExpired       AlertType = "EXPIRED"
	AlertLowStock      AlertType = "LOW_STOCK"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertNearExpiry, AlertDonationReady, AlertExpired, AlertLowStock:
		return true
	}
	return false
}

type AlertStatus string

const (
	StatusActive    AlertStatus = "ACTIVE"
	StatusResolved  AlertStatus = "RESOLVED"
	StatusDismissed AlertStatus = "DISMISSED"
)

func (s AlertStatus) Valid() bool {
	switch s {
	case StatusActive, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s AlertStatus) Terminal() bool { return s == StatusResolved || s == StatusDismissed }

type Supplier struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Email     *string `db:"email" json:"email,omitempty"`
	Phone     *string `db:"phone" json:"phone,omitempty"`
	Address   *string `db:"address" json:"address,omitempty"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
	UpdatedAt *string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
	Category    string  `db:"category" json:"category"`
	SKU         *string `db:"sku" json:"sku,omitempty"`
	Barcode     *string `db:"barcode" json:"barcode,omitempty"`
	Image       *string `db:"image" json:"image,omitempty"`
	SupplierID  *string `db:"supplier_id" json:"supplierId,omitempty"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   *string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Batch struct {
	ID                string  `db:"id" json:"id"`
	BatchCode         string  `db:"batch_code" json:"batchCode"`
	ProductID         string  `db:"product_id" json:"productId"`
	ManufacturingDate string  `db:"manufacturing_date" json:"manufacturingDate"`
	ExpiryDate        string  `db:"expiry_date" json:"expiryDate"`
	InitialQuantity   int     `db:"initial_quantity" json:"initialQuantity"`
	CurrentQuantity   int     `db:"current_quantity" json:"currentQuantity"`
	CreatedAt         string  `db:"created_at" json:"createdAt"`
	UpdatedAt         *string `db:"updated_at" json:"updatedAt,omitempty"`
}

// ExpiryTime parses the fixed expiry timestamp set at creation.
func (b Batch) ExpiryTime() (time.Time, error) { return ParseTime(b.ExpiryDate) }

type Inventory struct {
	ID        string  `db:"id" json:"id"`
	BatchID   string  `db:"batch_id" json:"batchId"`
	ProductID string  `db:"product_id" json:"productId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Location  string  `db:"location" json:"location"`
	CreatedAt string  `db:"created_at" json:"createdAt"`
	UpdatedAt *string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Alert struct {
	ID         string      `db:"id" json:"id"`
	Type       AlertType   `db:"type" json:"type"`
	Title      string      `db:"title" json:"title"`
	Message    string      `db:"message" json:"message"`
	Status     AlertStatus `db:"status" json:"status"`
	ProductID  *string     `db:"product_id" json:"productId,omitempty"`
	BatchID    *string     `db:"batch_id" json:"batchId,omitempty"`
	CreatedAt  string      `db:"created_at" json:"createdAt"`
	UpdatedAt  *string     `db:"updated_at" json:"updatedAt,omitempty"`
	ResolvedAt *string     `db:"resolved_at" json:"resolvedAt,omitempty"`
}

type SalesPrediction struct {
	ID                string  `db:"id" json:"id"`
	ProductID         string  `db:"product_id" json:"productId"`
	PredictedDate     string  `db:"predicted_date" json:"predictedDate"`
	PredictedQuantity int     `db:"predicted_quantity" json:"predictedQuantity"`
	Confidence        float64 `db:"confidence" json:"confidence"`
	FactorsJSON       *string `db:"factors_json" json:"factors,omitempty"`
	CreatedAt         string  `db:"created_at" json:"createdAt"`
}
