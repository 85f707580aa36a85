package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"expyra/internal/domain"
	"expyra/internal/repos"
)

// InventoryService manages shelf placements. A batch has at most one
// placement; placing it again moves the stock.
type InventoryService struct {
	Inventory *repos.InventoryRepo
	Batches   *repos.BatchRepo
	Now       func() time.Time
}

func NewInventoryService(inventory *repos.InventoryRepo, batches *repos.BatchRepo) *InventoryService {
	return &InventoryService{Inventory: inventory, Batches: batches, Now: time.Now}
}

func (s *InventoryService) List() ([]repos.InventoryRow, error) {
	out, err := s.Inventory.ListAll()
	if out == nil {
		out = []repos.InventoryRow{}
	}
	return out, err
}

type PlaceBatchInput struct {
	BatchID  string
	Quantity int
	Location string
}

func (s *InventoryService) Place(in PlaceBatchInput) (domain.Inventory, error) {
	if in.Location == "" {
		return domain.Inventory{}, domain.ValidationError{Field: "location", Reason: "is required"}
	}
	if in.Quantity < 0 {
		return domain.Inventory{}, domain.ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	b, err := s.Batches.Get(in.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Inventory{}, domain.NotFoundError{Entity: "batch", ID: in.BatchID}
		}
		return domain.Inventory{}, err
	}

	inv := domain.Inventory{
		ID:        uuid.NewString(),
		BatchID:   b.ID,
		ProductID: b.ProductID,
		Quantity:  in.Quantity,
		Location:  in.Location,
		CreatedAt: domain.FormatTime(s.Now()),
	}
	if err := s.Inventory.Upsert(inv); err != nil {
		return domain.Inventory{}, err
	}
	// on conflict the existing row keeps its id and created_at; read back
	// what actually landed
	return s.Inventory.GetByBatch(b.ID)
}
