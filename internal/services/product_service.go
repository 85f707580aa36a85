package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"expyra/internal/domain"
	"expyra/internal/repos"
)

type ProductService struct {
	Products  *repos.ProductRepo
	Batches   *repos.BatchRepo
	Suppliers *repos.SupplierRepo
	Now       func() time.Time
}

func NewProductService(products *repos.ProductRepo, batches *repos.BatchRepo, suppliers *repos.SupplierRepo) *ProductService {
	return &ProductService{Products: products, Batches: batches, Suppliers: suppliers, Now: time.Now}
}

type CreateProductInput struct {
	Name        string
	Description *string
	Category    string
	SKU         *string
	Barcode     *string
	Image       *string
	SupplierID  *string
	// Optional first batch, created together with the product.
	InitialBatch *CreateBatchInput
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	SKU         *string
	Barcode     *string
	Image       *string
	SupplierID  *string
}

// ProductDetail is a product with its owned children, as the detail page
// consumes it.
type ProductDetail struct {
	domain.Product
	Supplier    *domain.Supplier         `json:"supplier,omitempty"`
	Batches     []domain.Batch           `json:"batches"`
	Predictions []domain.SalesPrediction `json:"predictions,omitempty"`
}

func (s *ProductService) List() ([]repos.ProductRow, error) {
	rows, err := s.Products.List()
	if rows == nil {
		rows = []repos.ProductRow{}
	}
	return rows, err
}

func (s *ProductService) Get(id string) (domain.Product, error) {
	p, err := s.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFoundError{Entity: "product", ID: id}
	}
	return p, err
}

func (s *ProductService) Detail(id string, preds *repos.PredictionRepo) (ProductDetail, error) {
	p, err := s.Get(id)
	if err != nil {
		return ProductDetail{}, err
	}
	d := ProductDetail{Product: p}

	if p.SupplierID != nil {
		if sup, err := s.Suppliers.Get(*p.SupplierID); err == nil {
			d.Supplier = &sup
		}
	}
	if d.Batches, err = s.Batches.ListByProduct(id); err != nil {
		return ProductDetail{}, err
	}
	if d.Batches == nil {
		d.Batches = []domain.Batch{}
	}
	if preds != nil {
		if d.Predictions, err = preds.ListByProduct(id, 5); err != nil {
			return ProductDetail{}, err
		}
	}
	return d, nil
}

func (s *ProductService) Create(in CreateProductInput) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if in.Category == "" {
		return domain.Product{}, domain.ValidationError{Field: "category", Reason: "is required"}
	}
	if err := s.checkUnique(in.SKU, in.Barcode, ""); err != nil {
		return domain.Product{}, err
	}
	if in.SupplierID != nil {
		if _, err := s.Suppliers.Get(*in.SupplierID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Product{}, domain.ValidationError{Field: "supplierId", Reason: "unknown supplier"}
			}
			return domain.Product{}, err
		}
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		SKU:         in.SKU,
		Barcode:     in.Barcode,
		Image:       in.Image,
		SupplierID:  in.SupplierID,
		CreatedAt:   domain.FormatTime(s.Now()),
	}
	if err := s.Products.Insert(p); err != nil {
		return domain.Product{}, err
	}

	if in.InitialBatch != nil {
		in.InitialBatch.ProductID = p.ID
		if _, err := s.CreateBatch(*in.InitialBatch); err != nil {
			return domain.Product{}, err
		}
	}
	return p, nil
}

func (s *ProductService) Update(id string, in UpdateProductInput) (domain.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	if in.SKU != nil && (p.SKU == nil || *in.SKU != *p.SKU) {
		if err := s.checkUnique(in.SKU, nil, id); err != nil {
			return domain.Product{}, err
		}
		p.SKU = in.SKU
	}
	if in.Barcode != nil && (p.Barcode == nil || *in.Barcode != *p.Barcode) {
		if err := s.checkUnique(nil, in.Barcode, id); err != nil {
			return domain.Product{}, err
		}
		p.Barcode = in.Barcode
	}
	if in.Name != nil {
		if *in.Name == "" {
			return domain.Product{}, domain.ValidationError{Field: "name", Reason: "is required"}
		}
		p.Name = *in.Name
	}
	if in.Category != nil {
		if *in.Category == "" {
			return domain.Product{}, domain.ValidationError{Field: "category", Reason: "is required"}
		}
		p.Category = *in.Category
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Image != nil {
		p.Image = in.Image
	}
	if in.SupplierID != nil {
		if _, err := s.Suppliers.Get(*in.SupplierID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Product{}, domain.ValidationError{Field: "supplierId", Reason: "unknown supplier"}
			}
			return domain.Product{}, err
		}
		p.SupplierID = in.SupplierID
	}

	now := domain.FormatTime(s.Now())
	p.UpdatedAt = &now
	if err := s.Products.Update(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *ProductService) Delete(id string) error {
	ok, err := s.Products.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Entity: "product", ID: id}
	}
	return nil
}

func (s *ProductService) checkUnique(sku, barcode *string, excludeID string) error {
	if sku != nil && *sku != "" {
		exists, err := s.Products.SKUExists(*sku, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ConflictError{Entity: "product", Field: "sku", Value: *sku}
		}
	}
	if barcode != nil && *barcode != "" {
		exists, err := s.Products.BarcodeExists(*barcode, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ConflictError{Entity: "product", Field: "barcode", Value: *barcode}
		}
	}
	return nil
}

type CreateBatchInput struct {
	ProductID         string
	BatchCode         string
	ManufacturingDate time.Time
	ExpiryDate        time.Time
	InitialQuantity   int
}

// CreateBatch creates a dated lot for a product. currentQuantity starts at
// initialQuantity; the expiry timestamp is fixed at creation.
func (s *ProductService) CreateBatch(in CreateBatchInput) (domain.Batch, error) {
	if in.BatchCode == "" {
		return domain.Batch{}, domain.ValidationError{Field: "batchCode", Reason: "is required"}
	}
	if in.InitialQuantity < 0 {
		return domain.Batch{}, domain.ValidationError{Field: "initialQuantity", Reason: "must not be negative"}
	}
	if !in.ExpiryDate.After(in.ManufacturingDate) {
		return domain.Batch{}, domain.ValidationError{Field: "expiryDate", Reason: "must be after manufacturingDate"}
	}
	if _, err := s.Get(in.ProductID); err != nil {
		return domain.Batch{}, err
	}

	b := domain.Batch{
		ID:                uuid.NewString(),
		BatchCode:         in.BatchCode,
		ProductID:         in.ProductID,
		ManufacturingDate: domain.FormatTime(in.ManufacturingDate),
		ExpiryDate:        domain.FormatTime(in.ExpiryDate),
		InitialQuantity:   in.InitialQuantity,
		CurrentQuantity:   in.InitialQuantity,
		CreatedAt:         domain.FormatTime(s.Now()),
	}
	if err := s.Batches.Insert(b); err != nil {
		return domain.Batch{}, err
	}
	return b, nil
}

func (s *ProductService) ListBatches(productID string) ([]domain.Batch, error) {
	if _, err := s.Get(productID); err != nil {
		return nil, err
	}
	out, err := s.Batches.ListByProduct(productID)
	if out == nil {
		out = []domain.Batch{}
	}
	return out, err
}

func (s *ProductService) DeleteBatch(id string) error {
	ok, err := s.Batches.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Entity: "batch", ID: id}
	}
	return nil
}

func (s *ProductService) ListSuppliers() ([]domain.Supplier, error) {
	out, err := s.Suppliers.List()
	if out == nil {
		out = []domain.Supplier{}
	}
	return out, err
}
