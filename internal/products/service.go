package product

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/pkg/db/models"
	"github.com/agriferti/agriferti-backend/pkg/enums"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

const maxNameLength = 200

// Service exposes product management for a single authenticated owner. The
// owner ID always comes from the verified credential, never from the payload.
type Service interface {
	CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error
	GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Category      string
	Unit          enums.ProductUnit
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Stock         int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name          *string
	Category      *string
	Unit          *enums.ProductUnit
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Stock         *int
}

type saleCounter interface {
	CountByProduct(ctx context.Context, ownerID, productID uuid.UUID) (int64, error)
}

// service implements the product service.
type service struct {
	repo      *Repository
	saleCount saleCounter
}

// NewService constructs a product service instance.
func NewService(repo *Repository, saleCount saleCounter) (Service, error) {
	if repo == nil {
		return nil, errors.New("product repository required")
	}
	if saleCount == nil {
		return nil, errors.New("sale counter required")
	}
	return &service{repo: repo, saleCount: saleCount}, nil
}

// CreateProduct validates the input and inserts the listing under ownerID.
func (s *service) CreateProduct(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > maxNameLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name exceeds maximum length")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit must be one of kg, bag, litre")
	}
	if input.PurchasePrice.IsNegative() || input.SellingPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	product := &models.Product{
		OwnerID:       ownerID,
		Name:          name,
		Category:      strings.TrimSpace(input.Category),
		Unit:          input.Unit,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Stock:         input.Stock,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided fields to a product owned by ownerID.
func (s *service) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		if len(name) > maxNameLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name exceeds maximum length")
		}
		product.Name = name
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit must be one of kg, bag, litre")
		}
		product.Unit = *input.Unit
	}
	if input.PurchasePrice != nil {
		if input.PurchasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase price cannot be negative")
		}
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.SellingPrice != nil {
		if input.SellingPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "selling price cannot be negative")
		}
		product.SellingPrice = *input.SellingPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		product.Stock = *input.Stock
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product that has no recorded sales.
func (s *service) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, ownerID, productID); err != nil {
		return err
	}

	count, err := s.saleCount.CountByProduct(ctx, ownerID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting sales for product")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product has recorded sales and cannot be deleted")
	}

	if err := s.repo.Delete(ctx, ownerID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}

// GetProduct returns a single product owned by ownerID.
func (s *service) GetProduct(ctx context.Context, ownerID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts returns every product owned by ownerID.
func (s *service) ListProducts(ctx context.Context, ownerID uuid.UUID) ([]ProductDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	products, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return NewProductDTOs(products), nil
}

func (s *service) loadOwned(ctx context.Context, ownerID, productID uuid.UUID) (*models.Product, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByOwner(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}
