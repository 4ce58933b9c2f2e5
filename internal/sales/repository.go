package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/internal/repo"
	"github.com/agriferti/agriferti-backend/pkg/db/models"
)

// Repository persists sale rows. Sales are append-only; there is no update or
// delete path.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create inserts a new sale row.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) (*models.Sale, error) {
	if err := r.DB(ctx).Create(sale).Error; err != nil {
		return nil, err
	}
	return sale, nil
}

// ListFilter narrows ListByOwner. Zero values mean "no constraint".
type ListFilter struct {
	From      time.Time
	To        time.Time
	ProductID uuid.UUID
}

// SaleRow is a sale joined with the product it references.
type SaleRow struct {
	models.Sale
	ProductName string `gorm:"column:product_name"`
}

// ListByOwner returns the owner's sales, newest first, with the product name
// joined in.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]SaleRow, error) {
	q := r.DB(ctx).
		Model(&models.Sale{}).
		Select("sales.*, products.name AS product_name").
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.owner_id = ?", ownerID)
	if !filter.From.IsZero() {
		q = q.Where("sales.date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("sales.date <= ?", filter.To)
	}
	if filter.ProductID != uuid.Nil {
		q = q.Where("sales.product_id = ?", filter.ProductID)
	}

	var rows []SaleRow
	if err := q.Order("sales.date DESC, sales.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByProduct reports how many sales reference the product.
func (r *Repository) CountByProduct(ctx context.Context, ownerID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Sale{}).
		Where("owner_id = ? AND product_id = ?", ownerID, productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
