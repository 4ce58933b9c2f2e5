package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/internal/repo"
	"github.com/agriferti/agriferti-backend/pkg/db/models"
)

// Repository persists product listings. Every query is scoped by owner_id so a
// row belonging to another owner is indistinguishable from a missing row.
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

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves the full product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByOwner loads a single product owned by ownerID.
func (r *Repository) FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByOwner returns all products owned by ownerID, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.DB(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes the product owned by ownerID. Returns gorm.ErrRecordNotFound
// when no matching row exists.
func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementStock atomically subtracts qty from the product's stock, refusing
// to go below zero. It reports false when the row is missing, owned by someone
// else, or holds less stock than requested. Concurrent callers serialize on
// the row, so two sales can never drain the same units.
func (r *Repository) DecrementStock(ctx context.Context, ownerID, id uuid.UUID, qty int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ? AND owner_id = ? AND stock >= ?", id, ownerID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
