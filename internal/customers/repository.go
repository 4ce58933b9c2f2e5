package customer

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/internal/repo"
	"github.com/agriferti/agriferti-backend/pkg/db/models"
)

// Repository persists customer rows. Customers are append-only: one row per
// sale, no dedup by name or phone.
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

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByOwner loads a single customer owned by ownerID.
func (r *Repository) FindByOwner(ctx context.Context, ownerID, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListByOwner returns the owner's customers, most recent purchase first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.DB(ctx).
		Where("owner_id = ?", ownerID).
		Order("purchase_date DESC, created_at DESC").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// CityCount aggregates how many customer rows fall in each city.
type CityCount struct {
	City  string `gorm:"column:city"`
	Count int64  `gorm:"column:count"`
}

// CountByCity groups the owner's customers by city, largest first.
func (r *Repository) CountByCity(ctx context.Context, ownerID uuid.UUID) ([]CityCount, error) {
	var counts []CityCount
	if err := r.DB(ctx).
		Model(&models.Customer{}).
		Select("city, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("city").
		Order("count DESC, city ASC").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
