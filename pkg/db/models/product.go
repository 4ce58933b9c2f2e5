package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agriferti/agriferti-backend/pkg/enums"
)

// Product is a fertilizer listing owned by a single user. Stock is only ever
// decremented through the sale transaction.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID       uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;index"`
	Name          string            `gorm:"column:name;not null"`
	Category      string            `gorm:"column:category;not null"`
	Unit          enums.ProductUnit `gorm:"column:unit;not null"`
	PurchasePrice decimal.Decimal   `gorm:"column:purchase_price;type:numeric(12,2);not null"`
	SellingPrice  decimal.Decimal   `gorm:"column:selling_price;type:numeric(12,2);not null"`
	Stock         int               `gorm:"column:stock;not null;default:0"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
