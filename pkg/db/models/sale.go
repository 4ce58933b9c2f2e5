package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is append-only. Revenue and profit are computed when the sale is
// recorded and never recomputed from later prices.
type Sale struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID      uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	CustomerID   uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Date         time.Time       `gorm:"column:date;type:date;not null"`
	TotalRevenue decimal.Decimal `gorm:"column:total_revenue;type:numeric(14,2);not null"`
	TotalProfit  decimal.Decimal `gorm:"column:total_profit;type:numeric(14,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
