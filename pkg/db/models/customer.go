package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is created once per sale and never updated. PurchasedProduct is a
// snapshot of the product name at purchase time; renaming the product later
// must not rewrite history.
type Customer struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	Name             string    `gorm:"column:name;not null"`
	City             string    `gorm:"column:city;not null"`
	Address          string    `gorm:"column:address;not null"`
	PhoneNumber      *string   `gorm:"column:phone_number"`
	PurchaseDate     time.Time `gorm:"column:purchase_date;type:date;not null"`
	PurchasedProduct string    `gorm:"column:purchased_product;not null"`
	Quantity         int       `gorm:"column:quantity;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
