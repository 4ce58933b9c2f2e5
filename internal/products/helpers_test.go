package product

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/pkg/db/models"
	"github.com/agriferti/agriferti-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Sale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, ownerID uuid.UUID, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		OwnerID:       ownerID,
		Name:          "Urea 46%",
		Category:      "nitrogen",
		Unit:          enums.ProductUnitBag,
		PurchasePrice: decimal.NewFromInt(1100),
		SellingPrice:  decimal.NewFromInt(1150),
		Stock:         stock,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
