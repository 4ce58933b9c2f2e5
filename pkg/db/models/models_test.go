package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/pkg/enums"
)

// The sqlite backend has no gen_random_uuid(), so the schema must migrate
// without any uuid column default and rely on the BeforeCreate hooks.
func TestSQLiteSchemaAndIDHooks(t *testing.T) {
	t.Parallel()

	dsn := "file:models_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&User{}, &Product{}, &Customer{}, &Sale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prod := &Product{
		OwnerID:       uuid.New(),
		Name:          "DAP",
		Category:      "phosphate",
		Unit:          enums.ProductUnitBag,
		PurchasePrice: decimal.NewFromInt(900),
		SellingPrice:  decimal.NewFromInt(950),
		Stock:         5,
	}
	if err := conn.Create(prod).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if prod.ID == uuid.Nil {
		t.Fatal("expected hook to assign product id")
	}

	presetID := uuid.New()
	user := &User{ID: presetID, Email: strPtr("a@b.example")}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID != presetID {
		t.Fatalf("expected preset id preserved, got %s", user.ID)
	}
}

func strPtr(s string) *string { return &s }
