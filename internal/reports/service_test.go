package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	customer "github.com/agriferti/agriferti-backend/internal/customers"
	product "github.com/agriferti/agriferti-backend/internal/products"
	sale "github.com/agriferti/agriferti-backend/internal/sales"
	"github.com/agriferti/agriferti-backend/pkg/db/models"
	"github.com/agriferti/agriferti-backend/pkg/enums"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

type fixture struct {
	db    *gorm.DB
	svc   Service
	owner uuid.UUID
	prod  *models.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Customer{}, &models.Sale{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc, err := NewService(sale.NewRepository(conn), product.NewRepository(conn), customer.NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	owner := uuid.New()
	prod := &models.Product{
		OwnerID:       owner,
		Name:          "Urea 46%",
		Category:      "nitrogen",
		Unit:          enums.ProductUnitBag,
		PurchasePrice: decimal.NewFromInt(1100),
		SellingPrice:  decimal.NewFromInt(1150),
		Stock:         20,
	}
	if err := conn.Create(prod).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return fixture{db: conn, svc: svc, owner: owner, prod: prod}
}

func (f fixture) seedSale(t *testing.T, date time.Time, qty int, revenue, profit int64) {
	t.Helper()
	cust := &models.Customer{
		OwnerID:          f.owner,
		Name:             "Ali Raza",
		City:             "Multan",
		PurchaseDate:     date,
		PurchasedProduct: f.prod.Name,
		Quantity:         qty,
	}
	if err := f.db.Create(cust).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	s := &models.Sale{
		OwnerID:      f.owner,
		ProductID:    f.prod.ID,
		CustomerID:   cust.ID,
		Quantity:     qty,
		Date:         date,
		TotalRevenue: decimal.NewFromInt(revenue),
		TotalProfit:  decimal.NewFromInt(profit),
	}
	if err := f.db.Create(s).Error; err != nil {
		t.Fatalf("seed sale: %v", err)
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"daily", "monthly", "yearly"} {
		if _, err := ParsePeriod(valid); err != nil {
			t.Errorf("expected %q to parse, got %v", valid, err)
		}
	}
	_, err := ParsePeriod("weekly")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for weekly, got %v", err)
	}
}

func TestSalesReportBucketsByPeriod(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ref := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	f.seedSale(t, ref, 5, 5750, 250)
	f.seedSale(t, ref.AddDate(0, 0, -1), 2, 2300, 100)
	f.seedSale(t, ref.AddDate(0, -2, 0), 1, 1150, 50)
	f.seedSale(t, ref.AddDate(-1, 0, 0), 1, 1150, 50)

	daily, err := f.svc.SalesReport(context.Background(), f.owner, PeriodDaily, ref)
	if err != nil {
		t.Fatalf("daily report: %v", err)
	}
	if daily.TotalCount != 1 || !daily.TotalRevenue.Equal(decimal.NewFromInt(5750)) {
		t.Fatalf("unexpected daily report: count=%d revenue=%s", daily.TotalCount, daily.TotalRevenue)
	}

	monthly, err := f.svc.SalesReport(context.Background(), f.owner, PeriodMonthly, ref)
	if err != nil {
		t.Fatalf("monthly report: %v", err)
	}
	if monthly.TotalCount != 2 || !monthly.TotalRevenue.Equal(decimal.NewFromInt(8050)) {
		t.Fatalf("unexpected monthly report: count=%d revenue=%s", monthly.TotalCount, monthly.TotalRevenue)
	}

	yearly, err := f.svc.SalesReport(context.Background(), f.owner, PeriodYearly, ref)
	if err != nil {
		t.Fatalf("yearly report: %v", err)
	}
	if yearly.TotalCount != 3 || !yearly.TotalProfit.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("unexpected yearly report: count=%d profit=%s", yearly.TotalCount, yearly.TotalProfit)
	}
}

func TestSalesReportIsOwnerScoped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ref := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	f.seedSale(t, ref, 5, 5750, 250)

	report, err := f.svc.SalesReport(context.Background(), uuid.New(), PeriodYearly, ref)
	if err != nil {
		t.Fatalf("foreign report: %v", err)
	}
	if report.TotalCount != 0 {
		t.Fatalf("expected empty report for foreign owner, got %d sales", report.TotalCount)
	}
}

func TestDashboardAggregates(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	year := time.Now().UTC().Year()
	f.seedSale(t, time.Date(year, 3, 10, 0, 0, 0, 0, time.UTC), 5, 5750, 250)
	f.seedSale(t, time.Date(year, 3, 20, 0, 0, 0, 0, time.UTC), 2, 2300, 100)

	dash, err := f.svc.Dashboard(context.Background(), f.owner)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if dash.TotalSales != 2 || !dash.TotalRevenue.Equal(decimal.NewFromInt(8050)) || !dash.TotalProfit.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("unexpected totals: %+v", dash)
	}
	// 20 units at purchase price 1100
	if !dash.StockValue.Equal(decimal.NewFromInt(22000)) {
		t.Fatalf("expected stock value 22000, got %s", dash.StockValue)
	}
	if len(dash.ProductProfits) != 1 || dash.ProductProfits[0].Quantity != 7 {
		t.Fatalf("unexpected product profits: %+v", dash.ProductProfits)
	}
	if len(dash.CityStats) != 1 || dash.CityStats[0].City != "Multan" || dash.CityStats[0].Customers != 2 {
		t.Fatalf("unexpected city stats: %+v", dash.CityStats)
	}
	if dash.BestCustomer == nil || dash.BestCustomer.Quantity != 5 {
		t.Fatalf("unexpected best customer: %+v", dash.BestCustomer)
	}

	march := dash.MonthlyRevenue[2]
	if march.Month != "March" || !march.Revenue.Equal(decimal.NewFromInt(8050)) {
		t.Fatalf("unexpected march trend: %+v", march)
	}
	if !dash.MonthlyRevenue[0].Revenue.IsZero() {
		t.Fatalf("expected empty january, got %+v", dash.MonthlyRevenue[0])
	}
}

func TestExportSalesCSV(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ref := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	f.seedSale(t, ref, 5, 5750, 250)

	out, err := f.svc.ExportSalesCSV(context.Background(), f.owner, PeriodDaily, ref)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, one row, and totals, got %d lines", len(lines))
	}
	if lines[0] != "Date,Product,Quantity,Revenue,Profit" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Urea 46%") || !strings.Contains(lines[1], "5750.00") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Total,") {
		t.Fatalf("expected totals row, got %q", lines[2])
	}
}
