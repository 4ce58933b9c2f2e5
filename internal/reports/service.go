package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	customer "github.com/agriferti/agriferti-backend/internal/customers"
	product "github.com/agriferti/agriferti-backend/internal/products"
	sale "github.com/agriferti/agriferti-backend/internal/sales"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

// Period selects the calendar bucket a report covers.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod validates a query-string period value.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return Period(raw), nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "period must be one of daily, monthly, yearly")
}

// Matches reports whether the sale date falls in the same calendar bucket as
// the reference date.
func (p Period) Matches(saleDate, ref time.Time) bool {
	switch p {
	case PeriodDaily:
		return saleDate.Year() == ref.Year() && saleDate.YearDay() == ref.YearDay()
	case PeriodMonthly:
		return saleDate.Year() == ref.Year() && saleDate.Month() == ref.Month()
	case PeriodYearly:
		return saleDate.Year() == ref.Year()
	}
	return false
}

// SalesReportDTO is the filtered list plus its totals.
type SalesReportDTO struct {
	Period       Period          `json:"period"`
	Date         string          `json:"date"`
	Sales        []sale.SaleDTO  `json:"sales"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	TotalCount   int             `json:"total_count"`
}

// ProductProfitDTO ranks one product by accumulated profit.
type ProductProfitDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

// CityStatDTO aggregates customers per city.
type CityStatDTO struct {
	City      string `json:"city"`
	Customers int64  `json:"customers"`
	Quantity  int    `json:"quantity"`
}

// BestCustomerDTO is the single largest buyer by quantity.
type BestCustomerDTO struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Quantity int    `json:"quantity"`
}

// MonthlyRevenueDTO is one point of the trend series.
type MonthlyRevenueDTO struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// DashboardDTO bundles the aggregate view of the whole business.
type DashboardDTO struct {
	TotalRevenue   decimal.Decimal     `json:"total_revenue"`
	TotalProfit    decimal.Decimal     `json:"total_profit"`
	TotalSales     int                 `json:"total_sales"`
	StockValue     decimal.Decimal     `json:"stock_value"`
	ProductProfits []ProductProfitDTO  `json:"product_profits"`
	CityStats      []CityStatDTO       `json:"city_stats"`
	BestCustomer   *BestCustomerDTO    `json:"best_customer,omitempty"`
	MonthlyRevenue []MonthlyRevenueDTO `json:"monthly_revenue"`
}

// Service derives reports from owner-scoped data. All methods are reads.
type Service interface {
	SalesReport(ctx context.Context, ownerID uuid.UUID, period Period, date time.Time) (*SalesReportDTO, error)
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardDTO, error)
	ExportSalesCSV(ctx context.Context, ownerID uuid.UUID, period Period, date time.Time) ([]byte, error)
}

type service struct {
	saleRepo     *sale.Repository
	productRepo  *product.Repository
	customerRepo *customer.Repository
}

// NewService constructs the report service.
func NewService(saleRepo *sale.Repository, productRepo *product.Repository, customerRepo *customer.Repository) (Service, error) {
	if saleRepo == nil {
		return nil, errors.New("sale repository required")
	}
	if productRepo == nil {
		return nil, errors.New("product repository required")
	}
	if customerRepo == nil {
		return nil, errors.New("customer repository required")
	}
	return &service{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
	}, nil
}

// SalesReport filters the owner's sales to the calendar bucket around date
// and totals revenue and profit.
func (s *service) SalesReport(ctx context.Context, ownerID uuid.UUID, period Period, date time.Time) (*SalesReportDTO, error) {
	rows, err := s.ownedSales(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	report := &SalesReportDTO{
		Period:       period,
		Date:         date.Format("2006-01-02"),
		Sales:        []sale.SaleDTO{},
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	for i := range rows {
		if !period.Matches(rows[i].Date, date) {
			continue
		}
		report.Sales = append(report.Sales, *sale.NewSaleDTO(&rows[i]))
		report.TotalRevenue = report.TotalRevenue.Add(rows[i].TotalRevenue)
		report.TotalProfit = report.TotalProfit.Add(rows[i].TotalProfit)
	}
	report.TotalCount = len(report.Sales)
	return report, nil
}

// Dashboard aggregates totals, stock value, product profit ranking, per-city
// stats, the best customer, and the current year's monthly trend.
func (s *service) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardDTO, error) {
	rows, err := s.ownedSales(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	customers, err := s.customerRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}

	dash := &DashboardDTO{
		TotalRevenue:   decimal.Zero,
		TotalProfit:    decimal.Zero,
		TotalSales:     len(rows),
		StockValue:     decimal.Zero,
		ProductProfits: []ProductProfitDTO{},
		CityStats:      []CityStatDTO{},
		MonthlyRevenue: monthlySeries(rows, time.Now().UTC().Year()),
	}

	profitByProduct := map[uuid.UUID]*ProductProfitDTO{}
	for i := range rows {
		row := &rows[i]
		dash.TotalRevenue = dash.TotalRevenue.Add(row.TotalRevenue)
		dash.TotalProfit = dash.TotalProfit.Add(row.TotalProfit)

		entry, ok := profitByProduct[row.ProductID]
		if !ok {
			entry = &ProductProfitDTO{
				ProductID:   row.ProductID,
				ProductName: row.ProductName,
				Revenue:     decimal.Zero,
				Profit:      decimal.Zero,
			}
			profitByProduct[row.ProductID] = entry
		}
		entry.Quantity += row.Quantity
		entry.Revenue = entry.Revenue.Add(row.TotalRevenue)
		entry.Profit = entry.Profit.Add(row.TotalProfit)
	}
	for _, entry := range profitByProduct {
		dash.ProductProfits = append(dash.ProductProfits, *entry)
	}
	sort.Slice(dash.ProductProfits, func(i, j int) bool {
		if !dash.ProductProfits[i].Profit.Equal(dash.ProductProfits[j].Profit) {
			return dash.ProductProfits[i].Profit.GreaterThan(dash.ProductProfits[j].Profit)
		}
		return dash.ProductProfits[i].ProductName < dash.ProductProfits[j].ProductName
	})

	for i := range products {
		value := products[i].PurchasePrice.Mul(decimal.NewFromInt(int64(products[i].Stock)))
		dash.StockValue = dash.StockValue.Add(value)
	}

	cityIndex := map[string]*CityStatDTO{}
	var best *BestCustomerDTO
	for i := range customers {
		c := &customers[i]
		stat, ok := cityIndex[c.City]
		if !ok {
			stat = &CityStatDTO{City: c.City}
			cityIndex[c.City] = stat
		}
		stat.Customers++
		stat.Quantity += c.Quantity

		if best == nil || c.Quantity > best.Quantity {
			best = &BestCustomerDTO{Name: c.Name, City: c.City, Quantity: c.Quantity}
		}
	}
	for _, stat := range cityIndex {
		dash.CityStats = append(dash.CityStats, *stat)
	}
	sort.Slice(dash.CityStats, func(i, j int) bool {
		if dash.CityStats[i].Customers != dash.CityStats[j].Customers {
			return dash.CityStats[i].Customers > dash.CityStats[j].Customers
		}
		return dash.CityStats[i].City < dash.CityStats[j].City
	})
	dash.BestCustomer = best

	return dash, nil
}

func (s *service) ownedSales(ctx context.Context, ownerID uuid.UUID) ([]sale.SaleRow, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	rows, err := s.saleRepo.ListByOwner(ctx, ownerID, sale.ListFilter{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}
	return rows, nil
}

func monthlySeries(rows []sale.SaleRow, year int) []MonthlyRevenueDTO {
	series := make([]MonthlyRevenueDTO, 12)
	for m := 0; m < 12; m++ {
		series[m] = MonthlyRevenueDTO{
			Month:   time.Month(m + 1).String(),
			Revenue: decimal.Zero,
			Profit:  decimal.Zero,
		}
	}
	for i := range rows {
		if rows[i].Date.Year() != year {
			continue
		}
		m := int(rows[i].Date.Month()) - 1
		series[m].Revenue = series[m].Revenue.Add(rows[i].TotalRevenue)
		series[m].Profit = series[m].Profit.Add(rows[i].TotalProfit)
	}
	return series
}
