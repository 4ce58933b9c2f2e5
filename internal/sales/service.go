package sale

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	customer "github.com/agriferti/agriferti-backend/internal/customers"
	product "github.com/agriferti/agriferti-backend/internal/products"
	"github.com/agriferti/agriferti-backend/pkg/db/models"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
	"github.com/agriferti/agriferti-backend/pkg/logger"
	"github.com/agriferti/agriferti-backend/pkg/metrics"
)

// Service exposes the sale pipeline. RecordSale is the only write path that
// touches products, customers, and sales together.
type Service interface {
	RecordSale(ctx context.Context, ownerID uuid.UUID, input RecordSaleInput) (*RecordSaleResult, error)
	ListSales(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]SaleDTO, error)
}

// RecordSaleInput holds the validated payload to record a sale.
type RecordSaleInput struct {
	ProductID uuid.UUID
	Quantity  int
	Date      time.Time
	Customer  CustomerInput
}

// CustomerInput captures the buyer details supplied with each sale. A new
// customer row is created for every sale; there is no matching against
// previous buyers.
type CustomerInput struct {
	Name        string
	City        string
	Address     string
	PhoneNumber *string
}

// RecordSaleResult carries everything the transaction produced.
type RecordSaleResult struct {
	Sale           SaleDTO              `json:"sale"`
	Customer       customer.CustomerDTO `json:"customer"`
	RemainingStock int                  `json:"remaining_stock"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx           txRunner
	saleRepo     *Repository
	productRepo  *product.Repository
	customerRepo *customer.Repository
	metrics      *metrics.SaleMetrics
	logg         *logger.Logger
}

// NewService constructs the sale service.
func NewService(tx txRunner, saleRepo *Repository, productRepo *product.Repository, customerRepo *customer.Repository, saleMetrics *metrics.SaleMetrics, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, errors.New("transaction runner required")
	}
	if saleRepo == nil {
		return nil, errors.New("sale repository required")
	}
	if productRepo == nil {
		return nil, errors.New("product repository required")
	}
	if customerRepo == nil {
		return nil, errors.New("customer repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{
		tx:           tx,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		metrics:      saleMetrics,
		logg:         logg,
	}, nil
}

// RecordSale runs the sale transaction: create the customer, decrement stock,
// and insert the sale row. Either all three commit or none do. Revenue and
// profit are computed from the product's prices at this moment and never
// recomputed later.
func (s *service) RecordSale(ctx context.Context, ownerID uuid.UUID, input RecordSaleInput) (*RecordSaleResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	saleDate := input.Date
	if saleDate.IsZero() {
		saleDate = time.Now().UTC()
	}

	start := time.Now()
	var result *RecordSaleResult
	var unit string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		customerRepo := s.customerRepo.WithTx(tx)
		saleRepo := s.saleRepo.WithTx(tx)

		prod, err := productRepo.FindByOwner(ctx, ownerID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return err
		}

		unit = prod.Unit.String()

		if prod.Stock < input.Quantity {
			return insufficientStock(prod.Stock, input.Quantity)
		}

		record, err := customer.BuildCustomer(ownerID, customer.CreateCustomerInput{
			Name:             input.Customer.Name,
			City:             input.Customer.City,
			Address:          input.Customer.Address,
			PhoneNumber:      input.Customer.PhoneNumber,
			PurchaseDate:     saleDate,
			PurchasedProduct: prod.Name,
			Quantity:         input.Quantity,
		})
		if err != nil {
			return err
		}
		createdCustomer, err := customerRepo.Create(ctx, record)
		if err != nil {
			return err
		}

		// A concurrent sale may have drained the stock since the read above;
		// the guarded update catches that and aborts the whole transaction.
		ok, err := productRepo.DecrementStock(ctx, ownerID, prod.ID, input.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(prod.Stock, input.Quantity)
		}

		// Re-read after the guarded decrement so the reported stock reflects
		// any concurrent sale that committed since the first read.
		updated, err := productRepo.FindByOwner(ctx, ownerID, prod.ID)
		if err != nil {
			return err
		}

		qty := decimal.NewFromInt(int64(input.Quantity))
		revenue := prod.SellingPrice.Mul(qty)
		profit := prod.SellingPrice.Sub(prod.PurchasePrice).Mul(qty)

		createdSale, err := saleRepo.Create(ctx, &models.Sale{
			OwnerID:      ownerID,
			ProductID:    prod.ID,
			CustomerID:   createdCustomer.ID,
			Quantity:     input.Quantity,
			Date:         saleDate,
			TotalRevenue: revenue,
			TotalProfit:  profit,
		})
		if err != nil {
			return err
		}

		result = &RecordSaleResult{
			Sale: *NewSaleDTO(&SaleRow{
				Sale:        *createdSale,
				ProductName: prod.Name,
			}),
			Customer:       *customer.NewCustomerDTO(createdCustomer),
			RemainingStock: updated.Stock,
		}
		return nil
	})
	if err != nil {
		typed := pkgerrors.As(err)
		if typed == nil {
			typed = pkgerrors.Wrap(pkgerrors.CodeTransactionFailed, err, "sale transaction failed")
		}
		s.metrics.IncFailed(string(typed.Code()))
		s.metrics.ObserveTransaction("rolled_back", time.Since(start))
		s.logg.Warn(s.logg.WithOwnerID(ctx, ownerID.String()), "sale transaction rolled back: "+typed.Message())
		return nil, typed
	}

	s.metrics.IncRecorded(unit)
	s.metrics.ObserveTransaction("committed", time.Since(start))
	return result, nil
}

// ListSales returns the owner's sales with optional date and product filters.
func (s *service) ListSales(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]SaleDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range end precedes start")
	}
	rows, err := s.saleRepo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}
	return NewSaleDTOs(rows), nil
}

func insufficientStock(available, requested int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for requested quantity").
		WithDetails(map[string]any{
			"available": available,
			"requested": requested,
		})
}
