package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agriferti/agriferti-backend/pkg/db/models"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

// Service exposes customer reads and standalone creation. Customers that come
// out of a sale are created inside the sale transaction, not here.
type Service interface {
	CreateCustomer(ctx context.Context, ownerID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error)
	GetCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]CustomerDTO, error)
}

// CreateCustomerInput holds the validated payload to record a customer.
type CreateCustomerInput struct {
	Name             string
	City             string
	Address          string
	PhoneNumber      *string
	PurchaseDate     time.Time
	PurchasedProduct string
	Quantity         int
}

type service struct {
	repo *Repository
}

// NewService constructs a customer service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("customer repository required")
	}
	return &service{repo: repo}, nil
}

// CreateCustomer validates and inserts a customer row under ownerID.
func (s *service) CreateCustomer(ctx context.Context, ownerID uuid.UUID, input CreateCustomerInput) (*CustomerDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	record, err := BuildCustomer(ownerID, input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
	}
	return NewCustomerDTO(created), nil
}

// GetCustomer returns a single customer owned by ownerID.
func (s *service) GetCustomer(ctx context.Context, ownerID, customerID uuid.UUID) (*CustomerDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByOwner(ctx, ownerID, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return NewCustomerDTO(customer), nil
}

// ListCustomers returns every customer owned by ownerID.
func (s *service) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]CustomerDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner identity missing")
	}
	customers, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return NewCustomerDTOs(customers), nil
}

// BuildCustomer validates the input and produces an unsaved customer model.
// The sale engine reuses this so both creation paths share one rulebook.
func BuildCustomer(ownerID uuid.UUID, input CreateCustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer city is required")
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer address is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	purchaseDate := input.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now().UTC()
	}
	var phone *string
	if input.PhoneNumber != nil {
		trimmed := strings.TrimSpace(*input.PhoneNumber)
		if trimmed != "" {
			phone = &trimmed
		}
	}
	return &models.Customer{
		OwnerID:          ownerID,
		Name:             name,
		City:             city,
		Address:          address,
		PhoneNumber:      phone,
		PurchaseDate:     purchaseDate,
		PurchasedProduct: strings.TrimSpace(input.PurchasedProduct),
		Quantity:         input.Quantity,
	}, nil
}
