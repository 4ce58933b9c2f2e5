package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/agriferti/agriferti-backend/api/responses"
	"github.com/agriferti/agriferti-backend/api/validators"
	salesvc "github.com/agriferti/agriferti-backend/internal/sales"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
	"github.com/agriferti/agriferti-backend/pkg/logger"
)

// RecordSale runs the atomic sale transaction: customer row, stock decrement
// and sale row commit or roll back together.
func RecordSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload recordSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecordSale(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sales, err := svc.ListSales(r.Context(), ownerID, salesvc.ListFilter{
			From:      from,
			To:        to,
			ProductID: productID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sales)
	}
}

type recordSaleRequest struct {
	ProductID string              `json:"product_id" validate:"required"`
	Quantity  int                 `json:"quantity" validate:"required,min=1"`
	Date      string              `json:"date,omitempty"`
	Customer  saleCustomerRequest `json:"customer" validate:"required"`
}

type saleCustomerRequest struct {
	Name        string  `json:"name" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Address     string  `json:"address" validate:"required"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

func (r recordSaleRequest) toInput() (salesvc.RecordSaleInput, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return salesvc.RecordSaleInput{}, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid UUID").WithDetails(map[string]any{"field": "product_id"})
	}

	input := salesvc.RecordSaleInput{
		ProductID: productID,
		Quantity:  r.Quantity,
		Customer: salesvc.CustomerInput{
			Name:        r.Customer.Name,
			City:        r.Customer.City,
			Address:     r.Customer.Address,
			PhoneNumber: r.Customer.PhoneNumber,
		},
	}

	if r.Date != "" {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return salesvc.RecordSaleInput{}, pkgerrors.New(pkgerrors.CodeValidation, "date must be in YYYY-MM-DD format").WithDetails(map[string]any{"field": "date"})
		}
		input.Date = date
	}

	return input, nil
}
