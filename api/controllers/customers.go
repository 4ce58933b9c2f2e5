package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agriferti/agriferti-backend/api/responses"
	"github.com/agriferti/agriferti-backend/api/validators"
	customersvc "github.com/agriferti/agriferti-backend/internal/customers"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
	"github.com/agriferti/agriferti-backend/pkg/logger"
)

func CreateCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.CreateCustomer(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customer)
	}
}

func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), ownerID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}

func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customers, err := svc.ListCustomers(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customers)
	}
}

type createCustomerRequest struct {
	Name             string  `json:"name" validate:"required"`
	City             string  `json:"city" validate:"required"`
	Address          string  `json:"address" validate:"required"`
	PhoneNumber      *string `json:"phone_number,omitempty"`
	PurchaseDate     string  `json:"purchase_date,omitempty"`
	PurchasedProduct string  `json:"purchased_product"`
	Quantity         int     `json:"quantity" validate:"min=0"`
}

func (r createCustomerRequest) toCreateInput() (customersvc.CreateCustomerInput, error) {
	input := customersvc.CreateCustomerInput{
		Name:             r.Name,
		City:             r.City,
		Address:          r.Address,
		PhoneNumber:      r.PhoneNumber,
		PurchasedProduct: r.PurchasedProduct,
		Quantity:         r.Quantity,
	}

	if r.PurchaseDate != "" {
		date, err := time.Parse("2006-01-02", r.PurchaseDate)
		if err != nil {
			return customersvc.CreateCustomerInput{}, pkgerrors.New(pkgerrors.CodeValidation, "purchase_date must be in YYYY-MM-DD format").WithDetails(map[string]any{"field": "purchase_date"})
		}
		input.PurchaseDate = date
	}

	return input, nil
}
