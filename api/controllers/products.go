package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agriferti/agriferti-backend/api/middleware"
	"github.com/agriferti/agriferti-backend/api/responses"
	"github.com/agriferti/agriferti-backend/api/validators"
	productsvc "github.com/agriferti/agriferti-backend/internal/products"
	"github.com/agriferti/agriferti-backend/pkg/enums"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
	"github.com/agriferti/agriferti-backend/pkg/logger"
)

// ownerFromRequest resolves the authenticated owner seeded by the auth
// middleware. Identity never comes from the request payload.
func ownerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.OwnerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "owner context missing")
	}
	ownerID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid owner id")
	}
	return ownerID, nil
}

func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), ownerID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), ownerID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), ownerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

type createProductRequest struct {
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category" validate:"required"`
	Unit          string `json:"unit" validate:"required"`
	PurchasePrice string `json:"purchase_price" validate:"required"`
	SellingPrice  string `json:"selling_price" validate:"required"`
	Stock         int    `json:"stock" validate:"min=0"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	unit, err := enums.ParseProductUnit(strings.TrimSpace(r.Unit))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	purchase, err := parsePrice(r.PurchasePrice, "purchase_price")
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	selling, err := parsePrice(r.SellingPrice, "selling_price")
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	return productsvc.CreateProductInput{
		Name:          r.Name,
		Category:      r.Category,
		Unit:          unit,
		PurchasePrice: purchase,
		SellingPrice:  selling,
		Stock:         r.Stock,
	}, nil
}

type updateProductRequest struct {
	Name          *string `json:"name,omitempty"`
	Category      *string `json:"category,omitempty"`
	Unit          *string `json:"unit,omitempty"`
	PurchasePrice *string `json:"purchase_price,omitempty"`
	SellingPrice  *string `json:"selling_price,omitempty"`
	Stock         *int    `json:"stock,omitempty" validate:"omitempty,min=0"`
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:     r.Name,
		Category: r.Category,
		Stock:    r.Stock,
	}

	if r.Unit != nil {
		unit, err := enums.ParseProductUnit(strings.TrimSpace(*r.Unit))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}

	if r.PurchasePrice != nil {
		purchase, err := parsePrice(*r.PurchasePrice, "purchase_price")
		if err != nil {
			return productsvc.UpdateProductInput{}, err
		}
		input.PurchasePrice = &purchase
	}

	if r.SellingPrice != nil {
		selling, err := parsePrice(*r.SellingPrice, "selling_price")
		if err != nil {
			return productsvc.UpdateProductInput{}, err
		}
		input.SellingPrice = &selling
	}

	return input, nil
}

func parsePrice(raw, field string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number").WithDetails(map[string]any{"field": field})
	}
	if value.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
