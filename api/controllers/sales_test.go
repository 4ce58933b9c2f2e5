package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	salesvc "github.com/agriferti/agriferti-backend/internal/sales"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

type stubSaleService struct {
	result *salesvc.RecordSaleResult
	list   []salesvc.SaleDTO
	err    error

	gotOwner  uuid.UUID
	gotInput  salesvc.RecordSaleInput
	gotFilter salesvc.ListFilter
}

func (s *stubSaleService) RecordSale(_ context.Context, ownerID uuid.UUID, input salesvc.RecordSaleInput) (*salesvc.RecordSaleResult, error) {
	s.gotOwner = ownerID
	s.gotInput = input
	return s.result, s.err
}

func (s *stubSaleService) ListSales(_ context.Context, ownerID uuid.UUID, filter salesvc.ListFilter) ([]salesvc.SaleDTO, error) {
	s.gotOwner = ownerID
	s.gotFilter = filter
	return s.list, s.err
}

func TestRecordSaleSuccess(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	svc := &stubSaleService{result: &salesvc.RecordSaleResult{RemainingStock: 35}}
	handler := RecordSale(svc, nil)

	body := `{"product_id":"` + productID.String() + `","quantity":5,"date":"2025-03-17","customer":{"name":"Ravi","city":"Nashik","address":"Main Rd"}}`
	req := authedRequest(http.MethodPost, "/api/v1/sales", body, ownerID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotOwner != ownerID {
		t.Fatalf("owner must come from the verified credential, got %s", svc.gotOwner)
	}
	if svc.gotInput.ProductID != productID || svc.gotInput.Quantity != 5 {
		t.Fatalf("unexpected input %+v", svc.gotInput)
	}
	if svc.gotInput.Customer.Name != "Ravi" {
		t.Fatalf("expected customer name forwarded, got %q", svc.gotInput.Customer.Name)
	}

	var envelope struct {
		Data salesvc.RecordSaleResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RemainingStock != 35 {
		t.Fatalf("expected remaining stock 35 got %d", envelope.Data.RemainingStock)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for requested quantity").
		WithDetails(map[string]any{"available": 2, "requested": 8})
	handler := RecordSale(&stubSaleService{err: err}, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":8,"customer":{"name":"Ravi","city":"Nashik","address":"Main Rd"}}`
	req := authedRequest(http.MethodPost, "/api/v1/sales", body, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
	if payload.Error.Details["available"] == nil {
		t.Fatalf("expected stock details in payload")
	}
}

func TestRecordSaleRejectsBadProductID(t *testing.T) {
	handler := RecordSale(&stubSaleService{}, nil)

	body := `{"product_id":"not-a-uuid","quantity":1,"customer":{"name":"Ravi","city":"Nashik","address":"Main Rd"}}`
	req := authedRequest(http.MethodPost, "/api/v1/sales", body, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRecordSaleMissingOwnerContext(t *testing.T) {
	handler := RecordSale(&stubSaleService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestListSalesForwardsFilters(t *testing.T) {
	ownerID := uuid.New()
	productID := uuid.New()
	svc := &stubSaleService{list: []salesvc.SaleDTO{}}
	handler := ListSales(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/sales?from=2025-03-01&to=2025-03-31&product_id="+productID.String(), "", ownerID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotFilter.ProductID != productID {
		t.Fatalf("expected product filter forwarded, got %s", svc.gotFilter.ProductID)
	}
	if svc.gotFilter.From.IsZero() || svc.gotFilter.To.IsZero() {
		t.Fatalf("expected date filters forwarded, got %+v", svc.gotFilter)
	}
}

func TestListSalesRejectsBadDate(t *testing.T) {
	handler := ListSales(&stubSaleService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/sales?from=March-1", "", uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestRecordSaleRequiresCustomerLocation(t *testing.T) {
	svc := &stubSaleService{}
	handler := RecordSale(svc, nil)

	body := `{"product_id":"` + uuid.NewString() + `","quantity":2,"customer":{"name":"Ravi"}}`
	req := authedRequest(http.MethodPost, "/api/v1/sales", body, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing city and address, got %d", rec.Code)
	}
	if svc.gotOwner != uuid.Nil {
		t.Fatalf("service must not be invoked on invalid payload")
	}
}
