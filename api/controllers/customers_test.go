package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	customersvc "github.com/agriferti/agriferti-backend/internal/customers"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

type stubCustomerService struct {
	dto  *customersvc.CustomerDTO
	list []customersvc.CustomerDTO
	err  error

	gotOwner uuid.UUID
	gotInput customersvc.CreateCustomerInput
}

func (s *stubCustomerService) CreateCustomer(_ context.Context, ownerID uuid.UUID, input customersvc.CreateCustomerInput) (*customersvc.CustomerDTO, error) {
	s.gotOwner = ownerID
	s.gotInput = input
	return s.dto, s.err
}

func (s *stubCustomerService) GetCustomer(_ context.Context, ownerID, _ uuid.UUID) (*customersvc.CustomerDTO, error) {
	s.gotOwner = ownerID
	return s.dto, s.err
}

func (s *stubCustomerService) ListCustomers(_ context.Context, ownerID uuid.UUID) ([]customersvc.CustomerDTO, error) {
	s.gotOwner = ownerID
	return s.list, s.err
}

func TestCreateCustomerSuccess(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubCustomerService{dto: &customersvc.CustomerDTO{ID: uuid.New(), Name: "Ravi"}}
	handler := CreateCustomer(svc, nil)

	body := `{"name":"Ravi","city":"Nashik","address":"Main Rd","purchase_date":"2025-03-17","purchased_product":"Urea 46%","quantity":5}`
	req := authedRequest(http.MethodPost, "/api/v1/customers", body, ownerID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotOwner != ownerID {
		t.Fatalf("expected owner from context, got %s", svc.gotOwner)
	}
	if svc.gotInput.PurchaseDate.IsZero() {
		t.Fatalf("expected purchase date parsed")
	}
}

func TestCreateCustomerRejectsBadDate(t *testing.T) {
	handler := CreateCustomer(&stubCustomerService{}, nil)

	body := `{"name":"Ravi","city":"Nashik","address":"Main Rd","purchase_date":"17/03/2025","quantity":1}`
	req := authedRequest(http.MethodPost, "/api/v1/customers", body, uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := &stubCustomerService{err: pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")}
	handler := GetCustomer(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/customers/x", "", uuid.New())
	req = withURLParam(req, "id", uuid.NewString())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestListCustomersSuccess(t *testing.T) {
	svc := &stubCustomerService{list: []customersvc.CustomerDTO{{ID: uuid.New()}}}
	handler := ListCustomers(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/customers", "", uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []customersvc.CustomerDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 customer got %d", len(envelope.Data))
	}
}
