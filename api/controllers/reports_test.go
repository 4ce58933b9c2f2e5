package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	reportsvc "github.com/agriferti/agriferti-backend/internal/reports"
)

type stubReportService struct {
	report    *reportsvc.SalesReportDTO
	dashboard *reportsvc.DashboardDTO
	csv       []byte
	err       error

	gotOwner  uuid.UUID
	gotPeriod reportsvc.Period
	gotDate   time.Time
}

func (s *stubReportService) SalesReport(_ context.Context, ownerID uuid.UUID, period reportsvc.Period, date time.Time) (*reportsvc.SalesReportDTO, error) {
	s.gotOwner = ownerID
	s.gotPeriod = period
	s.gotDate = date
	return s.report, s.err
}

func (s *stubReportService) Dashboard(_ context.Context, ownerID uuid.UUID) (*reportsvc.DashboardDTO, error) {
	s.gotOwner = ownerID
	return s.dashboard, s.err
}

func (s *stubReportService) ExportSalesCSV(_ context.Context, ownerID uuid.UUID, period reportsvc.Period, date time.Time) ([]byte, error) {
	s.gotOwner = ownerID
	s.gotPeriod = period
	s.gotDate = date
	return s.csv, s.err
}

func TestSalesReportDefaultsToDailyToday(t *testing.T) {
	svc := &stubReportService{report: &reportsvc.SalesReportDTO{}}
	handler := SalesReport(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/sales", "", uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotPeriod != reportsvc.PeriodDaily {
		t.Fatalf("expected daily default, got %s", svc.gotPeriod)
	}
	if svc.gotDate.IsZero() {
		t.Fatalf("expected anchor date defaulted to now")
	}
}

func TestSalesReportParsesPeriodAndDate(t *testing.T) {
	svc := &stubReportService{report: &reportsvc.SalesReportDTO{}}
	handler := SalesReport(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/sales?period=monthly&date=2025-03-17", "", uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotPeriod != reportsvc.PeriodMonthly {
		t.Fatalf("expected monthly, got %s", svc.gotPeriod)
	}
	if svc.gotDate.Format("2006-01-02") != "2025-03-17" {
		t.Fatalf("unexpected date %s", svc.gotDate)
	}
}

func TestSalesReportRejectsUnknownPeriod(t *testing.T) {
	handler := SalesReport(&stubReportService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/sales?period=weekly", "", uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestExportSalesCSVWritesAttachment(t *testing.T) {
	svc := &stubReportService{csv: []byte("Date,Product,Quantity,Revenue,Profit\n")}
	handler := ExportSalesCSV(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/sales/export?period=yearly&date=2025-01-01", "", uuid.New())
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "sales_yearly_2025-01-01.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "Date,Product") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestDashboardSuccess(t *testing.T) {
	ownerID := uuid.New()
	svc := &stubReportService{dashboard: &reportsvc.DashboardDTO{}}
	handler := Dashboard(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/dashboard", "", ownerID)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotOwner != ownerID {
		t.Fatalf("expected owner forwarded, got %s", svc.gotOwner)
	}
}
