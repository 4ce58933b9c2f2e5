package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agriferti/agriferti-backend/api/responses"
	"github.com/agriferti/agriferti-backend/api/validators"
	reportsvc "github.com/agriferti/agriferti-backend/internal/reports"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
	"github.com/agriferti/agriferti-backend/pkg/logger"
)

func SalesReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		period, date, err := reportWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.SalesReport(r.Context(), ownerID, period, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func ExportSalesCSV(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		period, date, err := reportWindow(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := svc.ExportSalesCSV(r.Context(), ownerID, period, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filename := fmt.Sprintf("sales_%s_%s.csv", period, date.Format("2006-01-02"))
		responses.WriteCSV(w, filename, payload)
	}
}

func Dashboard(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := ownerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dashboard, err := svc.Dashboard(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dashboard)
	}
}

// reportWindow reads the period and anchor date query parameters. Both are
// optional: period defaults to daily, date to today.
func reportWindow(r *http.Request) (reportsvc.Period, time.Time, error) {
	period := reportsvc.PeriodDaily
	if raw := strings.TrimSpace(r.URL.Query().Get("period")); raw != "" {
		parsed, err := reportsvc.ParsePeriod(raw)
		if err != nil {
			return "", time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid period").WithDetails(map[string]any{"field": "period"})
		}
		period = parsed
	}

	date, err := validators.ParseQueryDate(r, "date")
	if err != nil {
		return "", time.Time{}, err
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	return period, date, nil
}
