package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
)

var csvHeader = []string{"Date", "Product", "Quantity", "Revenue", "Profit"}

// ExportSalesCSV renders the filtered sales report as CSV, one row per sale
// plus a trailing totals row.
func (s *service) ExportSalesCSV(ctx context.Context, ownerID uuid.UUID, period Period, date time.Time) ([]byte, error) {
	report, err := s.SalesReport(ctx, ownerID, period, date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv header")
	}
	for _, row := range report.Sales {
		record := []string{
			row.Date,
			row.ProductName,
			strconv.Itoa(row.Quantity),
			row.TotalRevenue.StringFixed(2),
			row.TotalProfit.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv row")
		}
	}
	totals := []string{
		"Total",
		"",
		strconv.Itoa(report.TotalCount),
		report.TotalRevenue.StringFixed(2),
		report.TotalProfit.StringFixed(2),
	}
	if err := w.Write(totals); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv totals")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flushing csv")
	}
	return buf.Bytes(), nil
}
