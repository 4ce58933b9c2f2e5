package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleDTO represents the sale payload returned to clients.
type SaleDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	Quantity     int             `json:"quantity"`
	Date         string          `json:"date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewSaleDTO builds a DTO from a joined sale row.
func NewSaleDTO(row *SaleRow) *SaleDTO {
	return &SaleDTO{
		ID:           row.ID,
		ProductID:    row.ProductID,
		ProductName:  row.ProductName,
		CustomerID:   row.CustomerID,
		Quantity:     row.Quantity,
		Date:         row.Date.Format("2006-01-02"),
		TotalRevenue: row.TotalRevenue,
		TotalProfit:  row.TotalProfit,
		CreatedAt:    row.CreatedAt,
	}
}

// NewSaleDTOs maps joined rows preserving order.
func NewSaleDTOs(rows []SaleRow) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewSaleDTO(&rows[i]))
	}
	return out
}
