package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/agriferti/agriferti-backend/pkg/db/models"
)

// CustomerDTO represents the customer payload returned to clients.
type CustomerDTO struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	Address          string    `json:"address"`
	PhoneNumber      *string   `json:"phone_number,omitempty"`
	PurchaseDate     string    `json:"purchase_date"`
	PurchasedProduct string    `json:"purchased_product"`
	Quantity         int       `json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewCustomerDTO builds a DTO from the persisted model.
func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:               customer.ID,
		Name:             customer.Name,
		City:             customer.City,
		Address:          customer.Address,
		PhoneNumber:      customer.PhoneNumber,
		PurchaseDate:     customer.PurchaseDate.Format("2006-01-02"),
		PurchasedProduct: customer.PurchasedProduct,
		Quantity:         customer.Quantity,
		CreatedAt:        customer.CreatedAt,
	}
}

// NewCustomerDTOs maps a slice of models preserving order.
func NewCustomerDTOs(customers []models.Customer) []CustomerDTO {
	out := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		out = append(out, *NewCustomerDTO(&customers[i]))
	}
	return out
}
