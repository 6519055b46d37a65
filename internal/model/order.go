package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Transitions are pending -> paid -> fulfilled, with
// cancelled reachable from any state.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFulfilled = "fulfilled"
	OrderStatusCancelled = "cancelled"
)

// Order represents a customer order written after payment confirmation.
type Order struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	CustomerName     string     `json:"customerName" db:"customer_name"`
	CustomerEmail    string     `json:"customerEmail" db:"customer_email"`
	CustomerPhone    string     `json:"customerPhone" db:"customer_phone"`
	DeliveryAddress  string     `json:"deliveryAddress" db:"delivery_address"`
	Items            []CartItem `json:"items" db:"items"`
	Subtotal         float64    `json:"subtotal" db:"subtotal"`
	DiscountCode     *string    `json:"discountCode,omitempty" db:"discount_code"`
	DiscountAmount   float64    `json:"discountAmount" db:"discount_amount"`
	Total            float64    `json:"total" db:"total"`
	PaymentReference string     `json:"paymentReference" db:"payment_reference"`
	Status           string     `json:"status" db:"status"`
	InvoiceKey       *string    `json:"invoiceKey,omitempty" db:"invoice_key"`
	CreatedAt        time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time  `json:"updatedAt" db:"updated_at"`
}

// ValidStatusTransition reports whether an order may move between the
// two statuses.
func ValidStatusTransition(from, to string) bool {
	if to == OrderStatusCancelled {
		return from != OrderStatusCancelled
	}
	switch from {
	case OrderStatusPending:
		return to == OrderStatusPaid
	case OrderStatusPaid:
		return to == OrderStatusFulfilled
	}
	return false
}
