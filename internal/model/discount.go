package model

import (
	"time"

	"github.com/google/uuid"
)

// Discount code types.
const (
	DiscountTypePercentage  = "percentage"
	DiscountTypeFixedAmount = "fixed_amount"
)

// DiscountCode represents a promotional code applied at checkout.
type DiscountCode struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Code        string     `json:"code" db:"code"`
	Type        string     `json:"type" db:"type"`
	Value       float64    `json:"value" db:"value"`
	MaxUses     *int       `json:"maxUses,omitempty" db:"max_uses"`
	CurrentUses int        `json:"currentUses" db:"current_uses"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// DiscountCodeRequest is the admin payload for creating a discount code.
type DiscountCodeRequest struct {
	Code      string     `json:"code"`
	Type      string     `json:"type"`
	Value     float64    `json:"value"`
	MaxUses   *int       `json:"maxUses,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
