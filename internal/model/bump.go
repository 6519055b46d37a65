package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderBumpPrefix marks synthetic cart lines materialised from an
// accepted order bump.
const OrderBumpPrefix = "order-bump-"

// OrderBump is a single-click add-on offer shown during checkout.
type OrderBump struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	OriginalPrice   float64   `json:"originalPrice" db:"original_price"`
	DiscountedPrice *float64  `json:"discountedPrice,omitempty" db:"discounted_price"`
	ImageURL        string    `json:"imageUrl,omitempty" db:"image_url"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	MinCartValue    *float64  `json:"minCartValue,omitempty" db:"min_cart_value"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// OfferPrice returns the price a bump sells at: the discounted price
// when set, the original price otherwise.
func (b *OrderBump) OfferPrice() float64 {
	if b.DiscountedPrice != nil {
		return *b.DiscountedPrice
	}
	return b.OriginalPrice
}

// CartItem materialises the bump as a synthetic cart line. Quantity is
// pinned to 1; accepting the same bump twice must not double it.
func (b *OrderBump) CartItem() CartItem {
	return CartItem{
		ID:          OrderBumpPrefix + b.ID.String(),
		SKU:         OrderBumpPrefix + b.ID.String(),
		Name:        b.Title,
		Price:       b.OfferPrice(),
		Quantity:    1,
		Image:       b.ImageURL,
		Description: b.Description,
	}
}

// UpsellProduct is a post-checkout offer managed from the admin screens.
type UpsellProduct struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl,omitempty" db:"image_url"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	SortOrder   int       `json:"sortOrder" db:"sort_order"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
