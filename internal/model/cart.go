package model

// CartItem represents a single line in a session cart.
// ID doubles as the product SKU; synthetic lines added by order bumps
// carry the "order-bump-" prefix.
type CartItem struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

// CustomerInfo is the checkout contact block captured alongside the cart.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
}

// CartSummary is the derived view of a cart: totals are recomputed on
// every read, never stored.
type CartSummary struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
	// External reports whether the cart originated outside this
	// application (landing-page origin).
	External bool   `json:"external"`
	Source   string `json:"source,omitempty"`
}
