package cart

import (
	"fmt"
	"regexp"

	"tenera-store/internal/model"
)

// Bounds for externally sourced cart payloads. Anything pushed over
// the bridge or carried in a URL passes through ValidateItems before
// it can replace a session cart.
const (
	maxCartItems = 50
	maxItemName  = 200
	maxQuantity  = 100
	maxPrice     = 10_000_000
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// ValidateItems checks an externally sourced cart array against the
// schema gate. The first offending item fails the whole payload.
func ValidateItems(items []model.CartItem) error {
	if len(items) > maxCartItems {
		return fmt.Errorf("%d items exceeds limit of %d: %w", len(items), maxCartItems, model.ErrCartTooLarge)
	}

	for i, item := range items {
		if err := validateItem(item); err != nil {
			return fmt.Errorf("item %d (%q): %w", i, item.ID, err)
		}
	}

	return nil
}

func validateItem(item model.CartItem) error {
	if !skuPattern.MatchString(item.ID) {
		return fmt.Errorf("bad id: %w", model.ErrInvalidCartItem)
	}
	// SKU defaults to the id upstream; when present it obeys the same pattern.
	if item.SKU != "" && !skuPattern.MatchString(item.SKU) {
		return fmt.Errorf("bad sku: %w", model.ErrInvalidCartItem)
	}
	if item.Name == "" || len(item.Name) > maxItemName {
		return fmt.Errorf("bad name: %w", model.ErrInvalidCartItem)
	}
	if item.Price <= 0 || item.Price > maxPrice {
		return fmt.Errorf("bad price %v: %w", item.Price, model.ErrInvalidCartItem)
	}
	if item.Quantity < 1 || item.Quantity > maxQuantity {
		return fmt.Errorf("bad quantity %d: %w", item.Quantity, model.ErrInvalidQuantity)
	}
	return nil
}
