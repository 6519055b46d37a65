package cart

import (
	"context"

	"tenera-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service is the only component that mutates a session cart. Every
// mutation persists the whole array back through the store; totals are
// derived on read, never stored.
type Service struct {
	store  *Store
	logger zerolog.Logger
}

// NewService creates a cart service over the given store.
func NewService(store *Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

// Get returns the current cart with derived totals.
func (s *Service) Get(ctx context.Context, sessionID string) model.CartSummary {
	items, source := s.store.Load(ctx, sessionID)
	return summarise(items, source, s.store.ExternalMode(ctx, sessionID))
}

// AddItem merges the item into the cart. A line with the same id has
// its quantity summed in place, preserving position; otherwise the
// item is appended.
func (s *Service) AddItem(ctx context.Context, sessionID string, item model.CartItem) (model.CartSummary, error) {
	if err := validateItem(item); err != nil {
		return model.CartSummary{}, err
	}

	items, _ := s.store.Load(ctx, sessionID)
	items = mergeItem(items, item)
	s.store.Save(ctx, sessionID, items)

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("item_id", item.ID).
		Int("quantity", item.Quantity).
		Msg("item added to cart")

	return summarise(items, "", s.store.ExternalMode(ctx, sessionID)), nil
}

// RemoveItem drops the line with the given id. Removing an absent id
// is a no-op.
func (s *Service) RemoveItem(ctx context.Context, sessionID, itemID string) model.CartSummary {
	items, _ := s.store.Load(ctx, sessionID)

	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.store.Save(ctx, sessionID, kept)

	return summarise(kept, "", s.store.ExternalMode(ctx, sessionID))
}

// UpdateQuantity replaces the quantity of the line in place. A
// quantity of zero or less removes the line entirely.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (model.CartSummary, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID), nil
	}
	if quantity > maxQuantity {
		return model.CartSummary{}, model.ErrInvalidQuantity
	}

	items, _ := s.store.Load(ctx, sessionID)
	for i := range items {
		if items[i].ID == itemID {
			items[i].Quantity = quantity
			break
		}
	}
	s.store.Save(ctx, sessionID, items)

	return summarise(items, "", s.store.ExternalMode(ctx, sessionID)), nil
}

// Clear empties the cart, writing empty arrays to every storage key.
func (s *Service) Clear(ctx context.Context, sessionID string) model.CartSummary {
	s.store.Save(ctx, sessionID, []model.CartItem{})
	s.store.SetExternalMode(ctx, sessionID, false)
	return model.CartSummary{Items: []model.CartItem{}}
}

// Replace swaps the entire cart for an externally sourced array. No
// per-item merge happens: the most recently accepted source wins in
// full. Items must already have passed the schema gate.
func (s *Service) Replace(ctx context.Context, sessionID string, items []model.CartItem, external bool) model.CartSummary {
	s.store.Save(ctx, sessionID, items)
	s.store.SetExternalMode(ctx, sessionID, external)

	s.logger.Info().
		Str("session_id", sessionID).
		Int("item_count", len(items)).
		Bool("external", external).
		Msg("cart replaced")

	return summarise(items, "", external)
}

// mergeItem folds the new item into the slice, summing quantities on
// an id match and appending otherwise.
func mergeItem(items []model.CartItem, item model.CartItem) []model.CartItem {
	for i := range items {
		if items[i].ID == item.ID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// Total computes the cart total with exact decimal arithmetic.
func Total(items []model.CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

// ItemCount sums line quantities.
func ItemCount(items []model.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func summarise(items []model.CartItem, source string, external bool) model.CartSummary {
	if items == nil {
		items = []model.CartItem{}
	}
	return model.CartSummary{
		Items:     items,
		Total:     Total(items),
		ItemCount: ItemCount(items),
		External:  external,
		Source:    source,
	}
}
