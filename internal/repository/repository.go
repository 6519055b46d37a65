package repository

import (
	"context"
	"time"

	"tenera-store/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID (SKU).
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces a product's mutable fields.
	Update(ctx context.Context, product *model.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts a confirmed order with its items snapshot.
	// A duplicate payment reference returns model.ErrDuplicateReference.
	Create(ctx context.Context, order *model.Order) error

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByReference retrieves an order by its payment reference.
	GetByReference(ctx context.Context, reference string) (*model.Order, error)

	// List retrieves orders, optionally filtered by status, newest first.
	List(ctx context.Context, status string, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// SetInvoiceKey records the storage key of a generated invoice.
	SetInvoiceKey(ctx context.Context, id uuid.UUID, key string) error
}

// DiscountRepository defines the interface for discount code access.
type DiscountRepository interface {
	// GetByCode retrieves a discount code by its code string.
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)

	// List retrieves all discount codes.
	List(ctx context.Context) ([]model.DiscountCode, error)

	// Create inserts a new discount code.
	Create(ctx context.Context, dc *model.DiscountCode) error

	// Update replaces a code's mutable fields.
	Update(ctx context.Context, dc *model.DiscountCode) error

	// Delete removes a discount code.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage bumps current_uses by one, guarded so a code can
	// never exceed max_uses. Returns model.ErrDiscountExhausted when
	// the guard rejects the increment.
	IncrementUsage(ctx context.Context, code string) error
}

// BumpRepository defines the interface for order bumps and upsells.
type BumpRepository interface {
	// ListActive retrieves active bumps ordered by minimum cart value.
	ListActive(ctx context.Context) ([]model.OrderBump, error)

	// GetByID retrieves a single bump.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderBump, error)

	// List retrieves all bumps for the admin screens.
	List(ctx context.Context) ([]model.OrderBump, error)

	// Create inserts a new bump.
	Create(ctx context.Context, bump *model.OrderBump) error

	// Update replaces a bump's mutable fields.
	Update(ctx context.Context, bump *model.OrderBump) error

	// Delete removes a bump.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListUpsells retrieves upsell products, optionally only active ones.
	ListUpsells(ctx context.Context, activeOnly bool) ([]model.UpsellProduct, error)

	// CreateUpsell inserts a new upsell product.
	CreateUpsell(ctx context.Context, up *model.UpsellProduct) error

	// UpdateUpsell replaces an upsell product's mutable fields.
	UpdateUpsell(ctx context.Context, up *model.UpsellProduct) error

	// DeleteUpsell removes an upsell product.
	DeleteUpsell(ctx context.Context, id uuid.UUID) error
}

// TagRepository defines the interface for tags, assignments, and
// automations.
type TagRepository interface {
	// List retrieves all tags.
	List(ctx context.Context) ([]model.Tag, error)

	// Create inserts a new tag.
	Create(ctx context.Context, tag *model.Tag) error

	// Delete removes a tag and its assignments.
	Delete(ctx context.Context, id uuid.UUID) error

	// Assign links a tag to a customer email. Returns false when the
	// assignment already existed.
	Assign(ctx context.Context, tagID uuid.UUID, customerEmail string) (bool, error)

	// Unassign removes a tag from a customer email.
	Unassign(ctx context.Context, tagID uuid.UUID, customerEmail string) error

	// ListAutomations retrieves all automations.
	ListAutomations(ctx context.Context) ([]model.Automation, error)

	// ActiveAutomationsForTag retrieves active automations triggered by
	// the given tag.
	ActiveAutomationsForTag(ctx context.Context, tagID uuid.UUID) ([]model.Automation, error)

	// CreateAutomation inserts a new automation.
	CreateAutomation(ctx context.Context, a *model.Automation) error

	// DeleteAutomation removes an automation.
	DeleteAutomation(ctx context.Context, id uuid.UUID) error
}

// EmailRepository defines the interface for the scheduled-email queue.
type EmailRepository interface {
	// Enqueue inserts a pending email.
	Enqueue(ctx context.Context, email *model.ScheduledEmail) error

	// ClaimDue atomically claims up to limit due pending emails so
	// concurrent dispatchers never double-send.
	ClaimDue(ctx context.Context, limit int, now time.Time) ([]model.ScheduledEmail, error)

	// MarkSent finalises a successfully delivered email.
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error

	// MarkFailed records a delivery failure; the email returns to
	// pending until attempts reach the retry cap.
	MarkFailed(ctx context.Context, id uuid.UUID, sendErr string) error
}

// TrackingRepository defines the interface for campaign event logging.
type TrackingRepository interface {
	// Record inserts a tracking event.
	Record(ctx context.Context, event *model.TrackingEvent) error

	// Stats aggregates opens and clicks for a campaign.
	Stats(ctx context.Context, campaignID string) (*model.TrackingStats, error)
}

// UserRepository defines the interface for admin user management.
type UserRepository interface {
	// List retrieves all admin users with their roles.
	List(ctx context.Context) ([]model.AdminUser, error)

	// GetByID retrieves a single user with roles.
	GetByID(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)

	// Create inserts a new admin user.
	Create(ctx context.Context, user *model.AdminUser) error

	// GrantRole adds a role to a user; granting twice is a no-op.
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error

	// RevokeRole removes a role from a user.
	RevokeRole(ctx context.Context, userID uuid.UUID, role string) error
}
