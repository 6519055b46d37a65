package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const pgUniqueViolation = "23505"

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create inserts a confirmed order with its items snapshot. The unique
// constraint on payment_reference makes duplicate webhook deliveries a
// detectable no-op.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to serialise order items: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, customer_name, customer_email, customer_phone, delivery_address,
			items, subtotal, discount_code, discount_amount, total,
			payment_reference, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.pool.Exec(ctx, query,
		order.ID, order.CustomerName, order.CustomerEmail, order.CustomerPhone, order.DeliveryAddress,
		items, order.Subtotal, order.DiscountCode, order.DiscountAmount, order.Total,
		order.PaymentReference, order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn().
				Str("payment_reference", order.PaymentReference).
				Msg("order with this payment reference already exists")
			return model.ErrDuplicateReference
		}
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("payment_reference", order.PaymentReference).
		Msg("order created successfully")

	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByReference retrieves an order by its payment reference.
func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	return r.getOne(ctx, `WHERE payment_reference = $1`, reference)
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any) (*model.Order, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_phone, delivery_address,
		       items, subtotal, discount_code, discount_amount, total,
		       payment_reference, status, invoice_key, created_at, updated_at
		FROM orders ` + where

	order, err := scanOrder(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return order, nil
}

// List retrieves orders, optionally filtered by status, newest first.
func (r *orderRepository) List(ctx context.Context, status string, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT id, customer_name, customer_email, customer_phone, delivery_address,
		       items, subtotal, discount_code, discount_amount, total,
		       payment_reference, status, invoice_key, created_at, updated_at
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("status", status).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus moves an order to a new status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// SetInvoiceKey records the storage key of a generated invoice.
func (r *orderRepository) SetInvoiceKey(ctx context.Context, id uuid.UUID, key string) error {
	query := `UPDATE orders SET invoice_key = $2, updated_at = now() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, key); err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to set invoice key")
		return fmt.Errorf("failed to set invoice key: %w", err)
	}

	return nil
}

// scanOrder reads one order row, decoding the jsonb items snapshot.
func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		order model.Order
		items []byte
	)
	err := row.Scan(
		&order.ID, &order.CustomerName, &order.CustomerEmail, &order.CustomerPhone, &order.DeliveryAddress,
		&items, &order.Subtotal, &order.DiscountCode, &order.DiscountAmount, &order.Total,
		&order.PaymentReference, &order.Status, &order.InvoiceKey, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return &order, nil
}
