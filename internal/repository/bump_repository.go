package repository

import (
	"context"
	"fmt"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// bumpRepository implements the BumpRepository interface using PostgreSQL.
type bumpRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBumpRepository creates a new PostgreSQL-backed bump repository.
func NewBumpRepository(pool *pgxpool.Pool, logger zerolog.Logger) BumpRepository {
	return &bumpRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "bump").Logger(),
	}
}

const bumpColumns = `id, title, description, original_price, discounted_price, image_url, is_active, min_cart_value, created_at`

func scanBump(row pgx.Row) (*model.OrderBump, error) {
	var b model.OrderBump
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.OriginalPrice, &b.DiscountedPrice, &b.ImageURL, &b.IsActive, &b.MinCartValue, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListActive retrieves active bumps ordered by minimum cart value.
func (r *bumpRepository) ListActive(ctx context.Context) ([]model.OrderBump, error) {
	query := `
		SELECT ` + bumpColumns + `
		FROM order_bumps
		WHERE is_active
		ORDER BY min_cart_value NULLS FIRST, created_at
	`
	return r.queryBumps(ctx, query)
}

// List retrieves all bumps for the admin screens.
func (r *bumpRepository) List(ctx context.Context) ([]model.OrderBump, error) {
	query := `SELECT ` + bumpColumns + ` FROM order_bumps ORDER BY created_at DESC`
	return r.queryBumps(ctx, query)
}

func (r *bumpRepository) queryBumps(ctx context.Context, query string) ([]model.OrderBump, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order bumps")
		return nil, fmt.Errorf("failed to query order bumps: %w", err)
	}
	defer rows.Close()

	var bumps []model.OrderBump
	for rows.Next() {
		bump, err := scanBump(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan bump row")
			return nil, fmt.Errorf("failed to scan order bump: %w", err)
		}
		bumps = append(bumps, *bump)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order bumps: %w", err)
	}

	return bumps, nil
}

// GetByID retrieves a single bump.
func (r *bumpRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderBump, error) {
	query := `SELECT ` + bumpColumns + ` FROM order_bumps WHERE id = $1`

	bump, err := scanBump(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("bump_id", id.String()).Msg("failed to query order bump")
		return nil, fmt.Errorf("failed to query order bump: %w", err)
	}

	return bump, nil
}

// Create inserts a new bump.
func (r *bumpRepository) Create(ctx context.Context, bump *model.OrderBump) error {
	query := `
		INSERT INTO order_bumps (id, title, description, original_price, discounted_price, image_url, is_active, min_cart_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		bump.ID, bump.Title, bump.Description, bump.OriginalPrice, bump.DiscountedPrice,
		bump.ImageURL, bump.IsActive, bump.MinCartValue, bump.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("bump_id", bump.ID.String()).Msg("failed to create order bump")
		return fmt.Errorf("failed to create order bump: %w", err)
	}

	return nil
}

// Update replaces a bump's mutable fields.
func (r *bumpRepository) Update(ctx context.Context, bump *model.OrderBump) error {
	query := `
		UPDATE order_bumps
		SET title = $2, description = $3, original_price = $4, discounted_price = $5,
		    image_url = $6, is_active = $7, min_cart_value = $8
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		bump.ID, bump.Title, bump.Description, bump.OriginalPrice, bump.DiscountedPrice,
		bump.ImageURL, bump.IsActive, bump.MinCartValue,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("bump_id", bump.ID.String()).Msg("failed to update order bump")
		return fmt.Errorf("failed to update order bump: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete removes a bump.
func (r *bumpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM order_bumps WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("bump_id", id.String()).Msg("failed to delete order bump")
		return fmt.Errorf("failed to delete order bump: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// ListUpsells retrieves upsell products, optionally only active ones.
func (r *bumpRepository) ListUpsells(ctx context.Context, activeOnly bool) ([]model.UpsellProduct, error) {
	query := `
		SELECT id, name, description, price, image_url, is_active, sort_order, created_at
		FROM upsell_products
		WHERE ($1 = false OR is_active)
		ORDER BY sort_order, created_at
	`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query upsell products")
		return nil, fmt.Errorf("failed to query upsell products: %w", err)
	}
	defer rows.Close()

	var upsells []model.UpsellProduct
	for rows.Next() {
		var up model.UpsellProduct
		err := rows.Scan(&up.ID, &up.Name, &up.Description, &up.Price, &up.ImageURL, &up.IsActive, &up.SortOrder, &up.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan upsell row")
			return nil, fmt.Errorf("failed to scan upsell product: %w", err)
		}
		upsells = append(upsells, up)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upsell products: %w", err)
	}

	return upsells, nil
}

// CreateUpsell inserts a new upsell product.
func (r *bumpRepository) CreateUpsell(ctx context.Context, up *model.UpsellProduct) error {
	query := `
		INSERT INTO upsell_products (id, name, description, price, image_url, is_active, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		up.ID, up.Name, up.Description, up.Price, up.ImageURL, up.IsActive, up.SortOrder, up.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("upsell_id", up.ID.String()).Msg("failed to create upsell product")
		return fmt.Errorf("failed to create upsell product: %w", err)
	}

	return nil
}

// UpdateUpsell replaces an upsell product's mutable fields.
func (r *bumpRepository) UpdateUpsell(ctx context.Context, up *model.UpsellProduct) error {
	query := `
		UPDATE upsell_products
		SET name = $2, description = $3, price = $4, image_url = $5, is_active = $6, sort_order = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, up.ID, up.Name, up.Description, up.Price, up.ImageURL, up.IsActive, up.SortOrder)
	if err != nil {
		r.logger.Error().Err(err).Str("upsell_id", up.ID.String()).Msg("failed to update upsell product")
		return fmt.Errorf("failed to update upsell product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// DeleteUpsell removes an upsell product.
func (r *bumpRepository) DeleteUpsell(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM upsell_products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("upsell_id", id.String()).Msg("failed to delete upsell product")
		return fmt.Errorf("failed to delete upsell product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
