package repository

import (
	"context"
	"errors"
	"fmt"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// discountRepository implements the DiscountRepository interface using PostgreSQL.
type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

const discountColumns = `id, code, type, value, max_uses, current_uses, is_active, expires_at, created_at`

// GetByCode retrieves a discount code by its code string.
func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes WHERE code = $1`

	var dc model.DiscountCode
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&dc.ID, &dc.Code, &dc.Type, &dc.Value, &dc.MaxUses, &dc.CurrentUses, &dc.IsActive, &dc.ExpiresAt, &dc.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount code")
		return nil, fmt.Errorf("failed to query discount code: %w", err)
	}

	return &dc, nil
}

// List retrieves all discount codes.
func (r *discountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	query := `SELECT ` + discountColumns + ` FROM discount_codes ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discount codes")
		return nil, fmt.Errorf("failed to query discount codes: %w", err)
	}
	defer rows.Close()

	var codes []model.DiscountCode
	for rows.Next() {
		var dc model.DiscountCode
		err := rows.Scan(&dc.ID, &dc.Code, &dc.Type, &dc.Value, &dc.MaxUses, &dc.CurrentUses, &dc.IsActive, &dc.ExpiresAt, &dc.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan discount row")
			return nil, fmt.Errorf("failed to scan discount code: %w", err)
		}
		codes = append(codes, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount codes: %w", err)
	}

	return codes, nil
}

// Create inserts a new discount code.
func (r *discountRepository) Create(ctx context.Context, dc *model.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, code, type, value, max_uses, current_uses, is_active, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		dc.ID, dc.Code, dc.Type, dc.Value, dc.MaxUses, dc.CurrentUses, dc.IsActive, dc.ExpiresAt, dc.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn().Str("code", dc.Code).Msg("discount code already exists")
			return model.ErrDiscountCodeExists
		}
		r.logger.Error().Err(err).Str("code", dc.Code).Msg("failed to create discount code")
		return fmt.Errorf("failed to create discount code: %w", err)
	}

	return nil
}

// Update replaces a code's mutable fields, the code string included,
// so a rename persists.
func (r *discountRepository) Update(ctx context.Context, dc *model.DiscountCode) error {
	query := `
		UPDATE discount_codes
		SET code = $2, type = $3, value = $4, max_uses = $5, is_active = $6, expires_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, dc.ID, dc.Code, dc.Type, dc.Value, dc.MaxUses, dc.IsActive, dc.ExpiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.logger.Warn().Str("code", dc.Code).Msg("discount code already taken")
			return model.ErrDiscountCodeExists
		}
		r.logger.Error().Err(err).Str("code", dc.Code).Msg("failed to update discount code")
		return fmt.Errorf("failed to update discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

// Delete removes a discount code.
func (r *discountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("discount_id", id.String()).Msg("failed to delete discount code")
		return fmt.Errorf("failed to delete discount code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountNotFound
	}

	return nil
}

// IncrementUsage bumps current_uses by one. The WHERE guard makes the
// increment atomic with the exhaustion check, so two concurrent paid
// orders cannot push a code past its limit.
func (r *discountRepository) IncrementUsage(ctx context.Context, code string) error {
	query := `
		UPDATE discount_codes
		SET current_uses = current_uses + 1
		WHERE code = $1
		  AND (max_uses IS NULL OR current_uses < max_uses)
	`

	tag, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment discount usage")
		return fmt.Errorf("failed to increment discount usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrDiscountExhausted
	}

	return nil
}
