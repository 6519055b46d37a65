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

// tagRepository implements the TagRepository interface using PostgreSQL.
type tagRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTagRepository creates a new PostgreSQL-backed tag repository.
func NewTagRepository(pool *pgxpool.Pool, logger zerolog.Logger) TagRepository {
	return &tagRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "tag").Logger(),
	}
}

// List retrieves all tags.
func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query tags")
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, nil
}

// Create inserts a new tag.
func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	query := `INSERT INTO tags (id, name, color, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, tag.ID, tag.Name, tag.Color, tag.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("name", tag.Name).Msg("failed to create tag")
		return fmt.Errorf("failed to create tag: %w", err)
	}

	return nil
}

// Delete removes a tag; assignments cascade.
func (r *tagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("tag_id", id.String()).Msg("failed to delete tag")
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Assign links a tag to a customer email. ON CONFLICT keeps the
// operation idempotent; the return reports whether a new row landed.
func (r *tagRepository) Assign(ctx context.Context, tagID uuid.UUID, customerEmail string) (bool, error) {
	query := `
		INSERT INTO tag_assignments (id, tag_id, customer_email, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (tag_id, customer_email) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, uuid.New(), tagID, customerEmail)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("tag_id", tagID.String()).
			Str("customer_email", customerEmail).
			Msg("failed to assign tag")
		return false, fmt.Errorf("failed to assign tag: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Unassign removes a tag from a customer email.
func (r *tagRepository) Unassign(ctx context.Context, tagID uuid.UUID, customerEmail string) error {
	query := `DELETE FROM tag_assignments WHERE tag_id = $1 AND customer_email = $2`

	if _, err := r.pool.Exec(ctx, query, tagID, customerEmail); err != nil {
		r.logger.Error().Err(err).Str("tag_id", tagID.String()).Msg("failed to unassign tag")
		return fmt.Errorf("failed to unassign tag: %w", err)
	}

	return nil
}

const automationColumns = `id, name, trigger_tag_id, subject, body, delay_minutes, is_active, created_at`

// ListAutomations retrieves all automations.
func (r *tagRepository) ListAutomations(ctx context.Context) ([]model.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations ORDER BY created_at DESC`
	return r.queryAutomations(ctx, query)
}

// ActiveAutomationsForTag retrieves active automations triggered by the
// given tag.
func (r *tagRepository) ActiveAutomationsForTag(ctx context.Context, tagID uuid.UUID) ([]model.Automation, error) {
	query := `SELECT ` + automationColumns + ` FROM automations WHERE trigger_tag_id = $1 AND is_active`
	return r.queryAutomations(ctx, query, tagID)
}

func (r *tagRepository) queryAutomations(ctx context.Context, query string, args ...any) ([]model.Automation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query automations")
		return nil, fmt.Errorf("failed to query automations: %w", err)
	}
	defer rows.Close()

	var automations []model.Automation
	for rows.Next() {
		var a model.Automation
		err := rows.Scan(&a.ID, &a.Name, &a.TriggerTagID, &a.Subject, &a.Body, &a.DelayMinutes, &a.IsActive, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}
		automations = append(automations, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating automations: %w", err)
	}

	return automations, nil
}

// CreateAutomation inserts a new automation.
func (r *tagRepository) CreateAutomation(ctx context.Context, a *model.Automation) error {
	query := `
		INSERT INTO automations (id, name, trigger_tag_id, subject, body, delay_minutes, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query, a.ID, a.Name, a.TriggerTagID, a.Subject, a.Body, a.DelayMinutes, a.IsActive, a.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", a.Name).Msg("failed to create automation")
		return fmt.Errorf("failed to create automation: %w", err)
	}

	return nil
}

// DeleteAutomation removes an automation.
func (r *tagRepository) DeleteAutomation(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM automations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("automation_id", id.String()).Msg("failed to delete automation")
		return fmt.Errorf("failed to delete automation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}
