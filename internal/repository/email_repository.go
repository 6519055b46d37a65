package repository

import (
	"context"
	"fmt"
	"time"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// emailRepository implements the EmailRepository interface using PostgreSQL.
type emailRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewEmailRepository creates a new PostgreSQL-backed email queue repository.
func NewEmailRepository(pool *pgxpool.Pool, logger zerolog.Logger) EmailRepository {
	return &emailRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "email").Logger(),
	}
}

// Enqueue inserts a pending email.
func (r *emailRepository) Enqueue(ctx context.Context, email *model.ScheduledEmail) error {
	query := `
		INSERT INTO scheduled_emails (id, recipient, subject, body, send_at, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		email.ID, email.Recipient, email.Subject, email.Body, email.SendAt, email.Status, email.Attempts, email.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("recipient", email.Recipient).Msg("failed to enqueue email")
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	r.logger.Debug().
		Str("email_id", email.ID.String()).
		Time("send_at", email.SendAt).
		Msg("email enqueued")

	return nil
}

// ClaimDue bumps the attempt counter on up to limit due pending emails
// and returns them. SKIP LOCKED keeps concurrent dispatchers from
// claiming the same rows.
func (r *emailRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]model.ScheduledEmail, error) {
	query := `
		UPDATE scheduled_emails
		SET attempts = attempts + 1
		WHERE id IN (
			SELECT id FROM scheduled_emails
			WHERE status = $1 AND send_at <= $2
			ORDER BY send_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, recipient, subject, body, send_at, status, attempts, last_error, sent_at, created_at
	`

	rows, err := r.pool.Query(ctx, query, model.EmailStatusPending, now, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to claim due emails")
		return nil, fmt.Errorf("failed to claim due emails: %w", err)
	}
	defer rows.Close()

	var emails []model.ScheduledEmail
	for rows.Next() {
		var e model.ScheduledEmail
		err := rows.Scan(&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.SendAt, &e.Status, &e.Attempts, &e.LastError, &e.SentAt, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled email: %w", err)
		}
		emails = append(emails, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled emails: %w", err)
	}

	return emails, nil
}

// MarkSent finalises a successfully delivered email.
func (r *emailRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE scheduled_emails SET status = $2, sent_at = $3, last_error = NULL WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, model.EmailStatusSent, at); err != nil {
		r.logger.Error().Err(err).Str("email_id", id.String()).Msg("failed to mark email sent")
		return fmt.Errorf("failed to mark email sent: %w", err)
	}

	return nil
}

// MarkFailed records a delivery failure. The email stays pending until
// the attempt counter hits the retry cap, then moves to failed.
func (r *emailRepository) MarkFailed(ctx context.Context, id uuid.UUID, sendErr string) error {
	query := `
		UPDATE scheduled_emails
		SET last_error = $2,
		    status = CASE WHEN attempts >= $3 THEN 'failed' ELSE 'pending' END
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, id, sendErr, model.MaxEmailAttempts); err != nil {
		r.logger.Error().Err(err).Str("email_id", id.String()).Msg("failed to mark email failed")
		return fmt.Errorf("failed to mark email failed: %w", err)
	}

	return nil
}
