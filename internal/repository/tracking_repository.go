package repository

import (
	"context"
	"fmt"

	"tenera-store/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// trackingRepository implements the TrackingRepository interface using PostgreSQL.
type trackingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTrackingRepository creates a new PostgreSQL-backed tracking repository.
func NewTrackingRepository(pool *pgxpool.Pool, logger zerolog.Logger) TrackingRepository {
	return &trackingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "tracking").Logger(),
	}
}

// Record inserts a tracking event.
func (r *trackingRepository) Record(ctx context.Context, event *model.TrackingEvent) error {
	query := `
		INSERT INTO tracking_events (id, campaign_id, kind, target_url, user_agent, remote_addr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID, event.CampaignID, event.Kind, event.TargetURL, event.UserAgent, event.RemoteAddr, event.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("campaign_id", event.CampaignID).
			Str("kind", event.Kind).
			Msg("failed to record tracking event")
		return fmt.Errorf("failed to record tracking event: %w", err)
	}

	return nil
}

// Stats aggregates opens and clicks for a campaign.
func (r *trackingRepository) Stats(ctx context.Context, campaignID string) (*model.TrackingStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'open'),
			COUNT(*) FILTER (WHERE kind = 'click')
		FROM tracking_events
		WHERE campaign_id = $1
	`

	stats := model.TrackingStats{CampaignID: campaignID}
	err := r.pool.QueryRow(ctx, query, campaignID).Scan(&stats.Opens, &stats.Clicks)
	if err != nil {
		r.logger.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to aggregate tracking stats")
		return nil, fmt.Errorf("failed to aggregate tracking stats: %w", err)
	}

	return &stats, nil
}
