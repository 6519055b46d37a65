package mailer

import (
	"context"
	"time"

	"tenera-store/internal/config"
	"tenera-store/internal/repository"

	"github.com/rs/zerolog"
)

// Dispatcher sweeps the scheduled-email queue on an interval and
// delivers whatever is due. Claiming and sending are decoupled so a
// crash between the two at worst re-sends after the attempt counter
// runs out, never loses an email.
type Dispatcher struct {
	repo      repository.EmailRepository
	sender    Sender
	interval  time.Duration
	batchSize int
	logger    zerolog.Logger
}

// NewDispatcher creates a queue dispatcher.
func NewDispatcher(repo repository.EmailRepository, sender Sender, cfg config.EmailConfig, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		sender:    sender,
		interval:  time.Duration(cfg.PollInterval) * time.Second,
		batchSize: cfg.BatchSize,
		logger:    logger.With().Str("component", "email-dispatcher").Logger(),
	}
}

// Run sweeps the queue until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info().
		Dur("interval", d.interval).
		Int("batch_size", d.batchSize).
		Msg("email dispatcher started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("email dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			d.sweep(ctx)
		}
	}
}

// sweep claims one batch of due emails and delivers them sequentially.
func (d *Dispatcher) sweep(ctx context.Context) {
	claimed, err := d.repo.ClaimDue(ctx, d.batchSize, time.Now().UTC())
	if err != nil {
		d.logger.Error().Err(err).Msg("failed to claim due emails")
		return
	}
	if len(claimed) == 0 {
		return
	}

	d.logger.Debug().Int("count", len(claimed)).Msg("processing due emails")

	for _, email := range claimed {
		if err := d.sender.Send(ctx, email.Recipient, email.Subject, email.Body); err != nil {
			d.logger.Warn().
				Err(err).
				Str("email_id", email.ID.String()).
				Int("attempts", email.Attempts).
				Msg("email delivery failed")

			if markErr := d.repo.MarkFailed(ctx, email.ID, err.Error()); markErr != nil {
				d.logger.Error().Err(markErr).Str("email_id", email.ID.String()).Msg("failed to record delivery failure")
			}
			continue
		}

		if err := d.repo.MarkSent(ctx, email.ID, time.Now().UTC()); err != nil {
			d.logger.Error().Err(err).Str("email_id", email.ID.String()).Msg("failed to mark email sent")
		}
	}
}
