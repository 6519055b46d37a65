package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tenera-store/internal/model"
	"tenera-store/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// campaignService implements the CampaignService interface.
type campaignService struct {
	tags     repository.TagRepository
	emails   repository.EmailRepository
	whatsapp WhatsAppSender
	logger   zerolog.Logger
}

// NewCampaignService creates a new campaign service. whatsapp may be
// nil when the channel is not configured.
func NewCampaignService(
	tags repository.TagRepository,
	emails repository.EmailRepository,
	whatsapp WhatsAppSender,
	logger zerolog.Logger,
) CampaignService {
	return &campaignService{
		tags:     tags,
		emails:   emails,
		whatsapp: whatsapp,
		logger:   logger.With().Str("service", "campaign").Logger(),
	}
}

// ApplyTag assigns a tag to a customer. Automations fire only on a
// fresh assignment: re-tagging an already tagged customer is a no-op
// so delayed emails never double up.
func (s *campaignService) ApplyTag(ctx context.Context, tagID uuid.UUID, customerEmail string) error {
	email := strings.ToLower(strings.TrimSpace(customerEmail))
	if email == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Customer email is required")
	}

	assigned, err := s.tags.Assign(ctx, tagID, email)
	if err != nil {
		return err
	}
	if !assigned {
		s.logger.Debug().
			Str("tag_id", tagID.String()).
			Str("customer_email", email).
			Msg("tag already assigned, automations skipped")
		return nil
	}

	automations, err := s.tags.ActiveAutomationsForTag(ctx, tagID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, a := range automations {
		queued := &model.ScheduledEmail{
			ID:        uuid.New(),
			Recipient: email,
			Subject:   a.Subject,
			Body:      a.Body,
			SendAt:    now.Add(time.Duration(a.DelayMinutes) * time.Minute),
			Status:    model.EmailStatusPending,
			CreatedAt: now,
		}
		if err := s.emails.Enqueue(ctx, queued); err != nil {
			return fmt.Errorf("failed to queue automation %s: %w", a.Name, err)
		}
	}

	s.logger.Info().
		Str("tag_id", tagID.String()).
		Str("customer_email", email).
		Int("automations", len(automations)).
		Msg("tag applied")

	return nil
}

// RemoveTag unassigns a tag.
func (s *campaignService) RemoveTag(ctx context.Context, tagID uuid.UUID, customerEmail string) error {
	return s.tags.Unassign(ctx, tagID, strings.ToLower(strings.TrimSpace(customerEmail)))
}

// ScheduleEmail queues a one-off email.
func (s *campaignService) ScheduleEmail(ctx context.Context, recipient, subject, body string, delayMinutes int) (*model.ScheduledEmail, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "Recipient is required")
	}
	if delayMinutes < 0 {
		delayMinutes = 0
	}

	now := time.Now().UTC()
	email := &model.ScheduledEmail{
		ID:        uuid.New(),
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		SendAt:    now.Add(time.Duration(delayMinutes) * time.Minute),
		Status:    model.EmailStatusPending,
		CreatedAt: now,
	}

	if err := s.emails.Enqueue(ctx, email); err != nil {
		return nil, err
	}
	return email, nil
}

// SendWhatsApp delivers a WhatsApp message immediately.
func (s *campaignService) SendWhatsApp(ctx context.Context, to, body string) error {
	if s.whatsapp == nil {
		return fmt.Errorf("whatsapp channel is not configured")
	}
	return s.whatsapp.Send(ctx, to, body)
}
