package service

import (
	"context"
	"testing"
	"time"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCampaignService_ApplyTagFiresAutomations(t *testing.T) {
	tagID := uuid.New()
	automation := model.Automation{
		ID:           uuid.New(),
		Name:         "welcome-series",
		TriggerTagID: tagID,
		Subject:      "Welcome to Tenera",
		Body:         "Thanks for joining us.",
		DelayMinutes: 30,
		IsActive:     true,
	}

	tags := new(MockTagRepository)
	tags.On("Assign", mock.Anything, tagID, "ada@example.com").Return(true, nil)
	tags.On("ActiveAutomationsForTag", mock.Anything, tagID).Return([]model.Automation{automation}, nil)

	before := time.Now().UTC()

	emails := new(MockEmailRepository)
	emails.On("Enqueue", mock.Anything, mock.MatchedBy(func(e *model.ScheduledEmail) bool {
		return e.Recipient == "ada@example.com" &&
			e.Subject == "Welcome to Tenera" &&
			e.SendAt.After(before.Add(29*time.Minute)) &&
			e.Status == model.EmailStatusPending
	})).Return(nil)

	svc := NewCampaignService(tags, emails, nil, zerolog.Nop())

	// Addresses are canonicalised before assignment.
	err := svc.ApplyTag(context.Background(), tagID, "  Ada@Example.com ")
	require.NoError(t, err)

	tags.AssertExpectations(t)
	emails.AssertExpectations(t)
}

func TestCampaignService_ReapplyTagSkipsAutomations(t *testing.T) {
	tagID := uuid.New()

	tags := new(MockTagRepository)
	tags.On("Assign", mock.Anything, tagID, "ada@example.com").Return(false, nil)

	emails := new(MockEmailRepository)

	svc := NewCampaignService(tags, emails, nil, zerolog.Nop())

	err := svc.ApplyTag(context.Background(), tagID, "ada@example.com")
	require.NoError(t, err)

	tags.AssertNotCalled(t, "ActiveAutomationsForTag")
	emails.AssertNotCalled(t, "Enqueue")
}

func TestCampaignService_ApplyTagRequiresEmail(t *testing.T) {
	svc := NewCampaignService(new(MockTagRepository), new(MockEmailRepository), nil, zerolog.Nop())

	err := svc.ApplyTag(context.Background(), uuid.New(), "   ")
	require.Error(t, err)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)
}

func TestCampaignService_ScheduleEmail(t *testing.T) {
	emails := new(MockEmailRepository)
	emails.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	svc := NewCampaignService(new(MockTagRepository), emails, nil, zerolog.Nop())

	before := time.Now().UTC()
	email, err := svc.ScheduleEmail(context.Background(), "ada@example.com", "Hello", "Body", 15)
	require.NoError(t, err)

	assert.Equal(t, model.EmailStatusPending, email.Status)
	assert.True(t, email.SendAt.After(before.Add(14*time.Minute)))

	// Negative delays clamp to "send now".
	immediate, err := svc.ScheduleEmail(context.Background(), "ada@example.com", "Hello", "Body", -5)
	require.NoError(t, err)
	assert.False(t, immediate.SendAt.After(time.Now().UTC().Add(time.Minute)))
}

func TestCampaignService_SendWhatsAppUnconfigured(t *testing.T) {
	svc := NewCampaignService(new(MockTagRepository), new(MockEmailRepository), nil, zerolog.Nop())

	err := svc.SendWhatsApp(context.Background(), "+2348000000000", "hi")
	assert.Error(t, err)
}
