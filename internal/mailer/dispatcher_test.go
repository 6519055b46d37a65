package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tenera-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmailRepository struct {
	mock.Mock
}

func (m *mockEmailRepository) Enqueue(ctx context.Context, email *model.ScheduledEmail) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *mockEmailRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]model.ScheduledEmail, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduledEmail), args.Error(1)
}

func (m *mockEmailRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *mockEmailRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
	fail map[string]error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeSender) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestDispatcher(repo *mockEmailRepository, sender Sender) *Dispatcher {
	return &Dispatcher{
		repo:      repo,
		sender:    sender,
		interval:  10 * time.Millisecond,
		batchSize: 10,
		logger:    zerolog.Nop(),
	}
}

func TestDispatcher_SweepSendsAndMarks(t *testing.T) {
	due := []model.ScheduledEmail{
		{ID: uuid.New(), Recipient: "ada@example.com", Subject: "Hi", Body: "One"},
		{ID: uuid.New(), Recipient: "bola@example.com", Subject: "Hi", Body: "Two"},
	}

	repo := new(mockEmailRepository)
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return(due, nil).Once()
	repo.On("MarkSent", mock.Anything, due[0].ID, mock.Anything).Return(nil).Once()
	repo.On("MarkSent", mock.Anything, due[1].ID, mock.Anything).Return(nil).Once()

	sender := &fakeSender{}
	d := newTestDispatcher(repo, sender)

	d.sweep(context.Background())

	assert.Equal(t, []string{"ada@example.com", "bola@example.com"}, sender.sentTo())
	repo.AssertExpectations(t)
}

func TestDispatcher_SweepRecordsFailures(t *testing.T) {
	due := []model.ScheduledEmail{
		{ID: uuid.New(), Recipient: "down@example.com", Subject: "Hi", Body: "One"},
		{ID: uuid.New(), Recipient: "up@example.com", Subject: "Hi", Body: "Two"},
	}

	repo := new(mockEmailRepository)
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return(due, nil).Once()
	repo.On("MarkFailed", mock.Anything, due[0].ID, "mailbox unavailable").Return(nil).Once()
	repo.On("MarkSent", mock.Anything, due[1].ID, mock.Anything).Return(nil).Once()

	sender := &fakeSender{fail: map[string]error{
		"down@example.com": errors.New("mailbox unavailable"),
	}}
	d := newTestDispatcher(repo, sender)

	// One failure must not stop the rest of the batch.
	d.sweep(context.Background())

	assert.Equal(t, []string{"up@example.com"}, sender.sentTo())
	repo.AssertExpectations(t)
}

func TestDispatcher_SweepEmptyQueue(t *testing.T) {
	repo := new(mockEmailRepository)
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]model.ScheduledEmail{}, nil).Once()

	sender := &fakeSender{}
	d := newTestDispatcher(repo, sender)

	d.sweep(context.Background())

	assert.Empty(t, sender.sentTo())
	repo.AssertExpectations(t)
}

func TestDispatcher_RunStopsOnCancel(t *testing.T) {
	repo := new(mockEmailRepository)
	repo.On("ClaimDue", mock.Anything, 10, mock.Anything).Return([]model.ScheduledEmail{}, nil).Maybe()

	d := newTestDispatcher(repo, &fakeSender{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := d.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
