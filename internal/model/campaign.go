package model

import (
	"time"

	"github.com/google/uuid"
)

// Scheduled email statuses.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// MaxEmailAttempts bounds retries for a scheduled email.
const MaxEmailAttempts = 3

// ScheduledEmail is a queued campaign or transactional email.
type ScheduledEmail struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Recipient string     `json:"recipient" db:"recipient"`
	Subject   string     `json:"subject" db:"subject"`
	Body      string     `json:"body" db:"body"`
	SendAt    time.Time  `json:"sendAt" db:"send_at"`
	Status    string     `json:"status" db:"status"`
	Attempts  int        `json:"attempts" db:"attempts"`
	LastError *string    `json:"lastError,omitempty" db:"last_error"`
	SentAt    *time.Time `json:"sentAt,omitempty" db:"sent_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// Tag labels customers for segmentation.
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color,omitempty" db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// TagAssignment links a tag to a customer email.
type TagAssignment struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TagID         uuid.UUID `json:"tagId" db:"tag_id"`
	CustomerEmail string    `json:"customerEmail" db:"customer_email"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Automation enqueues a templated email some delay after a tag is
// applied to a customer.
type Automation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	TriggerTagID uuid.UUID `json:"triggerTagId" db:"trigger_tag_id"`
	Subject      string    `json:"subject" db:"subject"`
	Body         string    `json:"body" db:"body"`
	DelayMinutes int       `json:"delayMinutes" db:"delay_minutes"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
