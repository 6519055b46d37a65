package model

import (
	"time"

	"github.com/google/uuid"
)

// Tracking event kinds.
const (
	TrackingEventOpen  = "open"
	TrackingEventClick = "click"
)

// TrackingEvent records a pixel open or link click for a campaign.
type TrackingEvent struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CampaignID string    `json:"campaignId" db:"campaign_id"`
	Kind       string    `json:"kind" db:"kind"`
	TargetURL  string    `json:"targetUrl,omitempty" db:"target_url"`
	UserAgent  string    `json:"userAgent,omitempty" db:"user_agent"`
	RemoteAddr string    `json:"remoteAddr,omitempty" db:"remote_addr"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// TrackingStats aggregates events for a campaign.
type TrackingStats struct {
	CampaignID string `json:"campaignId"`
	Opens      int    `json:"opens"`
	Clicks     int    `json:"clicks"`
}
