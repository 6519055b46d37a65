package handler

import (
	"net/http"
	"net/url"
	"time"

	"tenera-store/internal/model"
	"tenera-store/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// transparentGIF is a 1x1 transparent pixel served on open tracking.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingHandler handles campaign pixel opens and link clicks.
type TrackingHandler struct {
	tracking repository.TrackingRepository
	// allowedOrigins whitelists redirect targets for click tracking.
	allowedOrigins map[string]struct{}
	logger         zerolog.Logger
}

// NewTrackingHandler creates a new tracking handler.
func NewTrackingHandler(tracking repository.TrackingRepository, allowedOrigins []string, logger zerolog.Logger) *TrackingHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &TrackingHandler{
		tracking:       tracking,
		allowedOrigins: origins,
		logger:         logger.With().Str("handler", "tracking").Logger(),
	}
}

// Open records an email open and serves the pixel. Recording failures
// never break the image. GET /t/open.gif?c={campaignID}
func (h *TrackingHandler) Open(w http.ResponseWriter, r *http.Request) {
	campaignID := r.URL.Query().Get("c")
	if campaignID != "" {
		h.record(r, campaignID, model.TrackingEventOpen, "")
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(transparentGIF)
}

// Click records a link click and redirects to the target. Targets
// outside the origin allow-list are refused so the endpoint cannot be
// used as an open redirect. GET /t/click?c={campaignID}&url={target}
func (h *TrackingHandler) Click(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	parsed, err := url.Parse(target)
	if err != nil || !h.allowedTarget(parsed) {
		h.logger.Warn().Str("target", target).Msg("click redirect target refused")
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "redirect target is not allowed", h.logger)
		return
	}

	if campaignID := r.URL.Query().Get("c"); campaignID != "" {
		h.record(r, campaignID, model.TrackingEventClick, target)
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// Stats returns aggregated opens and clicks for a campaign.
// GET /api/v1/admin/tracking/{campaignID}
func (h *TrackingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.tracking.Stats(r.Context(), chi.URLParam(r, "campaignID"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *TrackingHandler) record(r *http.Request, campaignID, kind, target string) {
	event := &model.TrackingEvent{
		ID:         uuid.New(),
		CampaignID: campaignID,
		Kind:       kind,
		TargetURL:  target,
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.tracking.Record(r.Context(), event); err != nil {
		h.logger.Error().Err(err).Str("campaign_id", campaignID).Msg("failed to record tracking event")
	}
}

func (h *TrackingHandler) allowedTarget(target *url.URL) bool {
	if target == nil || (target.Scheme != "http" && target.Scheme != "https") {
		return false
	}
	_, ok := h.allowedOrigins[target.Scheme+"://"+target.Host]
	return ok
}
