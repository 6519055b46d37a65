package handler

import (
	"net/http"
	"time"

	"tenera-store/internal/model"
	"tenera-store/internal/repository"
	"tenera-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CampaignHandler handles the back-office marketing endpoints: tags,
// automations, scheduled messages, and admin user roles.
type CampaignHandler struct {
	campaigns service.CampaignService
	tags      repository.TagRepository
	users     repository.UserRepository
	logger    zerolog.Logger
}

// NewCampaignHandler creates a new campaign handler.
func NewCampaignHandler(
	campaigns service.CampaignService,
	tags repository.TagRepository,
	users repository.UserRepository,
	logger zerolog.Logger,
) *CampaignHandler {
	return &CampaignHandler{
		campaigns: campaigns,
		tags:      tags,
		users:     users,
		logger:    logger.With().Str("handler", "campaign").Logger(),
	}
}

// ListTags returns all tags. GET /api/v1/admin/tags
func (h *CampaignHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag adds a tag. POST /api/v1/admin/tags
func (h *CampaignHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var tag model.Tag
	if err := decodeJSON(r, &tag); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if tag.Name == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "tag name is required", h.logger)
		return
	}

	tag.ID = uuid.New()
	tag.CreatedAt = time.Now().UTC()
	if err := h.tags.Create(r.Context(), &tag); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// DeleteTag removes a tag and its assignments.
// DELETE /api/v1/admin/tags/{tagID}
func (h *CampaignHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tagID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "tag ID is not a valid UUID", h.logger)
		return
	}

	if err := h.tags.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tagAssignRequest struct {
	CustomerEmail string `json:"customerEmail"`
}

// AssignTag tags a customer, firing any automations the tag triggers.
// POST /api/v1/admin/tags/{tagID}/assign
func (h *CampaignHandler) AssignTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tagID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "tag ID is not a valid UUID", h.logger)
		return
	}

	var req tagAssignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if err := h.campaigns.ApplyTag(r.Context(), id, req.CustomerEmail); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnassignTag removes a tag from a customer.
// POST /api/v1/admin/tags/{tagID}/unassign
func (h *CampaignHandler) UnassignTag(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tagID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "tag ID is not a valid UUID", h.logger)
		return
	}

	var req tagAssignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if err := h.campaigns.RemoveTag(r.Context(), id, req.CustomerEmail); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAutomations returns all automations. GET /api/v1/admin/automations
func (h *CampaignHandler) ListAutomations(w http.ResponseWriter, r *http.Request) {
	automations, err := h.tags.ListAutomations(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, automations)
}

// CreateAutomation adds an automation. POST /api/v1/admin/automations
func (h *CampaignHandler) CreateAutomation(w http.ResponseWriter, r *http.Request) {
	var a model.Automation
	if err := decodeJSON(r, &a); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if a.Name == "" || a.Subject == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "automation name and subject are required", h.logger)
		return
	}
	if a.DelayMinutes < 0 {
		a.DelayMinutes = 0
	}

	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	if err := h.tags.CreateAutomation(r.Context(), &a); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// DeleteAutomation removes an automation.
// DELETE /api/v1/admin/automations/{automationID}
func (h *CampaignHandler) DeleteAutomation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "automationID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "automation ID is not a valid UUID", h.logger)
		return
	}

	if err := h.tags.DeleteAutomation(r.Context(), id); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type scheduleEmailRequest struct {
	Recipient    string `json:"recipient"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	DelayMinutes int    `json:"delayMinutes"`
}

// ScheduleEmail queues a one-off email. POST /api/v1/admin/emails
func (h *CampaignHandler) ScheduleEmail(w http.ResponseWriter, r *http.Request) {
	var req scheduleEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	email, err := h.campaigns.ScheduleEmail(r.Context(), req.Recipient, req.Subject, req.Body, req.DelayMinutes)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, email)
}

type whatsAppRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

// SendWhatsApp delivers a WhatsApp message immediately.
// POST /api/v1/admin/whatsapp
func (h *CampaignHandler) SendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req whatsAppRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if req.To == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "recipient and body are required", h.logger)
		return
	}

	if err := h.campaigns.SendWhatsApp(r.Context(), req.To, req.Body); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsers returns all admin users with roles. GET /api/v1/admin/users
func (h *CampaignHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

// CreateUser adds an admin user with an initial role set.
// POST /api/v1/admin/users
func (h *CampaignHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "user email is required", h.logger)
		return
	}
	for _, role := range req.Roles {
		if !model.ValidRole(role) {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "unknown role: "+role, h.logger)
			return
		}
	}

	user := &model.AdminUser{
		ID:        uuid.New(),
		Email:     req.Email,
		FullName:  req.FullName,
		Roles:     req.Roles,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	for _, role := range req.Roles {
		if err := h.users.GrantRole(r.Context(), user.ID, role); err != nil {
			writeDomainError(w, err, h.logger)
			return
		}
	}

	writeJSON(w, http.StatusCreated, user)
}

type roleRequest struct {
	Role string `json:"role"`
}

// GrantRole adds a role to a user. POST /api/v1/admin/users/{userID}/roles
func (h *CampaignHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "user ID is not a valid UUID", h.logger)
		return
	}

	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if !model.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "unknown role: "+req.Role, h.logger)
		return
	}

	if err := h.users.GrantRole(r.Context(), id, req.Role); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RevokeRole removes a role from a user.
// DELETE /api/v1/admin/users/{userID}/roles/{role}
func (h *CampaignHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "user ID is not a valid UUID", h.logger)
		return
	}

	role := chi.URLParam(r, "role")
	if !model.ValidRole(role) {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "unknown role: "+role, h.logger)
		return
	}

	if err := h.users.RevokeRole(r.Context(), id, role); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
