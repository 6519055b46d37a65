package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tenera-store/internal/model"

	"github.com/rs/zerolog"
)

// SessionHeader carries the caller's session identifier. The query
// parameter fallback exists for redirect flows that cannot set headers.
const SessionHeader = "X-Session-ID"

// writeJSON writes a JSON response with the given status code. Encode
// failures are swallowed: the status line is already on the wire, so
// there is nothing left to send the client.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto an HTTP status. Unknown
// errors become an opaque 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}
	writeError(w, domainStatus(domainErr.Code), domainErr.Code, domainErr.Message, logger)
}

func domainStatus(code string) int {
	switch code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeDiscountNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeBumpNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateReference,
		model.ErrCodeInvalidTransition,
		model.ErrCodeDiscountCodeExists:
		return http.StatusConflict
	case model.ErrCodeInvalidSignature,
		model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeInternalError:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// sessionID extracts the session identifier from the request.
func sessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	return r.URL.Query().Get("sessionId")
}

// decodeJSON decodes the request body into dst with a descriptive error.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is not valid JSON")
	}
	return nil
}
