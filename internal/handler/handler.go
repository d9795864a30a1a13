package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gift-exchange/internal/middleware"
	"gift-exchange/internal/model"

	"github.com/rs/zerolog"
)

// ParticipantHeader names the participant a request acts for. It is trusted
// as given.
const ParticipantHeader = "X-Participant-ID"

// maxBodyBytes caps request bodies; the whole shared state is far smaller.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.CorrelationIDFromContext(r.Context())
	logger.Error().
		Str("error", code).
		Str("message", message).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// keep their code and message; anything else becomes a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
		return
	}

	status := statusFor(domainErr.Code)
	correlationID := middleware.CorrelationIDFromContext(r.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error().Err(domainErr.Err)
	}
	event.
		Str("error", domainErr.Code).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("request rejected")

	writeJSON(w, status, model.ErrorResponse{
		Error:         domainErr.Code,
		Message:       domainErr.Message,
		Participant:   domainErr.Participant,
		CorrelationID: correlationID,
	})
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField:
		return http.StatusBadRequest
	case model.ErrCodeNotActingParticipant:
		return http.StatusForbidden
	case model.ErrCodeNotAssigned:
		return http.StatusNotFound
	case model.ErrCodeInfeasible:
		return http.StatusConflict
	case model.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	case model.ErrCodeSelfDraw,
		model.ErrCodeExcludedPair,
		model.ErrCodeDuplicateRecipient,
		model.ErrCodeUnknownParticipant,
		model.ErrCodeAlreadyAssigned,
		model.ErrCodeRecipientRequired:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) {
	writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", logger)
}
