package handler

import (
	"net/http"

	"gift-exchange/internal/model"
	"gift-exchange/internal/service"

	"github.com/rs/zerolog"
)

// DrawHandler handles name draw HTTP requests.
type DrawHandler struct {
	service service.DrawService
	logger  zerolog.Logger
}

// NewDrawHandler creates a new draw handler.
func NewDrawHandler(service service.DrawService, logger zerolog.Logger) *DrawHandler {
	return &DrawHandler{
		service: service,
		logger:  logger.With().Str("handler", "draw").Logger(),
	}
}

// Validate handles POST /api/draw/validate requests.
func (h *DrawHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	var req model.ValidateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	resp, err := h.service.Validate(r.Context(), req.Assignments)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Manual handles POST /api/draw/manual requests.
func (h *DrawHandler) Manual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	var req model.ManualRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	status, err := h.service.AcceptManual(r.Context(), r.Header.Get(ParticipantHeader), &req)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Complete handles POST /api/draw/complete requests.
func (h *DrawHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	status, err := h.service.Complete(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Clear handles DELETE /api/draw requests.
func (h *DrawHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, h.logger)
		return
	}

	status, err := h.service.Clear(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Reveal handles GET /api/draw/reveal requests.
func (h *DrawHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	resp, err := h.service.Reveal(r.Context(), r.Header.Get(ParticipantHeader))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	// The recipient is private to the caller.
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /api/draw/status requests.
func (h *DrawHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	status, err := h.service.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Options handles GET /api/draw/options requests.
func (h *DrawHandler) Options(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	options, err := h.service.Options(r.Context(), r.Header.Get(ParticipantHeader))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, options)
}
