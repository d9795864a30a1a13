package handler

import (
	"net/http"

	"gift-exchange/internal/model"
	"gift-exchange/internal/service"

	"github.com/rs/zerolog"
)

// StateHandler handles shared state HTTP requests.
type StateHandler struct {
	service service.StateService
	logger  zerolog.Logger
}

// NewStateHandler creates a new state handler.
func NewStateHandler(service service.StateService, logger zerolog.Logger) *StateHandler {
	return &StateHandler{
		service: service,
		logger:  logger.With().Str("handler", "state").Logger(),
	}
}

// Get handles GET /api/state requests.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, h.logger)
		return
	}

	state, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Patch handles POST /api/state requests. Keys missing from the body keep
// their stored value.
func (h *StateHandler) Patch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, h.logger)
		return
	}

	var patch model.StatePatch
	if err := decodeBody(w, r, &patch); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	state, err := h.service.Patch(r.Context(), &patch)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}
