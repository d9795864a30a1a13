package router

import (
	"net/http"

	"gift-exchange/internal/handler"
	"gift-exchange/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// metricsHandler is mounted at /metrics when non-nil.
func New(
	drawHandler *handler.DrawHandler,
	stateHandler *handler.StateHandler,
	apiKey string,
	metricsHandler http.Handler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	// Shared state: GET reads the blob, POST patches it
	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			stateHandler.Patch(w, r)
			return
		}
		stateHandler.Get(w, r)
	})

	// Draw routes
	mux.HandleFunc("/api/draw", drawHandler.Clear)
	mux.HandleFunc("/api/draw/validate", drawHandler.Validate)
	mux.HandleFunc("/api/draw/manual", drawHandler.Manual)
	mux.HandleFunc("/api/draw/complete", drawHandler.Complete)
	mux.HandleFunc("/api/draw/reveal", drawHandler.Reveal)
	mux.HandleFunc("/api/draw/status", drawHandler.Status)
	mux.HandleFunc("/api/draw/options", drawHandler.Options)

	// Apply middleware in order: CorrelationID -> Recovery -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.CorrelationID(handler)

	return handler
}
