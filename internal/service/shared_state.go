package service

import (
	"context"
	"sync"

	"gift-exchange/internal/metrics"
	"gift-exchange/internal/model"
	"gift-exchange/internal/repository"

	"github.com/rs/zerolog"
)

const (
	msgLoadFailed = "Sync service is offline. Try again in a moment."
	msgSaveFailed = "Your change may not have been saved. Try again once the sync service is back."
)

// SharedState wraps the state repository for the services. It serialises
// read-modify-write cycles within the process and remembers the last state
// seen so reads keep working while the store is down.
type SharedState struct {
	repo    repository.StateRepository
	metrics metrics.Recorder
	logger  zerolog.Logger

	writeMu sync.Mutex

	mu   sync.RWMutex
	last *model.State
}

// NewSharedState creates a SharedState over repo.
func NewSharedState(repo repository.StateRepository, recorder metrics.Recorder, logger zerolog.Logger) *SharedState {
	if recorder == nil {
		recorder = metrics.NewNop()
	}
	return &SharedState{
		repo:    repo,
		metrics: recorder,
		logger:  logger.With().Str("component", "shared-state").Logger(),
	}
}

// Read returns the current state. When the store fails and a previous state
// is known, that state is returned with stale set.
func (s *SharedState) Read(ctx context.Context) (state *model.State, stale bool, err error) {
	state, err = s.load(ctx)
	if err == nil {
		return state, false, nil
	}

	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return nil, false, err
	}

	s.metrics.RecordStaleRead()
	s.logger.Warn().
		Time("snapshot_updated_at", last.UpdatedAt).
		Msg("serving last known state while the store is unavailable")

	return last.Clone(), true, nil
}

// Update loads the state, applies fn and saves the result. When fn returns a
// nil state nothing is saved and the loaded state is returned. Errors from fn
// are returned unchanged.
func (s *SharedState) Update(ctx context.Context, fn func(current *model.State) (*model.State, error)) (*model.State, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := fn(current.Clone())
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}

	saved, err := s.repo.Save(ctx, next)
	if err != nil {
		s.metrics.RecordStoreError("save")
		s.logger.Error().Err(err).Msg("failed to save state")
		return nil, model.StoreUnavailable(msgSaveFailed, err)
	}

	s.remember(saved)
	return saved.Clone(), nil
}

func (s *SharedState) load(ctx context.Context) (*model.State, error) {
	state, err := s.repo.Load(ctx)
	if err != nil {
		s.metrics.RecordStoreError("load")
		s.logger.Error().Err(err).Msg("failed to load state")
		return nil, model.StoreUnavailable(msgLoadFailed, err)
	}

	state.Normalize()
	s.remember(state)
	return state.Clone(), nil
}

func (s *SharedState) remember(state *model.State) {
	snapshot := state.Clone()

	s.mu.Lock()
	s.last = snapshot
	s.mu.Unlock()
}
