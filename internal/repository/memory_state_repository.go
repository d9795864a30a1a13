package repository

import (
	"context"
	"sync"
	"time"

	"gift-exchange/internal/model"
)

// memoryStateRepository keeps the state in process. It is used for local
// runs and tests; nothing survives a restart.
type memoryStateRepository struct {
	mu    sync.RWMutex
	state *model.State
	now   func() time.Time
}

// NewMemoryStateRepository creates an in-process state repository.
func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{now: time.Now}
}

func (r *memoryStateRepository) Load(ctx context.Context) (*model.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state == nil {
		return model.DefaultState(), nil
	}
	return r.state.Clone(), nil
}

func (r *memoryStateRepository) Save(ctx context.Context, state *model.State) (*model.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved := state.Clone()
	saved.UpdatedAt = r.now().UTC()

	r.mu.Lock()
	r.state = saved
	r.mu.Unlock()

	return saved.Clone(), nil
}
