package repository

import (
	"context"

	"gift-exchange/internal/model"
)

// StateRepository persists the shared state blob.
type StateRepository interface {
	// Load returns the stored state, or model.DefaultState when nothing has
	// been saved yet.
	Load(ctx context.Context) (*model.State, error)

	// Save replaces the stored state and returns it as persisted, with
	// UpdatedAt set by the store.
	Save(ctx context.Context, state *model.State) (*model.State, error)
}
