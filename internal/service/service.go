package service

import (
	"context"

	"gift-exchange/internal/model"
)

// DrawService coordinates the name draw against the shared state.
type DrawService interface {
	// Validate checks a candidate mapping without storing it.
	Validate(ctx context.Context, mapping model.Assignments) (*model.ValidateResponse, error)

	// AcceptManual records a draw made outside the system by actingID.
	AcceptManual(ctx context.Context, actingID string, req *model.ManualRequest) (*model.DrawStatus, error)

	// Complete assigns every giver that has not drawn yet.
	Complete(ctx context.Context) (*model.DrawStatus, error)

	// Clear removes every assignment.
	Clear(ctx context.Context) (*model.DrawStatus, error)

	// Reveal tells participantID who they drew.
	Reveal(ctx context.Context, participantID string) (*model.RevealResponse, error)

	// Status summarises the draw without exposing the mapping.
	Status(ctx context.Context) (*model.DrawStatus, error)

	// Options lists the recipients actingID may still record manually.
	Options(ctx context.Context, actingID string) ([]model.RecipientOption, error)
}

// StateService reads and patches the shared state blob.
type StateService interface {
	// Get returns the state with wishlist defaults merged in and old messages
	// pruned.
	Get(ctx context.Context) (*model.StateResponse, error)

	// Patch overwrites the keys present in patch and keeps the others.
	Patch(ctx context.Context, patch *model.StatePatch) (*model.StateResponse, error)
}
