package repository

import (
	"context"
	"testing"
	"time"

	"gift-exchange/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStateRepositoryContract checks the behaviour every backend must share.
// repo must start empty.
func runStateRepositoryContract(t *testing.T, repo StateRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load on empty store returns defaults", func(t *testing.T) {
		state, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.Empty(t, state.Assignments)
		assert.NotNil(t, state.Assignments)
		assert.NotNil(t, state.Wishlists)
		assert.NotNil(t, state.Messages)
		assert.NotNil(t, state.Events)
		assert.True(t, state.UpdatedAt.IsZero())
	})

	t.Run("Save then Load round trips", func(t *testing.T) {
		createdAt := time.Date(2025, time.December, 1, 10, 0, 0, 0, time.UTC)
		input := &model.State{
			Assignments: model.Assignments{"ana": "erin", "erin": "thomas"},
			Wishlists: map[string]model.Wishlist{
				"ana": {Ideas: []string{"Cooking class"}, Links: []string{}},
			},
			Messages: []model.Message{
				{ID: "m1", AuthorID: "ana", AuthorName: "Ana", Text: "Budget is $50", CreatedAt: createdAt},
			},
			Events: []model.Event{
				{ID: "e1", Title: "Gift swap", Date: "2025-12-24", Type: "party"},
			},
		}

		saved, err := repo.Save(ctx, input)
		require.NoError(t, err)
		assert.False(t, saved.UpdatedAt.IsZero())

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, input.Assignments, loaded.Assignments)
		assert.Equal(t, input.Wishlists, loaded.Wishlists)
		assert.Equal(t, input.Events, loaded.Events)
		require.Len(t, loaded.Messages, 1)
		assert.Equal(t, "Budget is $50", loaded.Messages[0].Text)
		assert.True(t, createdAt.Equal(loaded.Messages[0].CreatedAt))
		assert.WithinDuration(t, saved.UpdatedAt, loaded.UpdatedAt, time.Second)
	})

	t.Run("Save does not retain caller's maps", func(t *testing.T) {
		input := model.DefaultState()
		input.Assignments["ana"] = "thomas"

		_, err := repo.Save(ctx, input)
		require.NoError(t, err)
		input.Assignments["ana"] = "erin"

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "thomas", loaded.Assignments["ana"])
	})

	t.Run("Save replaces the whole state", func(t *testing.T) {
		_, err := repo.Save(ctx, model.DefaultState())
		require.NoError(t, err)

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded.Assignments)
		assert.Empty(t, loaded.Messages)
		assert.Empty(t, loaded.Events)
	})
}
