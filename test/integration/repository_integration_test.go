package integration

import (
	"context"
	"sync"
	"testing"

	"gift-exchange/internal/draw"
	"gift-exchange/internal/metrics"
	"gift-exchange/internal/model"
	"gift-exchange/internal/repository"
	"gift-exchange/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewPostgresStateRepository(testDB.Pool, stateTable, stateKey, logger)

	ctx := context.Background()

	t.Run("Load returns default state when empty", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		state, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Assignments{}, state.Assignments)
		assert.Equal(t, []model.Message{}, state.Messages)
		assert.True(t, state.UpdatedAt.IsZero())
	})

	t.Run("Seeded rows are readable", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedAssignments(t, testDB.Pool, map[string]string{"ana": "wes"})

		state, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "wes", state.Assignments["ana"])
		assert.False(t, state.UpdatedAt.IsZero())
	})

	t.Run("Save survives a new repository", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		state := model.DefaultState()
		state.Assignments["erin"] = "ana"
		state.Wishlists["ana"] = model.Wishlist{Ideas: []string{"Tea"}, Links: []string{}}
		saved, err := repo.Save(ctx, state)
		require.NoError(t, err)

		reopened := repository.NewPostgresStateRepository(testDB.Pool, stateTable, stateKey, logger)
		loaded, err := reopened.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved.Assignments, loaded.Assignments)
		assert.Equal(t, saved.Wishlists, loaded.Wishlists)
		assert.True(t, saved.UpdatedAt.Equal(loaded.UpdatedAt))
	})

	t.Run("Save advances updated_at", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		first, err := repo.Save(ctx, model.DefaultState())
		require.NoError(t, err)
		second, err := repo.Save(ctx, first)
		require.NoError(t, err)
		assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	})
}

func TestSharedState_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	participants := LoadFamilyRoster(t)
	repo := repository.NewPostgresStateRepository(testDB.Pool, stateTable, stateKey, logger)
	shared := service.NewSharedState(repo, metrics.NewNop(), logger)
	drawService := service.NewDrawService(shared, participants, draw.NewSeededSolver(42), nil, logger)

	ctx := context.Background()

	t.Run("Concurrent completions agree", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		var wg sync.WaitGroup
		errs := make([]error, 4)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = drawService.Complete(ctx)
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}

		state, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, state.Assignments, 11)
		assert.NoError(t, draw.Validate(participants, state.Assignments))
	})

	t.Run("Reads use the snapshot when the pool is gone", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedAssignments(t, testDB.Pool, map[string]string{"ana": "wes"})

		state, stale, err := shared.Read(ctx)
		require.NoError(t, err)
		assert.False(t, stale)
		assert.Equal(t, "wes", state.Assignments["ana"])

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		state, stale, err = shared.Read(cancelled)
		require.NoError(t, err)
		assert.True(t, stale)
		assert.Equal(t, "wes", state.Assignments["ana"])
	})
}
