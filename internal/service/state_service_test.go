package service

import (
	"context"
	"testing"
	"time"

	"gift-exchange/internal/model"
	"gift-exchange/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.December, 20, 12, 0, 0, 0, time.UTC)

func newTestStateService(t *testing.T) (*stateService, repository.StateRepository) {
	t.Helper()

	repo := repository.NewMemoryStateRepository()
	shared := NewSharedState(repo, nil, zerolog.Nop())
	svc := NewStateService(shared, testRoster(), 30*24*time.Hour, zerolog.Nop()).(*stateService)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

func TestStateService_Get(t *testing.T) {
	svc, repo := newTestStateService(t)
	ctx := context.Background()

	stored := model.DefaultState()
	stored.Wishlists["wes"] = model.Wishlist{Ideas: []string{"Bike light"}}
	stored.Messages = []model.Message{
		{ID: "old", Text: "Last year", CreatedAt: testNow.AddDate(0, -2, 0)},
		{ID: "recent", Text: "Budget is $50", CreatedAt: testNow.Add(-time.Hour)},
	}
	_, err := repo.Save(ctx, stored)
	require.NoError(t, err)

	resp, err := svc.Get(ctx)
	require.NoError(t, err)

	assert.False(t, resp.Stale)
	assert.Len(t, resp.Wishlists, 4, "every participant gets a wishlist")
	assert.Equal(t, []string{"Cooking class"}, resp.Wishlists["ana"].Ideas)
	assert.Equal(t, []string{"Bike light"}, resp.Wishlists["wes"].Ideas)
	assert.Equal(t, []string{}, resp.Wishlists["wes"].Links)
	assert.Equal(t, []string{}, resp.Wishlists["erin"].Ideas)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "recent", resp.Messages[0].ID)
}

func TestStateService_Patch(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty patch", func(t *testing.T) {
		svc, _ := newTestStateService(t)

		_, err := svc.Patch(ctx, &model.StatePatch{})
		assert.ErrorIs(t, err, model.ErrEmptyStatePatch)

		_, err = svc.Patch(ctx, nil)
		assert.ErrorIs(t, err, model.ErrEmptyStatePatch)
	})

	t.Run("Invalid assignments are rejected", func(t *testing.T) {
		svc, repo := newTestStateService(t)

		_, err := svc.Patch(ctx, &model.StatePatch{Assignments: model.Assignments{"wes": "wes"}})

		requireDomainError(t, err, model.ErrCodeSelfDraw)
		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, stored.Assignments)
	})

	t.Run("Wishlist for unknown participant", func(t *testing.T) {
		svc, _ := newTestStateService(t)

		_, err := svc.Patch(ctx, &model.StatePatch{Wishlists: map[string]model.Wishlist{"rudolph": {}}})

		requireDomainError(t, err, model.ErrCodeUnknownParticipant)
	})

	t.Run("Absent keys keep their stored value", func(t *testing.T) {
		svc, repo := newTestStateService(t)
		stored := model.DefaultState()
		stored.Assignments["ana"] = "wes"
		stored.Events = []model.Event{{ID: "e1", Title: "Gift swap", Date: "2025-12-24", Type: "party"}}
		_, err := repo.Save(ctx, stored)
		require.NoError(t, err)

		resp, err := svc.Patch(ctx, &model.StatePatch{
			Wishlists: map[string]model.Wishlist{"erin": {Ideas: []string{"Spa day"}}},
		})

		require.NoError(t, err)
		assert.Equal(t, "wes", resp.Assignments["ana"])
		assert.Len(t, resp.Events, 1)
		assert.Equal(t, []string{"Spa day"}, resp.Wishlists["erin"].Ideas)
		assert.Equal(t, []string{"Cooking class"}, resp.Wishlists["ana"].Ideas)
	})

	t.Run("Messages are completed and pruned", func(t *testing.T) {
		svc, repo := newTestStateService(t)

		resp, err := svc.Patch(ctx, &model.StatePatch{
			Messages: []model.Message{
				{AuthorID: "erin", Text: "  Who is bringing cocoa?  "},
				{ID: "m-old", AuthorID: "ana", Text: "Ancient news", CreatedAt: testNow.AddDate(0, 0, -31)},
				{ID: "m-mid", AuthorID: "ana", AuthorName: "Ana", Text: "Budget is $50", CreatedAt: testNow.Add(-time.Hour)},
				{AuthorID: "wes", Text: "   "},
			},
		})

		require.NoError(t, err)
		require.Len(t, resp.Messages, 2)

		first := resp.Messages[0]
		assert.NotEmpty(t, first.ID)
		assert.Equal(t, "Erin", first.AuthorName)
		assert.Equal(t, "Who is bringing cocoa?", first.Text)
		assert.True(t, testNow.Equal(first.CreatedAt))
		assert.Equal(t, "m-mid", resp.Messages[1].ID)

		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, stored.Messages, 2)
	})

	t.Run("Valid assignments are saved", func(t *testing.T) {
		svc, repo := newTestStateService(t)

		_, err := svc.Patch(ctx, &model.StatePatch{Assignments: model.Assignments{"ana": "erin", "erin": "wes"}})
		require.NoError(t, err)

		stored, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Assignments{"ana": "erin", "erin": "wes"}, stored.Assignments)
	})
}

func TestMergeWishlists(t *testing.T) {
	roster := testRoster()

	merged := MergeWishlists(roster, map[string]model.Wishlist{
		"ana": {Ideas: []string{"Knife set"}},
	})

	assert.Len(t, merged, 4)
	assert.Equal(t, []string{"Knife set"}, merged["ana"].Ideas)
	assert.Equal(t, []string{}, merged["ana"].Links, "stored entry replaces the default as a whole")
	assert.Equal(t, model.Wishlist{Ideas: []string{}, Links: []string{}}, merged["thomas"])
}

func TestPruneMessages(t *testing.T) {
	retention := 30 * 24 * time.Hour
	messages := []model.Message{
		{ID: "a", CreatedAt: testNow.Add(-48 * time.Hour)},
		{ID: "b", CreatedAt: testNow.Add(-time.Hour)},
		{ID: "c"},
		{ID: "d", CreatedAt: testNow.Add(-retention - time.Second)},
		{ID: "e", CreatedAt: testNow.Add(-retention)},
	}

	pruned := PruneMessages(messages, testNow, retention)

	ids := make([]string, len(pruned))
	for i, m := range pruned {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"b", "a", "e"}, ids)
	assert.Empty(t, PruneMessages(nil, testNow, retention))
}
