package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"gift-exchange/internal/draw"
	"gift-exchange/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// stateService implements StateService.
type stateService struct {
	state     *SharedState
	roster    *model.Roster
	retention time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// NewStateService creates a new state service. Messages older than retention
// are dropped on every read and write.
func NewStateService(state *SharedState, roster *model.Roster, retention time.Duration, logger zerolog.Logger) StateService {
	return &stateService{
		state:     state,
		roster:    roster,
		retention: retention,
		now:       time.Now,
		logger:    logger.With().Str("service", "state").Logger(),
	}
}

// Get returns the shared state.
func (s *stateService) Get(ctx context.Context) (*model.StateResponse, error) {
	current, stale, err := s.state.Read(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(current, stale), nil
}

// Patch applies a partial update.
func (s *stateService) Patch(ctx context.Context, patch *model.StatePatch) (*model.StateResponse, error) {
	if patch == nil || patch.Empty() {
		return nil, model.ErrEmptyStatePatch
	}

	if patch.Assignments != nil {
		if err := draw.Validate(s.roster, patch.Assignments); err != nil {
			s.logger.Warn().Err(err).Msg("rejected assignments in state patch")
			return nil, err
		}
	}

	for id := range patch.Wishlists {
		if _, ok := s.roster.Lookup(id); !ok {
			return nil, model.NewParticipantError(
				model.ErrCodeUnknownParticipant,
				id,
				fmt.Sprintf("%q is not on the roster.", id),
			)
		}
	}

	now := s.now().UTC()
	if patch.Messages != nil {
		patch.Messages = s.prepareMessages(patch.Messages, now)
	}

	saved, err := s.state.Update(ctx, func(current *model.State) (*model.State, error) {
		next := patch.Apply(current)
		next.Messages = PruneMessages(next.Messages, now, s.retention)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Bool("assignments", patch.Assignments != nil).
		Bool("wishlists", patch.Wishlists != nil).
		Bool("messages", patch.Messages != nil).
		Bool("events", patch.Events != nil).
		Msg("state updated")

	return s.view(saved, false), nil
}

// prepareMessages fills in ids, timestamps and author names that the client
// left out.
func (s *stateService) prepareMessages(messages []model.Message, now time.Time) []model.Message {
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		m.Text = strings.TrimSpace(m.Text)
		if m.Text == "" {
			continue
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		if m.AuthorName == "" && m.AuthorID != "" {
			m.AuthorName = s.roster.DisplayName(m.AuthorID)
		}
		out = append(out, m)
	}
	return out
}

func (s *stateService) view(state *model.State, stale bool) *model.StateResponse {
	out := state.Clone()
	out.Wishlists = MergeWishlists(s.roster, out.Wishlists)
	out.Messages = PruneMessages(out.Messages, s.now(), s.retention)
	return &model.StateResponse{State: out, Stale: stale}
}

// MergeWishlists overlays stored wishlists on the roster defaults. Every
// participant gets an entry, and ideas and links are never nil.
func MergeWishlists(roster *model.Roster, stored map[string]model.Wishlist) map[string]model.Wishlist {
	merged := make(map[string]model.Wishlist, len(roster.Participants))
	for id, w := range roster.Wishlists {
		merged[id] = w
	}
	for id, w := range stored {
		merged[id] = w
	}
	for _, p := range roster.Participants {
		if _, ok := merged[p.ID]; !ok {
			merged[p.ID] = model.Wishlist{}
		}
	}

	for id, w := range merged {
		merged[id] = model.Wishlist{
			Ideas: nonNil(w.Ideas),
			Links: nonNil(w.Links),
		}
	}
	return merged
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return slices.Clone(values)
}

// PruneMessages drops messages older than retention or without a timestamp
// and sorts the rest newest first.
func PruneMessages(messages []model.Message, now time.Time, retention time.Duration) []model.Message {
	cutoff := now.Add(-retention)
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		if m.CreatedAt.IsZero() || m.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, m)
	}

	slices.SortStableFunc(out, func(a, b model.Message) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
