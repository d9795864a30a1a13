package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gift-exchange/internal/draw"
	"gift-exchange/internal/model"
	"gift-exchange/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStateRepository is a mock implementation of StateRepository.
type MockStateRepository struct {
	mock.Mock
}

func (m *MockStateRepository) Load(ctx context.Context) (*model.State, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.State), args.Error(1)
}

func (m *MockStateRepository) Save(ctx context.Context, state *model.State) (*model.State, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.State), args.Error(1)
}

var _ repository.StateRepository = (*MockStateRepository)(nil)

var errStoreDown = errors.New("connection refused")

// spyRecorder counts metric calls by name.
type spyRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func newSpyRecorder() *spyRecorder {
	return &spyRecorder{calls: map[string]int{}}
}

func (s *spyRecorder) inc(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *spyRecorder) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *spyRecorder) RecordDrawCompleted(_, _ int, _ float64) { s.inc("completed") }
func (s *spyRecorder) RecordDrawInfeasible()                  { s.inc("infeasible") }
func (s *spyRecorder) RecordManualEntry(result string)        { s.inc("manual:" + result) }
func (s *spyRecorder) RecordValidation(result string)         { s.inc("validation:" + result) }
func (s *spyRecorder) RecordStoreError(op string)             { s.inc("store:" + op) }
func (s *spyRecorder) RecordStaleRead()                       { s.inc("stale") }

// testRoster has one mutually excluded couple.
func testRoster() *model.Roster {
	return &model.Roster{
		Participants: []model.Participant{
			{ID: "ana", Name: "Ana", Exclusions: []string{}},
			{ID: "erin", Name: "Erin", Exclusions: []string{"thomas"}},
			{ID: "thomas", Name: "Thomas", Exclusions: []string{"erin"}},
			{ID: "wes", Name: "Wes", Exclusions: []string{}},
		},
		Wishlists: map[string]model.Wishlist{
			"ana": {Ideas: []string{"Cooking class"}, Links: []string{"https://example.com/ana-cookware-set"}},
		},
	}
}

// newTestDrawService wires a draw service over an in-memory repository.
func newTestDrawService(t *testing.T, roster *model.Roster) (DrawService, repository.StateRepository, *spyRecorder) {
	t.Helper()

	repo := repository.NewMemoryStateRepository()
	spy := newSpyRecorder()
	shared := NewSharedState(repo, spy, zerolog.Nop())
	svc := NewDrawService(shared, roster, draw.NewSeededSolver(7), spy, zerolog.Nop())
	return svc, repo, spy
}

// requireDomainError asserts err is a *model.DomainError with the given code.
func requireDomainError(t *testing.T, err error, code string) *model.DomainError {
	t.Helper()

	require.Error(t, err)
	var domainErr *model.DomainError
	require.True(t, errors.As(err, &domainErr), "expected *model.DomainError, got %T", err)
	assert.Equal(t, code, domainErr.Code)
	return domainErr
}
