package draw

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"gift-exchange/internal/model"
)

// Result is the outcome of a completed draw.
type Result struct {
	// Assignments is the complete mapping, including pre-existing entries.
	Assignments model.Assignments
	// AlreadyComplete is set when every participant was assigned on input.
	AlreadyComplete bool
	// Filled is the number of givers assigned by this run.
	Filled int
	// Attempts counts tentative assignments made during the search.
	Attempts int
}

// Solver completes partial draws with a randomized backtracking search.
//
// The search is exhaustive, so an infeasible result means no completion
// exists for the current manual entries. Its worst case is exponential in the
// number of unassigned givers; rosters of a family-sized group finish
// instantly and no cap is imposed.
type Solver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSolver creates a solver drawing randomness from rng. A nil rng is
// replaced by a randomly seeded PCG source.
func NewSolver(rng *rand.Rand) *Solver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Solver{rng: rng}
}

// NewSeededSolver creates a solver whose draws are reproducible for a seed.
func NewSeededSolver(seed uint64) *Solver {
	return NewSolver(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Complete assigns every giver missing from mapping. Existing entries are kept
// as they are. The input mapping is never modified.
//
// It returns model.ErrInfeasible when no completion exists, or the
// validator's error when the existing entries already break a rule.
func (s *Solver) Complete(roster *model.Roster, mapping model.Assignments) (*Result, error) {
	if err := Validate(roster, mapping); err != nil {
		return nil, err
	}

	current := make(model.Assignments, len(roster.Participants))
	var givers []model.Participant
	for _, p := range roster.Participants {
		if recipientID, ok := recipientOf(mapping, p.ID); ok {
			current[p.ID] = recipientID
			continue
		}
		givers = append(givers, p)
	}

	if len(givers) == 0 {
		return &Result{Assignments: current, AlreadyComplete: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rng.Shuffle(len(givers), func(i, j int) {
		givers[i], givers[j] = givers[j], givers[i]
	})

	sr := &search{
		ids:     roster.IDs(),
		givers:  givers,
		current: current,
		used:    current.Recipients(),
		rng:     s.rng,
	}

	if !sr.assign(0) {
		return nil, model.ErrInfeasible
	}

	if err := Validate(roster, sr.current); err != nil {
		return nil, fmt.Errorf("solver produced an invalid draw: %w", err)
	}
	if missing := Unassigned(roster, sr.current); len(missing) > 0 {
		return nil, fmt.Errorf("solver left %d participants unassigned", len(missing))
	}

	return &Result{
		Assignments: sr.current,
		Filled:      len(givers),
		Attempts:    sr.attempts,
	}, nil
}

// search holds the mutable state of one Complete call. current and used are
// shared by every level of the recursion and restored on the way back up.
type search struct {
	ids      []string
	givers   []model.Participant
	current  model.Assignments
	used     map[string]struct{}
	rng      *rand.Rand
	attempts int
}

func (s *search) assign(i int) bool {
	if i == len(s.givers) {
		return true
	}

	giver := s.givers[i]
	for _, candidate := range s.candidates(giver) {
		if s.try(i, giver, candidate) {
			return true
		}
	}

	return false
}

// try tentatively gives candidate to giver and recurses. Unless the branch
// solves the draw, the tentative entry is rolled back before returning.
func (s *search) try(i int, giver model.Participant, candidate string) (solved bool) {
	s.attempts++
	s.current[giver.ID] = candidate
	s.used[candidate] = struct{}{}

	defer func() {
		if !solved {
			delete(s.current, giver.ID)
			delete(s.used, candidate)
		}
	}()

	return s.assign(i + 1)
}

// candidates returns the recipients giver may still draw, in random order.
func (s *search) candidates(giver model.Participant) []string {
	blocked := make(map[string]struct{}, len(giver.Exclusions)+1)
	blocked[giver.ID] = struct{}{}
	for _, id := range giver.Exclusions {
		blocked[id] = struct{}{}
	}

	out := make([]string, 0, len(s.ids))
	for _, id := range s.ids {
		if _, no := blocked[id]; no {
			continue
		}
		if _, taken := s.used[id]; taken {
			continue
		}
		out = append(out, id)
	}

	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return out
}
