package draw

import (
	"errors"
	"testing"

	"gift-exchange/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// familyRoster mirrors the default roster: five couples plus Ana.
func familyRoster() *model.Roster {
	return &model.Roster{
		Participants: []model.Participant{
			{ID: "ana", Name: "Ana", Exclusions: []string{}},
			{ID: "erin", Name: "Erin", Exclusions: []string{"thomas"}},
			{ID: "thomas", Name: "Thomas", Exclusions: []string{"erin"}},
			{ID: "michele", Name: "Michele", Exclusions: []string{"wes"}},
			{ID: "wes", Name: "Wes", Exclusions: []string{"michele"}},
			{ID: "bernadette", Name: "Bernadette", Exclusions: []string{"michael"}},
			{ID: "michael", Name: "Michael", Exclusions: []string{"bernadette"}},
			{ID: "e", Name: "E", Exclusions: []string{"jordon"}},
			{ID: "jordon", Name: "Jordon", Exclusions: []string{"e"}},
			{ID: "rob", Name: "Rob", Exclusions: []string{"vv"}},
			{ID: "vv", Name: "VV", Exclusions: []string{"rob"}},
		},
	}
}

func rosterOf(participants ...model.Participant) *model.Roster {
	return &model.Roster{Participants: participants}
}

func person(id string, exclusions ...string) model.Participant {
	return model.Participant{ID: id, Name: id, Exclusions: exclusions}
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

// assertCompleteDraw checks every invariant of an accepted complete draw.
func assertCompleteDraw(t *testing.T, roster *model.Roster, mapping model.Assignments) {
	t.Helper()

	require.Len(t, mapping, len(roster.Participants))
	seen := make(map[string]string, len(mapping))
	for _, p := range roster.Participants {
		recipient, ok := mapping[p.ID]
		require.True(t, ok, "%s has no recipient", p.ID)
		assert.NotEqual(t, p.ID, recipient, "%s drew themselves", p.ID)
		assert.False(t, p.Excludes(recipient), "%s drew excluded %s", p.ID, recipient)
		_, known := roster.Lookup(recipient)
		assert.True(t, known, "%s drew unknown %s", p.ID, recipient)
		if other, dup := seen[recipient]; dup {
			t.Fatalf("%s drawn by both %s and %s", recipient, other, p.ID)
		}
		seen[recipient] = p.ID
	}
	assert.NoError(t, Validate(roster, mapping))
}

// feasible brute-forces every completion of mapping. Only for tiny rosters.
func feasible(roster *model.Roster, mapping model.Assignments) bool {
	var givers []model.Participant
	used := mapping.Recipients()
	for _, p := range roster.Participants {
		if _, ok := mapping[p.ID]; !ok {
			givers = append(givers, p)
		}
	}

	var walk func(i int) bool
	walk = func(i int) bool {
		if i == len(givers) {
			return true
		}
		for _, candidate := range roster.Participants {
			if candidate.ID == givers[i].ID || givers[i].Excludes(candidate.ID) {
				continue
			}
			if _, taken := used[candidate.ID]; taken {
				continue
			}
			used[candidate.ID] = struct{}{}
			ok := walk(i + 1)
			delete(used, candidate.ID)
			if ok {
				return true
			}
		}
		return false
	}

	return walk(0)
}
