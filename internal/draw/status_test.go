package draw

import (
	"testing"

	"gift-exchange/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestReveal(t *testing.T) {
	mapping := model.Assignments{"erin": "ana", "thomas": ""}

	tests := []struct {
		name          string
		participantID string
		expectedID    string
		expectedOK    bool
	}{
		{name: "Assigned", participantID: "erin", expectedID: "ana", expectedOK: true},
		{name: "Not yet assigned", participantID: "wes"},
		{name: "Empty recipient", participantID: "thomas"},
		{name: "No participant", participantID: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipientID, ok := Reveal(mapping, tt.participantID)

			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, recipientID)
		})
	}
}

func TestReveal_NilMapping(t *testing.T) {
	recipientID, ok := Reveal(nil, "erin")

	assert.False(t, ok)
	assert.Empty(t, recipientID)
}

func TestStatus(t *testing.T) {
	roster := familyRoster()

	status := Status(roster, model.Assignments{"erin": "ana", "ana": "erin"})

	assert.Equal(t, 11, status.Total)
	assert.Equal(t, 2, status.Assigned)
	assert.False(t, status.Complete)
	assert.Len(t, status.Unassigned, 9)
	assert.Equal(t, "Thomas", status.Unassigned[0])
	assert.NotContains(t, status.Unassigned, "Erin")
	assert.Len(t, status.Rules, 10)
	assert.Equal(t, model.DrawingRule{ParticipantID: "erin", Name: "Erin", CannotDraw: []string{"Thomas"}}, status.Rules[0])
}

func TestOptions(t *testing.T) {
	roster := rosterOf(
		model.Participant{ID: "ana", Name: "Ana"},
		model.Participant{ID: "erin", Name: "Erin", Exclusions: []string{"thomas"}},
		model.Participant{ID: "thomas", Name: "Thomas", Exclusions: []string{"erin"}},
		model.Participant{ID: "wes", Name: "Wes"},
	)

	tests := []struct {
		name     string
		mapping  model.Assignments
		acting   string
		expected []model.RecipientOption
	}{
		{
			name:    "Excludes self, partner and drawn recipients",
			mapping: model.Assignments{"ana": "wes"},
			acting:  "erin",
			expected: []model.RecipientOption{
				{ID: "ana", Name: "Ana"},
			},
		},
		{
			name:     "Already assigned giver has no options",
			mapping:  model.Assignments{"erin": "ana"},
			acting:   "erin",
			expected: nil,
		},
		{
			name:     "Unknown participant",
			mapping:  model.Assignments{},
			acting:   "zed",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Options(roster, tt.mapping, tt.acting))
		})
	}
}

func TestLookupParticipant(t *testing.T) {
	roster := familyRoster()

	p, err := LookupParticipant(roster, "vv")
	assert.NoError(t, err)
	assert.Equal(t, "VV", p.Name)

	_, err = LookupParticipant(roster, "")
	requireDomainError(t, err, model.ErrCodeMissingField)

	_, err = LookupParticipant(roster, "santa")
	requireDomainError(t, err, model.ErrCodeUnknownParticipant)
}
