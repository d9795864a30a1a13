package draw

import "gift-exchange/internal/model"

// Reveal returns the recipient drawn by participantID. ok is false when the
// participant has not drawn yet.
func Reveal(mapping model.Assignments, participantID string) (recipientID string, ok bool) {
	if participantID == "" {
		return "", false
	}
	return recipientOf(mapping, participantID)
}

// LookupParticipant resolves the participant a request acts for.
func LookupParticipant(roster *model.Roster, id string) (model.Participant, error) {
	if id == "" {
		return model.Participant{}, model.ErrParticipantNeeded
	}
	p, ok := roster.Lookup(id)
	if !ok {
		return model.Participant{}, unknownParticipantError(id)
	}
	return p, nil
}
