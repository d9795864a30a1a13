package draw

import (
	"fmt"

	"gift-exchange/internal/model"
)

// AcceptManual records a single giver -> recipient entry that the giver drew
// outside the system. It returns a new mapping and leaves the input untouched.
//
// The caller is responsible for establishing who actingID is; this function
// only checks that a participant records their own draw. When giverID is empty
// the acting participant is assumed to be the giver.
func AcceptManual(roster *model.Roster, mapping model.Assignments, actingID, giverID, recipientID string) (model.Assignments, error) {
	if actingID == "" {
		return nil, model.ErrActingParticipant
	}
	if giverID == "" {
		giverID = actingID
	}
	if giverID != actingID {
		return nil, model.ErrNotActingGiver
	}

	giver, ok := roster.Lookup(giverID)
	if !ok {
		return nil, unknownParticipantError(giverID)
	}

	if current, assigned := recipientOf(mapping, giver.ID); assigned {
		return nil, model.NewParticipantError(
			model.ErrCodeAlreadyAssigned,
			giver.Name,
			fmt.Sprintf("You already recorded %s. Ask an organizer if you need to make a change.", roster.DisplayName(current)),
		)
	}

	if recipientID == "" {
		return nil, model.ErrRecipientRequired
	}
	if _, ok := roster.Lookup(recipientID); !ok {
		return nil, unknownParticipantError(recipientID)
	}

	if recipientID == giver.ID {
		return nil, selfDrawError(giver)
	}
	if giver.Excludes(recipientID) {
		return nil, excludedError(roster, giver, recipientID)
	}

	for otherID, otherRecipient := range mapping {
		if otherID != giver.ID && otherRecipient == recipientID {
			return nil, model.NewParticipantError(
				model.ErrCodeDuplicateRecipient,
				giver.Name,
				fmt.Sprintf("%s is already assigned to %s.", roster.DisplayName(recipientID), roster.DisplayName(otherID)),
			)
		}
	}

	next := mapping.Clone()
	next[giver.ID] = recipientID

	if err := Validate(roster, next); err != nil {
		return nil, err
	}

	return next, nil
}
