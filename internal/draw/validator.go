package draw

import (
	"fmt"
	"sort"

	"gift-exchange/internal/model"
)

// Validate checks a complete or partial mapping against the roster.
//
// Participants are walked in roster order and, for each one with a recipient,
// self-draws, exclusions and recipient uniqueness are checked in that order.
// The first violation wins, so the result is deterministic for a given roster
// order. Ids that are not on the roster are reported after the walk.
// The returned error is always a *model.DomainError.
func Validate(roster *model.Roster, mapping model.Assignments) error {
	owners := make(map[string]string, len(mapping))

	for _, giver := range roster.Participants {
		recipientID, ok := recipientOf(mapping, giver.ID)
		if !ok {
			continue
		}

		if recipientID == giver.ID {
			return selfDrawError(giver)
		}

		if giver.Excludes(recipientID) {
			return excludedError(roster, giver, recipientID)
		}

		if owner, taken := owners[recipientID]; taken {
			return model.NewParticipantError(
				model.ErrCodeDuplicateRecipient,
				giver.Name,
				fmt.Sprintf("%s is already assigned to %s.", roster.DisplayName(recipientID), owner),
			)
		}
		owners[recipientID] = giver.Name
	}

	return validateMembership(roster, mapping)
}

// validateMembership reports givers or recipients that are not on the roster.
// Keys are visited in sorted order to keep the result stable.
func validateMembership(roster *model.Roster, mapping model.Assignments) error {
	givers := make([]string, 0, len(mapping))
	for giverID := range mapping {
		givers = append(givers, giverID)
	}
	sort.Strings(givers)

	for _, giverID := range givers {
		recipientID := mapping[giverID]
		if recipientID == "" {
			continue
		}
		if _, ok := roster.Lookup(giverID); !ok {
			return unknownParticipantError(giverID)
		}
		if _, ok := roster.Lookup(recipientID); !ok {
			return unknownParticipantError(recipientID)
		}
	}

	return nil
}

// recipientOf treats empty values the same as missing keys.
func recipientOf(mapping model.Assignments, giverID string) (string, bool) {
	recipientID, ok := mapping[giverID]
	if !ok || recipientID == "" {
		return "", false
	}
	return recipientID, true
}

func selfDrawError(giver model.Participant) error {
	return model.NewParticipantError(
		model.ErrCodeSelfDraw,
		giver.Name,
		fmt.Sprintf("%s cannot draw themselves.", giver.Name),
	)
}

func excludedError(roster *model.Roster, giver model.Participant, recipientID string) error {
	return model.NewParticipantError(
		model.ErrCodeExcludedPair,
		giver.Name,
		fmt.Sprintf("%s cannot draw %s.", giver.Name, roster.DisplayName(recipientID)),
	)
}

func unknownParticipantError(id string) error {
	return model.NewParticipantError(
		model.ErrCodeUnknownParticipant,
		id,
		fmt.Sprintf("%q is not on the roster.", id),
	)
}
