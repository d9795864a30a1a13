package draw

import "gift-exchange/internal/model"

// Unassigned returns the participants that have not drawn yet, in roster order.
func Unassigned(roster *model.Roster, mapping model.Assignments) []model.Participant {
	var out []model.Participant
	for _, p := range roster.Participants {
		if _, ok := recipientOf(mapping, p.ID); !ok {
			out = append(out, p)
		}
	}
	return out
}

// Status summarises a draw without exposing who drew whom.
func Status(roster *model.Roster, mapping model.Assignments) *model.DrawStatus {
	missing := Unassigned(roster, mapping)
	names := make([]string, len(missing))
	for i, p := range missing {
		names[i] = p.Name
	}

	return &model.DrawStatus{
		Total:      len(roster.Participants),
		Assigned:   len(roster.Participants) - len(missing),
		Unassigned: names,
		Complete:   len(missing) == 0,
		Rules:      Rules(roster),
	}
}

// Rules lists, by name, who each participant with exclusions cannot draw.
func Rules(roster *model.Roster) []model.DrawingRule {
	var rules []model.DrawingRule
	for _, p := range roster.Participants {
		if len(p.Exclusions) == 0 {
			continue
		}
		names := make([]string, 0, len(p.Exclusions))
		for _, id := range p.Exclusions {
			names = append(names, roster.DisplayName(id))
		}
		rules = append(rules, model.DrawingRule{
			ParticipantID: p.ID,
			Name:          p.Name,
			CannotDraw:    names,
		})
	}
	return rules
}

// Options returns the recipients actingID may still record manually. It is
// empty when the participant already has a recipient or is unknown.
func Options(roster *model.Roster, mapping model.Assignments, actingID string) []model.RecipientOption {
	giver, ok := roster.Lookup(actingID)
	if !ok {
		return nil
	}
	if _, assigned := recipientOf(mapping, giver.ID); assigned {
		return nil
	}

	used := mapping.Recipients()
	options := []model.RecipientOption{}
	for _, p := range roster.Participants {
		if p.ID == giver.ID || giver.Excludes(p.ID) {
			continue
		}
		if _, taken := used[p.ID]; taken {
			continue
		}
		options = append(options, model.RecipientOption{ID: p.ID, Name: p.Name})
	}
	return options
}
