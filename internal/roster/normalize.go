package roster

import (
	"fmt"
	"slices"
	"strings"

	"gift-exchange/internal/model"

	"github.com/rs/zerolog"
)

// Normalize checks a roster and applies the exclusion policy. It returns a new
// roster; the input is not modified.
//
// Ids must be unique and non-empty, and exclusions must name other roster
// members. Names default to the id. Duplicate exclusions are dropped.
func Normalize(in *model.Roster, policy Policy, logger zerolog.Logger) (*model.Roster, error) {
	if in == nil || len(in.Participants) == 0 {
		return nil, invalid("roster has no participants")
	}

	out := &model.Roster{
		Participants: make([]model.Participant, len(in.Participants)),
		Wishlists:    make(map[string]model.Wishlist, len(in.Wishlists)),
	}
	index := make(map[string]int, len(in.Participants))

	for i, p := range in.Participants {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return nil, invalid(fmt.Sprintf("participant %d has no id", i+1))
		}
		if _, dup := index[id]; dup {
			return nil, invalid(fmt.Sprintf("participant id %q is listed twice", id))
		}
		index[id] = i

		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = id
		}
		out.Participants[i] = model.Participant{ID: id, Name: name}
	}

	for i, p := range in.Participants {
		owner := &out.Participants[i]
		owner.Exclusions = []string{}
		for _, raw := range p.Exclusions {
			excluded := strings.TrimSpace(raw)
			if excluded == owner.ID {
				return nil, invalid(fmt.Sprintf("%s lists themselves as an exclusion", owner.Name))
			}
			if _, ok := index[excluded]; !ok {
				return nil, invalid(fmt.Sprintf("%s excludes unknown participant %q", owner.Name, excluded))
			}
			if !slices.Contains(owner.Exclusions, excluded) {
				owner.Exclusions = append(owner.Exclusions, excluded)
			}
		}
	}

	if err := applyPolicy(out, index, policy, logger); err != nil {
		return nil, err
	}

	for id, wishlist := range in.Wishlists {
		if _, ok := index[id]; !ok {
			return nil, invalid(fmt.Sprintf("wishlist for unknown participant %q", id))
		}
		out.Wishlists[id] = wishlist
	}

	return out, nil
}

func applyPolicy(r *model.Roster, index map[string]int, policy Policy, logger zerolog.Logger) error {
	if policy == PolicyDirectional {
		return nil
	}

	type pair struct{ from, to int }
	var missing []pair
	for i, p := range r.Participants {
		for _, excluded := range p.Exclusions {
			j := index[excluded]
			if !r.Participants[j].Excludes(p.ID) {
				missing = append(missing, pair{from: j, to: i})
			}
		}
	}

	for _, m := range missing {
		from, to := &r.Participants[m.from], r.Participants[m.to]
		if policy == PolicyStrict {
			return invalid(fmt.Sprintf("%s excludes %s but not the other way around", to.Name, from.Name))
		}
		if !from.Excludes(to.ID) {
			from.Exclusions = append(from.Exclusions, to.ID)
		}
		logger.Warn().
			Str("participant", from.ID).
			Str("excluded", to.ID).
			Msg("mirrored one-sided exclusion")
	}

	return nil
}

func invalid(message string) error {
	return model.NewDomainError(model.ErrCodeInvalidRoster, "invalid roster: "+message)
}
