package model

import "slices"

// Participant is a member of the gift exchange.
type Participant struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Exclusions []string `json:"exclusions" yaml:"exclusions"`
}

// Excludes reports whether p may not draw id.
func (p Participant) Excludes(id string) bool {
	return slices.Contains(p.Exclusions, id)
}

// Roster is the ordered list of participants. Order matters: validation walks
// it front to back and reports the first violation found.
type Roster struct {
	Participants []Participant      `json:"participants" yaml:"participants"`
	Wishlists    map[string]Wishlist `json:"wishlists,omitempty" yaml:"wishlists,omitempty"`
}

// Lookup returns the participant with the given id.
func (r *Roster) Lookup(id string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// DisplayName returns the participant's name, or "--" for unknown ids.
func (r *Roster) DisplayName(id string) string {
	if p, ok := r.Lookup(id); ok {
		return p.Name
	}
	return "--"
}

// IDs returns participant ids in roster order.
func (r *Roster) IDs() []string {
	ids := make([]string, len(r.Participants))
	for i, p := range r.Participants {
		ids[i] = p.ID
	}
	return ids
}

// Assignments maps giver id to recipient id. A missing key means the giver
// has not drawn yet.
type Assignments map[string]string

// Clone returns an independent copy. A nil receiver yields an empty map.
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Recipients returns the set of ids already drawn.
func (a Assignments) Recipients() map[string]struct{} {
	used := make(map[string]struct{}, len(a))
	for _, recipient := range a {
		if recipient == "" {
			continue
		}
		used[recipient] = struct{}{}
	}
	return used
}

// DrawingRule describes who a participant cannot draw, by name.
type DrawingRule struct {
	ParticipantID string   `json:"participantId"`
	Name          string   `json:"name"`
	CannotDraw    []string `json:"cannotDraw"`
}

// DrawStatus is the public view of a draw. It never carries the mapping.
type DrawStatus struct {
	Total           int           `json:"total"`
	Assigned        int           `json:"assigned"`
	Unassigned      []string      `json:"unassigned"`
	Complete        bool          `json:"complete"`
	AlreadyComplete bool          `json:"alreadyComplete,omitempty"`
	Rules           []DrawingRule `json:"rules,omitempty"`
	Message         string        `json:"message,omitempty"`
	Stale           bool          `json:"stale,omitempty"`
}

// ManualRequest is the payload for recording a manual draw.
type ManualRequest struct {
	GiverID     string `json:"giverId"`
	RecipientID string `json:"recipientId"`
}

// ValidateRequest is the payload for validating a candidate mapping.
type ValidateRequest struct {
	Assignments Assignments `json:"assignments"`
}

// ValidateResponse reports the outcome of a validation.
type ValidateResponse struct {
	Valid       bool   `json:"valid"`
	Error       string `json:"error,omitempty"`
	Message     string `json:"message,omitempty"`
	Participant string `json:"participant,omitempty"`
}

// RevealResponse tells a participant who they are shopping for.
type RevealResponse struct {
	ParticipantID string   `json:"participantId"`
	RecipientID   string   `json:"recipientId"`
	RecipientName string   `json:"recipientName"`
	Message       string   `json:"message"`
	Wishlist      Wishlist `json:"wishlist"`
	Stale         bool     `json:"stale,omitempty"`
}

// RecipientOption is a recipient the acting participant may still record.
type RecipientOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
