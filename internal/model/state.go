package model

import (
	"slices"
	"time"
)

// Wishlist holds gift ideas and links for one participant.
type Wishlist struct {
	Ideas []string `json:"ideas" yaml:"ideas"`
	Links []string `json:"links" yaml:"links"`
}

// Message is a note on the shared message board.
type Message struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Event is an entry on the shared calendar.
type Event struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	Location      string `json:"location,omitempty"`
	Note          string `json:"note,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
	CreatedByName string `json:"createdByName,omitempty"`
	UpdatedBy     string `json:"updatedBy,omitempty"`
	UpdatedByName string `json:"updatedByName,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// State is the single shared blob persisted by the state store.
type State struct {
	Assignments Assignments         `json:"assignments"`
	Wishlists   map[string]Wishlist `json:"wishlists"`
	Messages    []Message           `json:"messages"`
	Events      []Event             `json:"events"`
	UpdatedAt   time.Time           `json:"updatedAt,omitzero"`
}

// DefaultState returns the blob used when nothing has been stored yet.
func DefaultState() *State {
	return &State{
		Assignments: Assignments{},
		Wishlists:   map[string]Wishlist{},
		Messages:    []Message{},
		Events:      []Event{},
	}
}

// Normalize replaces nil collections with empty ones so the blob always
// serialises with every key present.
func (s *State) Normalize() *State {
	if s.Assignments == nil {
		s.Assignments = Assignments{}
	}
	if s.Wishlists == nil {
		s.Wishlists = map[string]Wishlist{}
	}
	if s.Messages == nil {
		s.Messages = []Message{}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	return s
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		Assignments: s.Assignments.Clone(),
		Wishlists:   make(map[string]Wishlist, len(s.Wishlists)),
		Messages:    slices.Clone(s.Messages),
		Events:      slices.Clone(s.Events),
		UpdatedAt:   s.UpdatedAt,
	}
	for id, w := range s.Wishlists {
		out.Wishlists[id] = Wishlist{
			Ideas: slices.Clone(w.Ideas),
			Links: slices.Clone(w.Links),
		}
	}
	return out.Normalize()
}

// StatePatch is a partial update of the shared blob. Nil fields keep the
// stored value; JSON null counts as absent.
type StatePatch struct {
	Assignments Assignments         `json:"assignments"`
	Wishlists   map[string]Wishlist `json:"wishlists"`
	Messages    []Message           `json:"messages"`
	Events      []Event             `json:"events"`
}

// Empty reports whether the patch carries no keys at all.
func (p *StatePatch) Empty() bool {
	return p.Assignments == nil && p.Wishlists == nil && p.Messages == nil && p.Events == nil
}

// Apply overlays the patch onto a copy of current.
func (p *StatePatch) Apply(current *State) *State {
	next := current.Clone()
	if p.Assignments != nil {
		next.Assignments = p.Assignments.Clone()
	}
	if p.Wishlists != nil {
		next.Wishlists = p.Wishlists
	}
	if p.Messages != nil {
		next.Messages = p.Messages
	}
	if p.Events != nil {
		next.Events = p.Events
	}
	return next.Normalize()
}

// StateResponse wraps the blob with read metadata.
type StateResponse struct {
	*State
	Stale bool `json:"stale,omitempty"`
}
