package effect

import "math"

// Effect is one applied instance of a Template on exactly one owner.
type Effect struct {
	Template *Template
	// Remaining is the number of owner turn-end ticks left. The effect expires
	// when Remaining <= 0.
	Remaining int
	Magnitude float64
	// OwnerID is the combatant the effect is attached to; set on Attach.
	OwnerID string
	// AppliedBy is the combatant whose ability created the effect, or empty.
	AppliedBy string

	attached bool
}

// New instantiates t as a fresh Effect created by appliedBy.
//
// Precondition: t must not be nil.
// Postcondition: Remaining == t.Duration and Magnitude == t.Magnitude.
func New(t *Template, appliedBy string) *Effect {
	return &Effect{
		Template:  t,
		Remaining: t.Duration,
		Magnitude: t.Magnitude,
		AppliedBy: appliedBy,
	}
}

// Kind returns the template kind.
func (e *Effect) Kind() Kind { return e.Template.Kind }

// Name returns the template display name, falling back to the kind.
func (e *Effect) Name() string {
	if e.Template.Name != "" {
		return e.Template.Name
	}
	return e.Kind().String()
}

// Expired reports whether the effect has run out.
func (e *Effect) Expired() bool { return e.Remaining <= 0 }

// Attached reports whether the effect is currently part of a Set.
func (e *Effect) Attached() bool { return e.attached }

func (e *Effect) apply(ownerID string) {
	e.OwnerID = ownerID
	e.attached = true
}

func (e *Effect) remove() {
	e.attached = false
}

// Set is the ordered stack of effects attached to one combatant.
// Iteration order is attachment order. Not safe for concurrent use.
type Set struct {
	ownerID string
	effects []*Effect
}

// NewSet creates an empty Set owned by ownerID.
func NewSet(ownerID string) *Set {
	return &Set{ownerID: ownerID}
}

// OwnerID returns the combatant the set belongs to.
func (s *Set) OwnerID() string { return s.ownerID }

// Attach appends e to the set and binds it to the owner.
//
// Precondition: e must not be nil and must not be attached to another set.
// Postcondition: e.OwnerID == s.OwnerID(); e is last in attachment order.
func (s *Set) Attach(e *Effect) {
	e.apply(s.ownerID)
	s.effects = append(s.effects, e)
}

// Detach removes e from the set, preserving the order of the rest.
//
// Postcondition: Returns true iff e was present; e is no longer Attached.
func (s *Set) Detach(e *Effect) bool {
	for i, cur := range s.effects {
		if cur != e {
			continue
		}
		s.effects = append(s.effects[:i], s.effects[i+1:]...)
		e.remove()
		return true
	}
	return false
}

// Has reports whether any attached effect is of kind k.
func (s *Set) Has(k Kind) bool {
	for _, e := range s.effects {
		if e.Kind() == k {
			return true
		}
	}
	return false
}

// Len returns the number of attached effects.
func (s *Set) Len() int { return len(s.effects) }

// All returns the attached effects in attachment order.
// The slice is a copy; the Effects are shared and must not be mutated.
func (s *Set) All() []*Effect {
	out := make([]*Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// TickResult reports what one Tick did.
type TickResult struct {
	// Bleeds holds the self-damage each Bleed effect inflicts this tick, in
	// tick order. The caller applies them through the normal damage pipeline.
	Bleeds []int
	// Expired holds the effects whose duration ran out. They are still
	// attached; the caller detaches them after applying Bleeds.
	Expired []*Effect
}

// Tick decrements every effect's duration by one, walking in reverse
// attachment order, and collects per-turn bleed damage and expirations.
//
// Postcondition: every attached effect has Remaining decreased by exactly 1;
// the set membership is unchanged.
func (s *Set) Tick() TickResult {
	var res TickResult
	for i := len(s.effects) - 1; i >= 0; i-- {
		e := s.effects[i]
		e.Remaining--
		if e.Kind() == KindBleed {
			res.Bleeds = append(res.Bleeds, roundHalfAway(e.Magnitude))
		}
		if e.Expired() {
			res.Expired = append(res.Expired, e)
		}
	}
	return res
}

// roundHalfAway rounds to the nearest integer, halves away from zero.
func roundHalfAway(v float64) int {
	return int(math.Round(v))
}
