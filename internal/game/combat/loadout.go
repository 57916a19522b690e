package combat

import "github.com/cory-johannsen/bloodrage/internal/game/ability"

// Ability is one combatant's handle on a shared ability Definition.
// Per-owner mutable state lives here so the Definition stays immutable.
type Ability struct {
	def      *ability.Definition
	owner    *Combatant
	uses     int
	lastTurn int
}

// Definition returns the shared template.
func (a *Ability) Definition() *ability.Definition { return a.def }

// ID returns the template ID.
func (a *Ability) ID() string { return a.def.ID }

// Name returns the template display name.
func (a *Ability) Name() string { return a.def.Name }

// Owner returns the combatant holding this record.
func (a *Ability) Owner() *Combatant { return a.owner }

// Uses returns how many times the owner has executed the ability since
// the last Initialize.
func (a *Ability) Uses() int { return a.uses }

// LastUsedTurn returns the encounter turn on which the owner last executed
// the ability. Returns false when it has not been used since Initialize.
func (a *Ability) LastUsedTurn() (int, bool) {
	return a.lastTurn, a.lastTurn >= 0
}

// IsValidTarget reports whether candidate may be targeted by this ability.
func (a *Ability) IsValidTarget(candidate *Combatant) bool {
	return IsValidTarget(a.owner, a.def, candidate)
}

// ValidTargets returns the live combatants this ability may target, computed
// fresh from the owner's roster. Returns nil when the owner is not bound.
func (a *Ability) ValidTargets() []*Combatant {
	if a.owner.resolver == nil {
		return nil
	}
	return a.owner.resolver.ValidTargets(a)
}
