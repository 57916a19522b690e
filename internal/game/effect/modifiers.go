package effect

import "slices"

// Source is the subset of dice.Source needed for Confusion rolls.
// Using a local interface avoids a dependency on the dice package.
type Source interface {
	Intn(n int) int
}

// chanceResolution is the granularity of probability rolls.
const chanceResolution = 10_000

// scale multiplies v by f and rounds half away from zero.
func scale(v int, f float64) int {
	return roundHalfAway(float64(v) * f)
}

// ModifyIncomingDamage applies Protect and Weaken effects, in attachment
// order, to damage the owner is about to take from sourceID.
// Weaken only applies when the damage is self-inflicted (sourceID is the owner).
func (s *Set) ModifyIncomingDamage(damage int, sourceID string) int {
	for _, e := range s.effects {
		switch e.Kind() {
		case KindProtect:
			damage = scale(damage, 1-e.Magnitude)
		case KindWeaken:
			if sourceID == e.OwnerID {
				damage = scale(damage, 1-e.Magnitude)
			}
		}
	}
	return damage
}

// ModifyOutgoingDamage applies Strengthen effects to damage the owner deals.
func (s *Set) ModifyOutgoingDamage(damage int) int {
	for _, e := range s.effects {
		if e.Kind() == KindStrengthen {
			damage = scale(damage, 1+e.Magnitude)
		}
	}
	return damage
}

// ModifyAngerGain applies Enrage effects to anger the owner is gaining.
func (s *Set) ModifyAngerGain(amount int) int {
	for _, e := range s.effects {
		if e.Kind() == KindEnrage {
			amount = scale(amount, 1+e.Magnitude)
		}
	}
	return amount
}

// ModifyAbilityCost applies Focus effects to an ability's anger cost.
//
// Postcondition: Returns >= 0.
func (s *Set) ModifyAbilityCost(cost int) int {
	for _, e := range s.effects {
		if e.Kind() == KindFocus {
			cost = scale(cost, 1-e.Magnitude)
		}
	}
	if cost < 0 {
		return 0
	}
	return cost
}

// RedirectTarget decides whether the owner's chosen target is replaced.
// Effects are consulted in attachment order and the first one that applies
// wins:
//   - Taunt always redirects, to the effect's owner.
//   - Confusion redirects with probability Magnitude to a uniformly chosen
//     member of rosterIDs.
//
// With an empty rosterIDs only Taunt can apply, so src may be nil.
//
// Precondition: src must be non-nil when rosterIDs is non-empty and a
// Confusion effect is attached.
// Postcondition: Returns (false, originalID) when no effect applies.
func (s *Set) RedirectTarget(originalID string, rosterIDs []string, src Source) (bool, string) {
	return s.redirect(originalID, rosterIDs, src, KindTaunt, KindConfusion)
}

// Confuse is RedirectTarget restricted to Confusion effects. A combatant's
// own Taunt draws attacks from others and never turns its own.
func (s *Set) Confuse(originalID string, rosterIDs []string, src Source) (bool, string) {
	return s.redirect(originalID, rosterIDs, src, KindConfusion)
}

func (s *Set) redirect(originalID string, rosterIDs []string, src Source, kinds ...Kind) (bool, string) {
	for _, e := range s.effects {
		if !slices.Contains(kinds, e.Kind()) {
			continue
		}
		switch e.Kind() {
		case KindTaunt:
			return true, e.OwnerID
		case KindConfusion:
			if len(rosterIDs) == 0 || !chance(src, e.Magnitude) {
				continue
			}
			return true, rosterIDs[src.Intn(len(rosterIDs))]
		}
	}
	return false, originalID
}

// chance reports whether a roll against probability p succeeds.
func chance(src Source, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return src.Intn(chanceResolution) < roundHalfAway(p*chanceResolution)
}
