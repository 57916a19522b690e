package combat

import (
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// CombatantView is a point-in-time copy of a combatant's visible state.
// Views never change after they are built and are safe to read from any
// goroutine.
type CombatantView struct {
	ID        string
	Name      string
	Faction   Faction
	Blood     int
	MaxBlood  int
	Anger     int
	MaxAnger  int
	Defeated  bool
	Effects   []EffectView
	Abilities []AbilityView
}

// EffectView is a copy of one attached status effect.
type EffectView struct {
	Name      string
	Kind      effect.Kind
	Remaining int
	Magnitude float64
}

// AbilityView is a copy of one per-owner ability record.
type AbilityView struct {
	ID   string
	Name string
	// Cost is the anger cost after the owner's Focus effects.
	Cost       int
	Affordable bool
	Uses       int
	// LastUsedTurn is -1 until the ability is used in an encounter.
	LastUsedTurn int
}

// View copies the combatant's current state.
func (c *Combatant) View() CombatantView {
	v := CombatantView{
		ID:       c.stats.ID,
		Name:     c.stats.Name,
		Faction:  c.stats.Faction,
		Blood:    c.blood,
		MaxBlood: c.stats.MaxBlood,
		Anger:    c.anger,
		MaxAnger: c.stats.MaxAnger,
		Defeated: c.defeated,
	}
	for _, e := range c.effects.All() {
		v.Effects = append(v.Effects, EffectView{
			Name:      e.Name(),
			Kind:      e.Kind(),
			Remaining: e.Remaining,
			Magnitude: e.Magnitude,
		})
	}
	for _, a := range c.abilities {
		v.Abilities = append(v.Abilities, AbilityView{
			ID:           a.def.ID,
			Name:         a.def.Name,
			Cost:         c.EffectiveCost(a),
			Affordable:   c.CanUseAbility(a),
			Uses:         a.uses,
			LastUsedTurn: a.lastTurn,
		})
	}
	return v
}

func views(cs []*Combatant) []CombatantView {
	out := make([]CombatantView, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.View())
	}
	return out
}
