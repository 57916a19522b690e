package ai

import (
	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// CombatantState captures a combatant's state at planning time.
type CombatantState struct {
	ID       string
	Name     string
	Blood    int
	MaxBlood int
	Anger    int
	MaxAnger int
	Effects  []string
}

// BloodPercent returns current blood as a percentage of MaxBlood; 0 if MaxBlood == 0.
func (c *CombatantState) BloodPercent() float64 {
	if c.MaxBlood <= 0 {
		return 0
	}
	return float64(c.Blood) / float64(c.MaxBlood) * 100
}

// AbilityState describes one of the planning combatant's abilities.
type AbilityState struct {
	ID         string
	Name       string
	Target     ability.TargetType
	Cost       int
	Damage     int
	Healing    int
	Affordable bool
	// Targets holds the IDs this ability may currently target. Empty for
	// area abilities, which need no explicit target.
	Targets []string
}

// WorldState is the snapshot a decision is made from.
//
// Invariant: Self must not be nil.
type WorldState struct {
	Self      *CombatantState
	Abilities []AbilityState
	Allies    []*CombatantState
	Enemies   []*CombatantState
	Turn      int
	Round     int
}

// BuildWorldState snapshots view for its acting combatant.
//
// Precondition: view.Self must not be nil.
// Postcondition: ws.Self.ID == view.Self.ID(); allies and enemies keep view order.
func BuildWorldState(view combat.TurnView) *WorldState {
	self := view.Self
	ws := &WorldState{
		Self:  snapshot(self),
		Turn:  view.Turn,
		Round: view.Round,
	}
	for _, c := range view.Allies {
		ws.Allies = append(ws.Allies, snapshot(c))
	}
	for _, c := range view.Enemies {
		ws.Enemies = append(ws.Enemies, snapshot(c))
	}
	everyone := append(append([]*combat.Combatant{self}, view.Allies...), view.Enemies...)
	for _, a := range self.Abilities() {
		def := a.Definition()
		st := AbilityState{
			ID:         def.ID,
			Name:       def.Name,
			Target:     def.Target,
			Cost:       self.EffectiveCost(a),
			Damage:     combat.FinalDamage(self, def),
			Healing:    def.Healing,
			Affordable: self.CanUseAbility(a),
		}
		if !def.Target.IsArea() {
			for _, c := range everyone {
				if combat.IsValidTarget(self, def, c) {
					st.Targets = append(st.Targets, c.ID())
				}
			}
		}
		ws.Abilities = append(ws.Abilities, st)
	}
	return ws
}

func snapshot(c *combat.Combatant) *CombatantState {
	st := &CombatantState{
		ID:       c.ID(),
		Name:     c.Name(),
		Blood:    c.Blood(),
		MaxBlood: c.MaxBlood(),
		Anger:    c.Anger(),
		MaxAnger: c.MaxAnger(),
	}
	for _, e := range c.StatusEffects() {
		st.Effects = append(st.Effects, e.Kind().String())
	}
	return st
}

// Ability returns the state of the ability with the given ID.
func (ws *WorldState) Ability(id string) (AbilityState, bool) {
	for _, a := range ws.Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return AbilityState{}, false
}

// HasLivingEnemies reports whether any enemy remains.
func (ws *WorldState) HasLivingEnemies() bool { return len(ws.Enemies) > 0 }

// FirstEnemy returns the first enemy in roster order, or nil.
func (ws *WorldState) FirstEnemy() *CombatantState {
	if len(ws.Enemies) == 0 {
		return nil
	}
	return ws.Enemies[0]
}

// WeakestEnemy returns the enemy with the lowest blood percentage, or nil.
//
// Postcondition: ties broken by roster order.
func (ws *WorldState) WeakestEnemy() *CombatantState {
	return lowest(ws.Enemies)
}

// StrongestEnemy returns the enemy with the highest blood percentage, or nil.
//
// Postcondition: ties broken by roster order.
func (ws *WorldState) StrongestEnemy() *CombatantState {
	if len(ws.Enemies) == 0 {
		return nil
	}
	best := ws.Enemies[0]
	for _, e := range ws.Enemies[1:] {
		if e.BloodPercent() > best.BloodPercent() {
			best = e
		}
	}
	return best
}

// WeakestAlly returns the member of Self's side, Self included, with the
// lowest blood percentage.
func (ws *WorldState) WeakestAlly() *CombatantState {
	return lowest(append([]*CombatantState{ws.Self}, ws.Allies...))
}

func lowest(cs []*CombatantState) *CombatantState {
	if len(cs) == 0 {
		return nil
	}
	low := cs[0]
	for _, c := range cs[1:] {
		if c.BloodPercent() < low.BloodPercent() {
			low = c
		}
	}
	return low
}

// ResolveTarget maps a target token to a combatant ID.
//
// Postcondition: the tokens "self", "first_enemy", "weakest_enemy",
// "strongest_enemy" and "weakest_ally" resolve to IDs, or "" when nobody
// matches; any other token is returned unchanged.
func (ws *WorldState) ResolveTarget(token string) string {
	var c *CombatantState
	switch token {
	case "self":
		c = ws.Self
	case "first_enemy":
		c = ws.FirstEnemy()
	case "weakest_enemy":
		c = ws.WeakestEnemy()
	case "strongest_enemy":
		c = ws.StrongestEnemy()
	case "weakest_ally":
		c = ws.WeakestAlly()
	default:
		return token
	}
	if c == nil {
		return ""
	}
	return c.ID
}

// Table renders the snapshot as plain values for the scripting layer.
func (ws *WorldState) Table() map[string]any {
	abilities := make([]map[string]any, 0, len(ws.Abilities))
	for _, a := range ws.Abilities {
		targets := a.Targets
		if targets == nil {
			targets = []string{}
		}
		abilities = append(abilities, map[string]any{
			"id":         a.ID,
			"name":       a.Name,
			"target":     a.Target.String(),
			"cost":       a.Cost,
			"damage":     a.Damage,
			"healing":    a.Healing,
			"affordable": a.Affordable,
			"targets":    targets,
		})
	}
	return map[string]any{
		"self":      combatantTable(ws.Self),
		"abilities": abilities,
		"allies":    combatantTables(ws.Allies),
		"enemies":   combatantTables(ws.Enemies),
		"turn":      ws.Turn,
		"round":     ws.Round,
	}
}

func combatantTables(cs []*CombatantState) []map[string]any {
	out := make([]map[string]any, 0, len(cs))
	for _, c := range cs {
		out = append(out, combatantTable(c))
	}
	return out
}

func combatantTable(c *CombatantState) map[string]any {
	effects := c.Effects
	if effects == nil {
		effects = []string{}
	}
	return map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"blood":     c.Blood,
		"max_blood": c.MaxBlood,
		"anger":     c.Anger,
		"max_anger": c.MaxAnger,
		"effects":   effects,
	}
}
