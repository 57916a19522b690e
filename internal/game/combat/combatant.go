// Package combat implements the turn-based combat core: combatants and their
// resource pools, ability resolution, and the encounter state machine.
package combat

import (
	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// Faction distinguishes player-controlled combatants from everyone else.
type Faction int

const (
	FactionPlayer Faction = iota
	FactionEnemy
)

// String returns "player" or "enemy".
func (f Faction) String() string {
	if f == FactionPlayer {
		return "player"
	}
	return "enemy"
}

// Stats is the immutable starting data of a combatant.
type Stats struct {
	ID        string
	Name      string
	Faction   Faction
	MaxBlood  int
	MaxAnger  int
	Abilities []*ability.Definition
}

// Combatant is one participant in an encounter.
//
// Invariants: 0 <= Blood() <= MaxBlood(); 0 <= Anger() <= MaxAnger().
// A combatant whose blood reaches zero is defeated until re-initialized.
// Not safe for concurrent use; the owning Encounter serialises access.
type Combatant struct {
	stats     Stats
	blood     int
	anger     int
	defeated  bool
	abilities []*Ability
	effects   *effect.Set

	emitter  Emitter
	resolver *Resolver
}

// NewCombatant creates a combatant at full blood and zero anger.
//
// Precondition: s.ID must be non-empty and unique within an encounter;
// s.MaxBlood >= 1; s.MaxAnger >= 0.
// Postcondition: The combatant is initialized; Bind must be called before UseAbility.
func NewCombatant(s Stats) *Combatant {
	c := &Combatant{stats: s, effects: effect.NewSet(s.ID)}
	c.Initialize()
	return c
}

// Bind wires the combatant to its signal sink and ability resolver.
// Either may be nil: a nil emitter drops signals, a nil resolver makes
// UseAbility a no-op.
func (c *Combatant) Bind(em Emitter, r *Resolver) {
	c.emitter = em
	c.resolver = r
}

// Initialize resets blood to max, anger to zero, clears status effects and
// the defeated flag, and rebuilds the per-owner ability records. Every
// cleared effect is signalled as removed.
//
// Postcondition: Calling Initialize repeatedly yields identical state.
func (c *Combatant) Initialize() {
	c.blood = c.stats.MaxBlood
	c.anger = 0
	c.defeated = false
	for _, e := range c.effects.All() {
		c.RemoveStatusEffect(e)
	}
	c.abilities = make([]*Ability, 0, len(c.stats.Abilities))
	for _, def := range c.stats.Abilities {
		c.abilities = append(c.abilities, &Ability{def: def, owner: c, lastTurn: -1})
	}
	c.emitResources()
}

func (c *Combatant) ID() string               { return c.stats.ID }
func (c *Combatant) Name() string             { return c.stats.Name }
func (c *Combatant) Faction() Faction         { return c.stats.Faction }
func (c *Combatant) IsPlayerControlled() bool { return c.stats.Faction == FactionPlayer }
func (c *Combatant) Blood() int               { return c.blood }
func (c *Combatant) MaxBlood() int            { return c.stats.MaxBlood }
func (c *Combatant) Anger() int               { return c.anger }
func (c *Combatant) MaxAnger() int            { return c.stats.MaxAnger }

// IsDefeated reports whether the combatant's blood has reached zero.
func (c *Combatant) IsDefeated() bool { return c.defeated }

// Abilities returns the per-owner ability records in authored order.
func (c *Combatant) Abilities() []*Ability {
	out := make([]*Ability, len(c.abilities))
	copy(out, c.abilities)
	return out
}

// Ability returns the owned ability with the given definition ID.
func (c *Combatant) Ability(id string) (*Ability, bool) {
	for _, a := range c.abilities {
		if a.def.ID == id {
			return a, true
		}
	}
	return nil, false
}

// StatusEffects returns the attached effects in attachment order.
func (c *Combatant) StatusEffects() []*effect.Effect { return c.effects.All() }

// HasStatus reports whether an effect of kind k is attached.
func (c *Combatant) HasStatus(k effect.Kind) bool { return c.effects.Has(k) }

// TakeDamage runs amount through the incoming damage modifiers, deals at
// least 1, and grants anger equal to half the final damage rounded up.
// Defeated combatants ignore further damage.
//
// Precondition: amount >= 0.
// Postcondition: Returns the final damage dealt (0 iff already defeated);
// Blood() >= 0; the defeated signal fires at most once per initialization.
func (c *Combatant) TakeDamage(amount int, sourceID string) int {
	if c.defeated {
		return 0
	}
	dmg := c.effects.ModifyIncomingDamage(amount, sourceID)
	if dmg < 1 {
		dmg = 1
	}
	c.blood -= dmg
	if c.blood < 0 {
		c.blood = 0
	}
	c.emit(Event{Type: EventBloodChanged, Combatant: c, Current: c.blood, Max: c.stats.MaxBlood})
	c.GainAnger((dmg + 1) / 2)
	if c.blood == 0 {
		c.defeated = true
		c.emit(Event{Type: EventDefeated, Combatant: c})
	}
	return dmg
}

// Heal restores up to amount blood, capped at MaxBlood. Defeated combatants
// are not revived.
//
// Postcondition: Returns the blood actually restored.
func (c *Combatant) Heal(amount int) int {
	if c.defeated || amount <= 0 {
		return 0
	}
	before := c.blood
	c.blood += amount
	if c.blood > c.stats.MaxBlood {
		c.blood = c.stats.MaxBlood
	}
	if c.blood != before {
		c.emit(Event{Type: EventBloodChanged, Combatant: c, Current: c.blood, Max: c.stats.MaxBlood})
	}
	return c.blood - before
}

// GainAnger runs amount through the anger gain modifiers and adds the result,
// clamped to [0, MaxAnger].
//
// Postcondition: Always returns true.
func (c *Combatant) GainAnger(amount int) bool {
	amount = c.effects.ModifyAngerGain(amount)
	c.setAnger(c.anger + amount)
	return true
}

// SpendAnger deducts cost if the combatant can afford it.
//
// Precondition: cost >= 0.
// Postcondition: Returns false with no mutation when Anger() < cost.
func (c *Combatant) SpendAnger(cost int) bool {
	if c.anger < cost {
		return false
	}
	c.setAnger(c.anger - cost)
	return true
}

func (c *Combatant) setAnger(v int) {
	if v < 0 {
		v = 0
	}
	if v > c.stats.MaxAnger {
		v = c.stats.MaxAnger
	}
	if v == c.anger {
		return
	}
	c.anger = v
	c.emit(Event{Type: EventAngerChanged, Combatant: c, Current: c.anger, Max: c.stats.MaxAnger})
}

// SelfHarm converts blood into anger: the combatant takes cost damage from
// itself, then gains cost anger on top of the anger the damage already grants.
//
// Precondition: cost >= 1.
// Postcondition: Returns the damage taken; no-op when defeated.
func (c *Combatant) SelfHarm(cost int) int {
	if c.defeated {
		return 0
	}
	dmg := c.TakeDamage(cost, c.stats.ID)
	c.GainAnger(cost)
	return dmg
}

// EffectiveCost returns the anger cost of a after Focus modifiers.
func (c *Combatant) EffectiveCost(a *Ability) int {
	return c.effects.ModifyAbilityCost(a.def.AngerCost)
}

// CanUseAbility reports whether the combatant can pay for a right now.
func (c *Combatant) CanUseAbility(a *Ability) bool {
	return !c.defeated && a != nil && c.anger >= c.EffectiveCost(a)
}

// UseAbility spends the ability's cost and resolves it against target.
// Area abilities ignore target and hit every valid live combatant.
//
// Insufficient anger, a foreign ability record, or an invalid target is
// rejected silently before any state changes.
//
// Postcondition: Returns (resolution, true) iff the ability was executed.
func (c *Combatant) UseAbility(a *Ability, target *Combatant) (Resolution, bool) {
	if c.resolver == nil || a == nil || a.owner != c || !c.CanUseAbility(a) {
		return Resolution{}, false
	}
	if !a.def.Target.IsArea() && !a.IsValidTarget(target) {
		return Resolution{}, false
	}
	if !c.SpendAnger(c.EffectiveCost(a)) {
		return Resolution{}, false
	}
	a.uses++
	res := c.resolver.Execute(c, a, target)
	c.emit(Event{Type: EventAbilityUsed, Combatant: c, Target: res.Target, Ability: a})
	return res, true
}

// AddStatusEffect attaches e and signals it.
func (c *Combatant) AddStatusEffect(e *effect.Effect) {
	c.effects.Attach(e)
	c.emit(Event{Type: EventEffectAdded, Combatant: c, Effect: e})
}

// RemoveStatusEffect detaches e if attached.
//
// Postcondition: Returns true iff e was attached.
func (c *Combatant) RemoveStatusEffect(e *effect.Effect) bool {
	if !c.effects.Detach(e) {
		return false
	}
	c.emit(Event{Type: EventEffectRemoved, Combatant: c, Effect: e})
	return true
}

// UpdateStatusEffects processes one end-of-turn tick: every effect loses one
// turn (reverse attachment order), bleed damage is dealt through TakeDamage,
// and expired effects are detached afterwards.
func (c *Combatant) UpdateStatusEffects() {
	res := c.effects.Tick()
	for _, dmg := range res.Bleeds {
		c.TakeDamage(dmg, c.stats.ID)
	}
	for _, e := range res.Expired {
		c.RemoveStatusEffect(e)
	}
}

func (c *Combatant) emitResources() {
	c.emit(Event{Type: EventBloodChanged, Combatant: c, Current: c.blood, Max: c.stats.MaxBlood})
	c.emit(Event{Type: EventAngerChanged, Combatant: c, Current: c.anger, Max: c.stats.MaxAnger})
}

func (c *Combatant) emit(ev Event) {
	if c.emitter != nil {
		c.emitter.Publish(ev)
	}
}
