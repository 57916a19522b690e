package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// angerDamageBonus is the damage bonus at full anger.
const angerDamageBonus = 0.5

// Hit records what one target received from an ability.
type Hit struct {
	Target  *Combatant
	Damage  int
	Healed  int
	Anger   int
	Effects []*effect.Effect
}

// Resolution reports the outcome of one ability execution.
type Resolution struct {
	Ability *Ability
	User    *Combatant
	// Target is the combatant the ability was finally aimed at; nil for area abilities.
	Target     *Combatant
	Redirected bool
	Hits       []Hit
}

// Resolver computes and applies ability outcomes against a roster.
type Resolver struct {
	roster func() []*Combatant
	src    effect.Source
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: roster, src, and logger must be non-nil. roster is called
// on every targeting decision and must return the full encounter roster.
func NewResolver(roster func() []*Combatant, src effect.Source, logger *zap.Logger) *Resolver {
	return &Resolver{roster: roster, src: src, logger: logger}
}

// IsValidTarget reports whether candidate matches def's target type.
// The classifier is relative to owner: allies share the owner's faction and
// enemies do not, so an enemy's SingleAlly ability targets other enemies.
// Defeated combatants are never valid.
func IsValidTarget(owner *Combatant, def *ability.Definition, candidate *Combatant) bool {
	if owner == nil || candidate == nil || candidate.IsDefeated() {
		return false
	}
	switch def.Target {
	case ability.TargetSelf:
		return candidate == owner
	case ability.TargetSingleAlly, ability.TargetAllAllies:
		return candidate.Faction() == owner.Faction()
	case ability.TargetSingleEnemy, ability.TargetAllEnemies:
		return candidate.Faction() != owner.Faction()
	case ability.TargetAll:
		return true
	}
	return false
}

// ValidTargets filters the current roster through IsValidTarget.
//
// Postcondition: Never cached; reflects defeats since the last call.
func (r *Resolver) ValidTargets(a *Ability) []*Combatant {
	var out []*Combatant
	for _, c := range r.roster() {
		if IsValidTarget(a.owner, a.def, c) {
			out = append(out, c)
		}
	}
	return out
}

// AngerMultiplier returns 1 + (anger / maxAnger) * 0.5, or 1 when the user
// has no anger pool.
func AngerMultiplier(user *Combatant) float64 {
	if user.MaxAnger() <= 0 {
		return 1
	}
	return 1 + float64(user.Anger())/float64(user.MaxAnger())*angerDamageBonus
}

// FinalDamage returns def's base damage scaled by the user's anger and then
// by the user's outgoing damage modifiers, rounding half away from zero.
func FinalDamage(user *Combatant, def *ability.Definition) int {
	if def.BaseDamage <= 0 {
		return 0
	}
	scaled := roundHalfAway(float64(def.BaseDamage) * AngerMultiplier(user))
	return user.effects.ModifyOutgoingDamage(scaled)
}

// Execute applies a to its target(s) in order: damage, healing, anger
// generation, then status effects. Earlier steps are never rolled back.
//
// Precondition: target has already been validated for single-target
// abilities; the resolver does not re-validate.
func (r *Resolver) Execute(user *Combatant, a *Ability, target *Combatant) Resolution {
	def := a.def
	res := Resolution{Ability: a, User: user}
	dmg := FinalDamage(user, def)

	var targets []*Combatant
	if def.Target.IsArea() {
		targets = r.ValidTargets(a)
	} else {
		if def.Target.IsSingle() && def.BaseDamage > 0 {
			target, res.Redirected = r.redirect(user, target)
		}
		res.Target = target
		targets = []*Combatant{target}
	}

	for _, t := range targets {
		hit := Hit{Target: t}
		if dmg > 0 {
			hit.Damage = t.TakeDamage(dmg, user.ID())
		}
		if def.Healing > 0 {
			hit.Healed = t.Heal(def.Healing)
		}
		if def.AngerGeneration > 0 {
			t.GainAnger(def.AngerGeneration)
			hit.Anger = def.AngerGeneration
		}
		for _, tmpl := range def.Effects() {
			e := effect.New(tmpl, user.ID())
			t.AddStatusEffect(e)
			hit.Effects = append(hit.Effects, e)
		}
		res.Hits = append(res.Hits, hit)
	}
	r.logger.Debug("ability resolved",
		zap.String("ability", def.ID),
		zap.String("user", user.ID()),
		zap.Int("targets", len(res.Hits)),
		zap.Int("damage", dmg),
		zap.Bool("redirected", res.Redirected),
	)
	return res
}

// redirect decides the final target of a single-target attack. Live
// combatants hostile to the user are consulted first, in roster order, and
// the first carrying a Taunt draws the attack. Otherwise the user's own
// Confusion may pick any live combatant. A redirect to a combatant that is
// no longer live keeps the original target.
func (r *Resolver) redirect(user, target *Combatant) (*Combatant, bool) {
	live := make([]*Combatant, 0)
	ids := make([]string, 0)
	for _, c := range r.roster() {
		if !c.IsDefeated() {
			live = append(live, c)
			ids = append(ids, c.ID())
		}
	}
	ok, id := false, target.ID()
	for _, c := range live {
		if c.Faction() == user.Faction() {
			continue
		}
		if ok, id = c.effects.RedirectTarget(target.ID(), nil, nil); ok {
			break
		}
	}
	if !ok {
		ok, id = user.effects.Confuse(target.ID(), ids, r.src)
	}
	if !ok || id == target.ID() {
		return target, false
	}
	for _, c := range live {
		if c.ID() == id {
			r.logger.Debug("target redirected",
				zap.String("user", user.ID()),
				zap.String("from", target.ID()),
				zap.String("to", id),
			)
			return c, true
		}
	}
	return target, false
}

func roundHalfAway(v float64) int {
	return int(math.Round(v))
}
