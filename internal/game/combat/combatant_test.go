package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

func TestCombatant_TakeDamage_Plain(t *testing.T) {
	c := newHero()
	dealt := c.TakeDamage(20, "grunt")
	assert.Equal(t, 20, dealt)
	assert.Equal(t, 80, c.Blood())
	assert.Equal(t, 10, c.Anger())
}

func TestCombatant_TakeDamage_OddDamageRoundsAngerUp(t *testing.T) {
	c := newHero()
	c.TakeDamage(7, "grunt")
	assert.Equal(t, 4, c.Anger())
}

func TestCombatant_TakeDamage_Protected(t *testing.T) {
	c := newHero()
	c.AddStatusEffect(effect.New(tmpl(effect.KindProtect, 2, 0.5), ""))
	c.TakeDamage(20, "grunt")
	assert.Equal(t, 90, c.Blood())
	assert.Equal(t, 5, c.Anger())
}

func TestCombatant_TakeDamage_MinimumOne(t *testing.T) {
	c := newHero()
	c.AddStatusEffect(effect.New(tmpl(effect.KindProtect, 2, 1), ""))
	assert.Equal(t, 1, c.TakeDamage(50, "grunt"))
	assert.Equal(t, 99, c.Blood())
	c.TakeDamage(0, "grunt")
	assert.Equal(t, 98, c.Blood())
}

func TestCombatant_Defeat_SignalledOnce(t *testing.T) {
	log := &eventLog{}
	c := newEnemy("grunt", 10)
	c.Bind(log, nil)
	c.TakeDamage(15, "hero")
	assert.Equal(t, 0, c.Blood())
	assert.True(t, c.IsDefeated())
	assert.Equal(t, 0, c.TakeDamage(15, "hero"))
	assert.Equal(t, 1, log.count(combat.EventDefeated))
}

func TestCombatant_Initialize_ResetsDefeat(t *testing.T) {
	log := &eventLog{}
	c := newEnemy("grunt", 10)
	c.Bind(log, nil)
	c.TakeDamage(15, "hero")
	c.Initialize()
	assert.False(t, c.IsDefeated())
	assert.Equal(t, 10, c.Blood())
	assert.Equal(t, 0, c.Anger())
	c.TakeDamage(15, "hero")
	assert.Equal(t, 2, log.count(combat.EventDefeated))
}

func TestCombatant_Initialize_SignalsClearedEffects(t *testing.T) {
	log := &eventLog{}
	c := newHero()
	c.Bind(log, nil)
	c.AddStatusEffect(effect.New(tmpl(effect.KindProtect, 2, 0.5), ""))
	c.AddStatusEffect(effect.New(tmpl(effect.KindBleed, 2, 3), "grunt"))

	c.Initialize()
	assert.Empty(t, c.StatusEffects())
	assert.Equal(t, 2, log.count(combat.EventEffectRemoved))

	c.Initialize()
	assert.Equal(t, 2, log.count(combat.EventEffectRemoved))
}

func TestCombatant_View(t *testing.T) {
	c := newHero(strike, rend)
	c.AddStatusEffect(effect.New(tmpl(effect.KindFocus, 2, 0.5), ""))
	c.GainAnger(10)

	v := c.View()
	assert.Equal(t, "hero", v.ID)
	assert.Equal(t, combat.FactionPlayer, v.Faction)
	assert.Equal(t, 100, v.Blood)
	assert.Equal(t, 10, v.Anger)
	require.Len(t, v.Effects, 1)
	assert.Equal(t, effect.KindFocus, v.Effects[0].Kind)
	assert.Equal(t, 2, v.Effects[0].Remaining)
	require.Len(t, v.Abilities, 2)
	assert.Equal(t, "rend", v.Abilities[1].ID)
	assert.Equal(t, 10, v.Abilities[1].Cost)
	assert.True(t, v.Abilities[1].Affordable)
	assert.Equal(t, -1, v.Abilities[1].LastUsedTurn)

	c.TakeDamage(20, "grunt")
	assert.Equal(t, 100, v.Blood)
}

func TestCombatant_Heal(t *testing.T) {
	c := newHero()
	c.TakeDamage(30, "grunt")
	assert.Equal(t, 20, c.Heal(20))
	assert.Equal(t, 90, c.Blood())
	assert.Equal(t, 10, c.Heal(50))
	assert.Equal(t, 100, c.Blood())
	assert.Equal(t, 0, c.Heal(-5))
}

func TestCombatant_Heal_DoesNotRevive(t *testing.T) {
	c := newEnemy("grunt", 10)
	c.TakeDamage(10, "hero")
	assert.Equal(t, 0, c.Heal(5))
	assert.True(t, c.IsDefeated())
	assert.Equal(t, 0, c.Blood())
}

func TestCombatant_GainAnger_ClampsAndEnrage(t *testing.T) {
	c := newHero()
	assert.True(t, c.GainAnger(150))
	assert.Equal(t, 100, c.Anger())

	d := newHero()
	d.AddStatusEffect(effect.New(tmpl(effect.KindEnrage, 3, 0.5), ""))
	d.GainAnger(10)
	assert.Equal(t, 15, d.Anger())
}

func TestCombatant_SpendAnger(t *testing.T) {
	c := newHero()
	c.GainAnger(30)
	assert.False(t, c.SpendAnger(31))
	assert.Equal(t, 30, c.Anger())
	assert.True(t, c.SpendAnger(30))
	assert.Equal(t, 0, c.Anger())
}

func TestCombatant_SelfHarm(t *testing.T) {
	c := newHero()
	assert.Equal(t, 10, c.SelfHarm(10))
	assert.Equal(t, 90, c.Blood())
	assert.Equal(t, 15, c.Anger())
}

func TestCombatant_SelfHarm_WeakenAppliesToSelfDamageOnly(t *testing.T) {
	c := newHero()
	c.AddStatusEffect(effect.New(tmpl(effect.KindWeaken, 3, 0.5), ""))
	c.SelfHarm(10)
	assert.Equal(t, 95, c.Blood())
	c.TakeDamage(10, "grunt")
	assert.Equal(t, 85, c.Blood())
}

func TestCombatant_UpdateStatusEffects_BleedTicksTwiceThenExpires(t *testing.T) {
	log := &eventLog{}
	c := newHero()
	c.Bind(log, nil)
	c.AddStatusEffect(effect.New(tmpl(effect.KindBleed, 2, 5), "grunt"))

	c.UpdateStatusEffects()
	assert.Equal(t, 95, c.Blood())
	assert.True(t, c.HasStatus(effect.KindBleed))

	c.UpdateStatusEffects()
	assert.Equal(t, 90, c.Blood())
	assert.False(t, c.HasStatus(effect.KindBleed))
	assert.Equal(t, 1, log.count(combat.EventEffectRemoved))

	c.UpdateStatusEffects()
	assert.Equal(t, 90, c.Blood())
	assert.Equal(t, 6, c.Anger())
}

func TestCombatant_UpdateStatusEffects_ExpiresProtectAfterDuration(t *testing.T) {
	c := newHero()
	guard := effect.New(tmpl(effect.KindProtect, 1, 0.5), "")
	c.AddStatusEffect(guard)
	c.UpdateStatusEffects()
	assert.Empty(t, c.StatusEffects())
	assert.False(t, guard.Attached())
}

func TestCombatant_RemoveStatusEffect(t *testing.T) {
	c := newHero()
	e := effect.New(tmpl(effect.KindProtect, 3, 0.5), "")
	c.AddStatusEffect(e)
	assert.True(t, c.RemoveStatusEffect(e))
	assert.False(t, c.RemoveStatusEffect(e))
}

func TestCombatant_EffectiveCost_Focus(t *testing.T) {
	c := newHero(rend)
	ab, ok := c.Ability("rend")
	require.True(t, ok)
	assert.Equal(t, 20, c.EffectiveCost(ab))
	c.AddStatusEffect(effect.New(tmpl(effect.KindFocus, 2, 0.5), ""))
	assert.Equal(t, 10, c.EffectiveCost(ab))
	c.GainAnger(10)
	assert.True(t, c.CanUseAbility(ab))
}

func TestCombatant_UseAbility_InsufficientAngerIsSilent(t *testing.T) {
	hero := newHero(rend)
	grunt := newEnemy("grunt", 50)
	bindAll(fixedSrc{}, nil, hero, grunt)
	ab, _ := hero.Ability("rend")

	_, ok := hero.UseAbility(ab, grunt)
	assert.False(t, ok)
	assert.Equal(t, 50, grunt.Blood())
	assert.Equal(t, 0, ab.Uses())
}

func TestCombatant_UseAbility_InvalidTargetRejectedBeforeMutation(t *testing.T) {
	hero := newHero(strike, rend)
	ally := combat.NewCombatant(combat.Stats{ID: "ally", Name: "Ally", Faction: combat.FactionPlayer, MaxBlood: 40, MaxAnger: 100})
	grunt := newEnemy("grunt", 50)
	bindAll(fixedSrc{}, nil, hero, ally, grunt)
	hero.GainAnger(40)

	for _, id := range []string{"strike", "rend"} {
		ab, _ := hero.Ability(id)
		for _, target := range []*combat.Combatant{hero, ally, nil} {
			_, ok := hero.UseAbility(ab, target)
			assert.False(t, ok)
		}
	}
	assert.Equal(t, 100, hero.Blood())
	assert.Equal(t, 40, hero.Anger())
	assert.Equal(t, 40, ally.Blood())
	assert.Equal(t, 0, ally.Anger())
	assert.Empty(t, ally.StatusEffects())
}

func TestCombatant_UseAbility_ForeignRecordRejected(t *testing.T) {
	hero := newHero(strike)
	grunt := newEnemy("grunt", 50, strike)
	bindAll(fixedSrc{}, nil, hero, grunt)
	theirs, _ := grunt.Ability("strike")
	_, ok := hero.UseAbility(theirs, grunt)
	assert.False(t, ok)
	assert.Equal(t, 50, grunt.Blood())
}

func TestCombatant_UseAbility_SpendsCostAndSignals(t *testing.T) {
	log := &eventLog{}
	hero := newHero(rend)
	grunt := newEnemy("grunt", 50)
	bindAll(fixedSrc{}, log, hero, grunt)
	hero.GainAnger(20)
	ab, _ := hero.Ability("rend")

	res, ok := hero.UseAbility(ab, grunt)
	require.True(t, ok)
	assert.Equal(t, 0, hero.Anger())
	assert.Equal(t, 48, grunt.Blood())
	assert.True(t, grunt.HasStatus(effect.KindBleed))
	assert.Same(t, grunt, res.Target)
	assert.Equal(t, 1, ab.Uses())
	assert.Equal(t, 1, log.count(combat.EventAbilityUsed))
}

func TestCombatant_Abilities_SharedDefinitionsSeparateRecords(t *testing.T) {
	a := newHero(strike)
	b := newEnemy("grunt", 10, strike)
	ra, _ := a.Ability("strike")
	rb, _ := b.Ability("strike")
	assert.Same(t, ra.Definition(), rb.Definition())
	assert.NotSame(t, ra, rb)
	assert.Same(t, a, ra.Owner())
}

func TestPropertyCombatant_TakeDamageAlwaysCostsBlood(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxBlood := rapid.IntRange(1, 500).Draw(rt, "max_blood")
		dmg := rapid.IntRange(0, 1000).Draw(rt, "dmg")
		protect := rapid.Float64Range(0, 1).Draw(rt, "protect")
		c := combat.NewCombatant(combat.Stats{ID: "x", Faction: combat.FactionEnemy, MaxBlood: maxBlood, MaxAnger: 50})
		c.AddStatusEffect(effect.New(tmpl(effect.KindProtect, 1, protect), ""))
		c.TakeDamage(dmg, "y")
		assert.GreaterOrEqual(rt, c.Blood(), 0)
		assert.LessOrEqual(rt, c.Blood(), maxBlood-1)
	})
}

func TestPropertyCombatant_AngerStaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxAnger := rapid.IntRange(0, 200).Draw(rt, "max_anger")
		c := combat.NewCombatant(combat.Stats{ID: "x", Faction: combat.FactionPlayer, MaxBlood: 10_000, MaxAnger: maxAnger})
		ops := rapid.SliceOfN(rapid.IntRange(-300, 300), 1, 30).Draw(rt, "ops")
		for _, op := range ops {
			if op >= 0 {
				c.GainAnger(op)
			} else {
				c.SpendAnger(-op)
			}
			require.GreaterOrEqual(rt, c.Anger(), 0)
			require.LessOrEqual(rt, c.Anger(), maxAnger)
		}
	})
}

type snapshot struct {
	blood, anger, effects int
	defeated              bool
	abilities             []string
}

func snap(c *combat.Combatant) snapshot {
	s := snapshot{blood: c.Blood(), anger: c.Anger(), effects: len(c.StatusEffects()), defeated: c.IsDefeated()}
	for _, a := range c.Abilities() {
		s.abilities = append(s.abilities, a.ID())
	}
	return s
}

func TestPropertyCombatant_InitializeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newHero(strike, rend, brace)
		c.TakeDamage(rapid.IntRange(0, 200).Draw(rt, "dmg"), "grunt")
		c.AddStatusEffect(effect.New(tmpl(effect.KindBleed, 2, 1), ""))
		c.Initialize()
		first := snap(c)
		c.Initialize()
		assert.Equal(rt, first, snap(c))
		assert.Equal(rt, snapshot{blood: 100, abilities: []string{"strike", "rend", "brace"}}, first)
	})
}

func TestPropertyCombatant_AttachDetachLeavesNoResidue(t *testing.T) {
	kinds := []effect.Kind{effect.KindProtect, effect.KindWeaken, effect.KindEnrage, effect.KindFocus}
	rapid.Check(t, func(rt *rapid.T) {
		kind := rapid.SampledFrom(kinds).Draw(rt, "kind")
		mag := rapid.Float64Range(0, 1).Draw(rt, "magnitude")
		dmg := rapid.IntRange(0, 90).Draw(rt, "dmg")

		plain := newHero(rend)
		touched := newHero(rend)
		e := effect.New(tmpl(kind, 3, mag), "")
		touched.AddStatusEffect(e)
		touched.RemoveStatusEffect(e)

		plain.TakeDamage(dmg, "hero")
		touched.TakeDamage(dmg, "hero")
		assert.Equal(rt, snap(plain), snap(touched))
		pa, _ := plain.Ability("rend")
		ta, _ := touched.Ability("rend")
		assert.Equal(rt, plain.EffectiveCost(pa), touched.EffectiveCost(ta))
	})
}
