package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

func TestAngerMultiplier(t *testing.T) {
	c := newHero()
	assert.InDelta(t, 1.0, combat.AngerMultiplier(c), 1e-9)
	c.GainAnger(50)
	assert.InDelta(t, 1.25, combat.AngerMultiplier(c), 1e-9)
	c.GainAnger(50)
	assert.InDelta(t, 1.5, combat.AngerMultiplier(c), 1e-9)

	calm := combat.NewCombatant(combat.Stats{ID: "calm", MaxBlood: 10})
	assert.InDelta(t, 1.0, combat.AngerMultiplier(calm), 1e-9)
}

func TestFinalDamage_Rounding(t *testing.T) {
	cases := []struct {
		name     string
		base     int
		anger    int
		maxAnger int
		want     int
	}{
		{"half rounds away from zero", 10, 50, 100, 13},
		{"half rounds up on small values", 2, 20, 40, 3},
		{"below half rounds down", 10, 20, 100, 11},
		{"above half rounds up", 9, 60, 100, 12},
		{"no anger", 10, 0, 100, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := combat.NewCombatant(combat.Stats{ID: "u", MaxBlood: 10, MaxAnger: tc.maxAnger})
			user.GainAnger(tc.anger)
			def := &ability.Definition{ID: "x", Name: "X", Target: ability.TargetSingleEnemy, BaseDamage: tc.base}
			assert.Equal(t, tc.want, combat.FinalDamage(user, def))
		})
	}
}

func TestFinalDamage_StrengthenAfterAnger(t *testing.T) {
	user := newHero()
	user.AddStatusEffect(effect.New(tmpl(effect.KindStrengthen, 2, 0.3), ""))
	assert.Equal(t, 13, combat.FinalDamage(user, strike))
	user.GainAnger(50)
	// 10 * 1.25 = 12.5 -> 13, then 13 * 1.3 = 16.9 -> 17
	assert.Equal(t, 17, combat.FinalDamage(user, strike))
}

func TestIsValidTarget(t *testing.T) {
	hero := newHero()
	ally := combat.NewCombatant(combat.Stats{ID: "ally", Faction: combat.FactionPlayer, MaxBlood: 10})
	grunt := newEnemy("grunt", 10)
	dead := newEnemy("dead", 10)
	dead.TakeDamage(10, "hero")

	def := func(tt ability.TargetType) *ability.Definition {
		return &ability.Definition{ID: "x", Name: "X", Target: tt}
	}
	cases := []struct {
		target ability.TargetType
		cand   *combat.Combatant
		want   bool
	}{
		{ability.TargetSelf, hero, true},
		{ability.TargetSelf, ally, false},
		{ability.TargetSingleAlly, ally, true},
		{ability.TargetSingleAlly, hero, true},
		{ability.TargetSingleAlly, grunt, false},
		{ability.TargetAllAllies, ally, true},
		{ability.TargetSingleEnemy, grunt, true},
		{ability.TargetSingleEnemy, ally, false},
		{ability.TargetAllEnemies, grunt, true},
		{ability.TargetAll, grunt, true},
		{ability.TargetAll, hero, true},
		{ability.TargetAll, dead, false},
		{ability.TargetSingleEnemy, nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, combat.IsValidTarget(hero, def(tc.target), tc.cand), "%s", tc.target)
	}

	// Allegiance is relative to the owner.
	assert.True(t, combat.IsValidTarget(grunt, def(ability.TargetSingleEnemy), hero))
	assert.False(t, combat.IsValidTarget(grunt, def(ability.TargetSingleAlly), hero))
}

func TestIsValidTarget_EnemyOwner(t *testing.T) {
	hero := newHero()
	grunt := newEnemy("grunt", 10)
	shaman := newEnemy("shaman", 10)
	def := func(tt ability.TargetType) *ability.Definition {
		return &ability.Definition{ID: "x", Name: "X", Target: tt}
	}
	cases := []struct {
		target ability.TargetType
		cand   *combat.Combatant
		want   bool
	}{
		{ability.TargetSelf, shaman, true},
		{ability.TargetSelf, grunt, false},
		{ability.TargetSingleAlly, grunt, true},
		{ability.TargetSingleAlly, shaman, true},
		{ability.TargetSingleAlly, hero, false},
		{ability.TargetAllAllies, grunt, true},
		{ability.TargetAllAllies, hero, false},
		{ability.TargetSingleEnemy, hero, true},
		{ability.TargetSingleEnemy, grunt, false},
		{ability.TargetAllEnemies, hero, true},
		{ability.TargetAllEnemies, grunt, false},
		{ability.TargetAll, hero, true},
		{ability.TargetAll, grunt, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, combat.IsValidTarget(shaman, def(tc.target), tc.cand), "%s %s", tc.target, tc.cand.ID())
	}
}

func TestResolver_ValidTargets_ExcludesDefeatedAndIsFresh(t *testing.T) {
	hero := newHero(strike)
	g1 := newEnemy("g1", 10)
	g2 := newEnemy("g2", 10)
	bindAll(fixedSrc{}, nil, hero, g1, g2)
	ab, _ := hero.Ability("strike")

	assert.Equal(t, []*combat.Combatant{g1, g2}, ab.ValidTargets())
	g1.TakeDamage(10, "hero")
	assert.Equal(t, []*combat.Combatant{g2}, ab.ValidTargets())
}

func TestResolver_Execute_AreaHitsEveryLiveEnemy(t *testing.T) {
	hero := newHero(cleave)
	g1 := newEnemy("g1", 20)
	g2 := newEnemy("g2", 20)
	g3 := newEnemy("g3", 20)
	g3.TakeDamage(20, "hero")
	bindAll(fixedSrc{}, nil, hero, g1, g2, g3)
	hero.GainAnger(100)
	ab, _ := hero.Ability("cleave")

	res, ok := hero.UseAbility(ab, nil)
	require.True(t, ok)
	assert.Nil(t, res.Target)
	require.Len(t, res.Hits, 2)
	// 5 * 1.5 = 7.5 -> 8
	assert.Equal(t, 12, g1.Blood())
	assert.Equal(t, 12, g2.Blood())
	assert.Equal(t, 100, hero.Blood())
}

func TestResolver_Execute_HealAndAngerGeneration(t *testing.T) {
	hero := newHero(mend, rally)
	ally := combat.NewCombatant(combat.Stats{ID: "ally", Faction: combat.FactionPlayer, MaxBlood: 40, MaxAnger: 50})
	grunt := newEnemy("grunt", 10)
	bindAll(fixedSrc{}, nil, hero, ally, grunt)
	ally.TakeDamage(20, "grunt")

	mendAb, _ := hero.Ability("mend")
	res, ok := hero.UseAbility(mendAb, ally)
	require.True(t, ok)
	assert.Equal(t, 28, ally.Blood())
	assert.Equal(t, 8, res.Hits[0].Healed)

	rallyAb, _ := hero.Ability("rally")
	res, ok = hero.UseAbility(rallyAb, nil)
	require.True(t, ok)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, 10, hero.Anger())
	assert.Equal(t, 20, ally.Anger())
	assert.Equal(t, 0, grunt.Anger())
}

func TestResolver_Execute_AppliesEffectsByUser(t *testing.T) {
	hero := newHero(rend)
	grunt := newEnemy("grunt", 30)
	bindAll(fixedSrc{}, nil, hero, grunt)
	hero.GainAnger(20)
	ab, _ := hero.Ability("rend")

	res, ok := hero.UseAbility(ab, grunt)
	require.True(t, ok)
	require.Len(t, res.Hits[0].Effects, 1)
	e := res.Hits[0].Effects[0]
	assert.Equal(t, "hero", e.AppliedBy)
	assert.Equal(t, "grunt", e.OwnerID)
	assert.Equal(t, 2, e.Remaining)
}

func TestResolver_Execute_TauntRedirectsToTaunter(t *testing.T) {
	hero := newHero(strike)
	g1 := newEnemy("g1", 30)
	g2 := newEnemy("g2", 30)
	bindAll(fixedSrc{}, nil, hero, g1, g2)
	g2.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "g2"))
	ab, _ := hero.Ability("strike")

	res, ok := hero.UseAbility(ab, g1)
	require.True(t, ok)
	assert.True(t, res.Redirected)
	assert.Same(t, g2, res.Target)
	assert.Equal(t, 30, g1.Blood())
	assert.Equal(t, 20, g2.Blood())
}

func TestResolver_Execute_FirstTaunterInRosterWins(t *testing.T) {
	hero := newHero(strike)
	g1 := newEnemy("g1", 30)
	g2 := newEnemy("g2", 30)
	g3 := newEnemy("g3", 30)
	bindAll(fixedSrc{}, nil, hero, g1, g2, g3)
	g3.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "g3"))
	g2.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "g2"))
	ab, _ := hero.Ability("strike")

	res, ok := hero.UseAbility(ab, g1)
	require.True(t, ok)
	assert.Same(t, g2, res.Target)
}

func TestResolver_Execute_TauntIgnoresAlliesAndSelf(t *testing.T) {
	hero := newHero(strike)
	ally := combat.NewCombatant(combat.Stats{ID: "ally", Faction: combat.FactionPlayer, MaxBlood: 40})
	g1 := newEnemy("g1", 30, bite)
	g2 := newEnemy("g2", 30)
	bindAll(fixedSrc{}, nil, hero, ally, g1, g2)
	hero.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "hero"))
	g2.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "g2"))

	// g2 taunts its own side, so g1's bite is drawn by the hero's taunt.
	bt, _ := g1.Ability("bite")
	res, ok := g1.UseAbility(bt, ally)
	require.True(t, ok)
	assert.True(t, res.Redirected)
	assert.Same(t, hero, res.Target)
	assert.Equal(t, 40, ally.Blood())

	// The hero's own taunt never turns its strike onto itself.
	st, _ := hero.Ability("strike")
	res, ok = hero.UseAbility(st, g1)
	require.True(t, ok)
	assert.Same(t, g2, res.Target)
	assert.Equal(t, 30, g1.Blood())
}

func TestResolver_Execute_TauntByDefeatedKeepsTarget(t *testing.T) {
	hero := newHero(strike)
	g1 := newEnemy("g1", 30)
	g2 := newEnemy("g2", 5)
	bindAll(fixedSrc{}, nil, hero, g1, g2)
	g2.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "g2"))
	g2.TakeDamage(5, "hero")
	ab, _ := hero.Ability("strike")

	res, ok := hero.UseAbility(ab, g1)
	require.True(t, ok)
	assert.False(t, res.Redirected)
	assert.Equal(t, 20, g1.Blood())
}

func TestResolver_Execute_ConfusionPicksFromLiveRoster(t *testing.T) {
	hero := newHero(strike)
	g1 := newEnemy("g1", 30)
	bindAll(fixedSrc{v: 0}, nil, hero, g1)
	hero.AddStatusEffect(effect.New(tmpl(effect.KindConfusion, 1, 1), ""))
	ab, _ := hero.Ability("strike")

	res, ok := hero.UseAbility(ab, g1)
	require.True(t, ok)
	assert.True(t, res.Redirected)
	assert.Same(t, hero, res.Target)
	assert.Equal(t, 90, hero.Blood())
	assert.Equal(t, 30, g1.Blood())
}

func TestResolver_Execute_NonDamagingAbilitiesAreNotRedirected(t *testing.T) {
	hero := newHero(mend)
	ally := combat.NewCombatant(combat.Stats{ID: "ally", Faction: combat.FactionPlayer, MaxBlood: 40})
	grunt := newEnemy("grunt", 30)
	bindAll(fixedSrc{}, nil, hero, ally, grunt)
	grunt.AddStatusEffect(effect.New(tmpl(effect.KindTaunt, 1, 0), "grunt"))
	ally.TakeDamage(10, "grunt")
	ab, _ := hero.Ability("mend")

	res, ok := hero.UseAbility(ab, ally)
	require.True(t, ok)
	assert.False(t, res.Redirected)
	assert.Equal(t, 38, ally.Blood())
}
