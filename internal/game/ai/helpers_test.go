package ai_test

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/ai"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// mockScriptCaller returns canned values per hook and records calls.
type mockScriptCaller struct {
	returns map[string]lua.LValue
	err     error
	calls   []string
}

func (m *mockScriptCaller) CallHook(_ context.Context, scope, hook string, _ ...lua.LValue) (lua.LValue, error) {
	m.calls = append(m.calls, scope+"."+hook)
	if m.err != nil {
		return lua.LNil, m.err
	}
	if v, ok := m.returns[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

var (
	bite  = &ability.Definition{ID: "bite", Name: "Bite", Target: ability.TargetSingleEnemy, BaseDamage: 10}
	maul  = &ability.Definition{ID: "maul", Name: "Maul", Target: ability.TargetSingleEnemy, AngerCost: 30, BaseDamage: 25}
	howl  = &ability.Definition{ID: "howl", Name: "Howl", Target: ability.TargetAllEnemies, AngerCost: 10, BaseDamage: 6}
	lick  = &ability.Definition{ID: "lick", Name: "Lick Wounds", Target: ability.TargetSelf, Healing: 10}
	mourn = &ability.Definition{ID: "mourn", Name: "Mourn", Target: ability.TargetSelf}
)

func ghoulDomain() *ai.Domain {
	return &ai.Domain{
		ID: "ghoul_tactics",
		Tasks: []*ai.Task{
			{ID: "behave"},
			{ID: "fight"},
		},
		Methods: []*ai.Method{
			{TaskID: "behave", ID: "combat_mode", Precondition: "has_enemy", Subtasks: []string{"fight"}},
			{TaskID: "behave", ID: "idle_mode", Subtasks: []string{"wait"}},
			{TaskID: "fight", ID: "bite_weakest", Subtasks: []string{"bite_weakest"}},
		},
		Operators: []*ai.Operator{
			{ID: "bite_weakest", Ability: "bite", Target: "weakest_enemy"},
			{ID: "wait"},
		},
	}
}

// battlefield returns a ghoul with the given abilities facing two players.
func battlefield(defs ...*ability.Definition) (combat.TurnView, *combat.Combatant, *combat.Combatant) {
	ghoul := combat.NewCombatant(combat.Stats{
		ID: "ghoul", Name: "Ghoul", Faction: combat.FactionEnemy,
		MaxBlood: 40, MaxAnger: 100, Abilities: defs,
	})
	hero := combat.NewCombatant(combat.Stats{
		ID: "hero", Name: "Hero", Faction: combat.FactionPlayer, MaxBlood: 100, MaxAnger: 100,
	})
	squire := combat.NewCombatant(combat.Stats{
		ID: "squire", Name: "Squire", Faction: combat.FactionPlayer, MaxBlood: 50, MaxAnger: 100,
	})
	view := combat.TurnView{
		Self:    ghoul,
		Enemies: []*combat.Combatant{hero, squire},
		Turn:    3,
		Round:   1,
	}
	return view, hero, squire
}
