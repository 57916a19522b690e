package ai

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/scripting"
)

// DecideHook is the Lua function a scope may define to choose actions
// directly. It receives the world-state table and returns either the string
// "skip" or a table {ability = "<id>", target = "<id or token>"}; returning
// nil defers to the tactics planner.
const DecideHook = "decide"

// Decider implements combat.Decider for scripted combatants. Each turn it
// tries, in order: the scope's decide hook, the tactics planner, and a
// greedy default.
type Decider struct {
	caller  ScriptCaller
	scope   string
	planner *Planner
	logger  *zap.Logger
}

// NewDecider creates a Decider. caller and planner may be nil.
//
// Precondition: logger must not be nil.
func NewDecider(caller ScriptCaller, scope string, planner *Planner, logger *zap.Logger) *Decider {
	return &Decider{caller: caller, scope: scope, planner: planner, logger: logger}
}

// Decide returns the action for view.Self.
//
// Postcondition: Returns an error only when ctx is cancelled or the decide
// hook returns a value that is not a decision.
func (d *Decider) Decide(ctx context.Context, view combat.TurnView) (combat.Action, error) {
	ws := BuildWorldState(view)
	lv, err := scripting.ToLua(ws.Table())
	if err != nil {
		return combat.Action{}, fmt.Errorf("ai: rendering world state: %w", err)
	}

	if d.caller != nil {
		ret, err := d.caller.CallHook(ctx, d.scope, DecideHook, lv)
		if err != nil {
			return combat.Action{}, err
		}
		if ret != lua.LNil {
			act, err := parseDecision(ws, ret)
			if err != nil {
				return combat.Action{}, fmt.Errorf("ai: scope %q: %w", d.scope, err)
			}
			d.logger.Debug("scripted decision",
				zap.String("combatant", ws.Self.ID),
				zap.Stringer("action", act.Type),
				zap.String("ability", act.AbilityID),
				zap.String("target", act.TargetID),
			)
			return act, nil
		}
	}

	if d.planner != nil {
		plan, err := d.planner.Plan(ctx, ws, lv)
		if err != nil {
			return combat.Action{}, err
		}
		for _, step := range plan {
			if act, ok := usable(ws, step); ok {
				d.logger.Debug("planned decision",
					zap.String("combatant", ws.Self.ID),
					zap.String("operator", step.Operator),
					zap.String("ability", act.AbilityID),
					zap.String("target", act.TargetID),
				)
				return act, nil
			}
		}
	}

	return Greedy(ws), nil
}

// usable converts a planned step into an action if it can be carried out now.
func usable(ws *WorldState, step PlannedAction) (combat.Action, bool) {
	if step.Ability == "" {
		return combat.Skip(), true
	}
	a, ok := ws.Ability(step.Ability)
	if !ok || !a.Affordable {
		return combat.Action{}, false
	}
	if a.Target.IsArea() {
		return combat.UseAbility(a.ID, ""), true
	}
	for _, id := range a.Targets {
		if id == step.Target {
			return combat.UseAbility(a.ID, id), true
		}
	}
	return combat.Action{}, false
}

// Greedy picks the affordable damaging ability with the highest damage and
// aims single-target attacks at the weakest valid enemy. It skips when
// nothing damaging is affordable.
func Greedy(ws *WorldState) combat.Action {
	var best *AbilityState
	var bestTarget string
	for i := range ws.Abilities {
		a := &ws.Abilities[i]
		if !a.Affordable || a.Damage <= 0 {
			continue
		}
		target := ""
		if !a.Target.IsArea() {
			target = weakestAmong(ws, a.Targets)
			if target == "" {
				continue
			}
		}
		if best == nil || a.Damage > best.Damage {
			best, bestTarget = a, target
		}
	}
	if best == nil {
		return combat.Skip()
	}
	return combat.UseAbility(best.ID, bestTarget)
}

// weakestAmong returns the enemy ID in ids with the lowest blood percentage,
// falling back to the first ID when none of them is an enemy.
func weakestAmong(ws *WorldState, ids []string) string {
	allowed := make(map[string]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}
	var pick *CombatantState
	for _, e := range ws.Enemies {
		if allowed[e.ID] && (pick == nil || e.BloodPercent() < pick.BloodPercent()) {
			pick = e
		}
	}
	if pick != nil {
		return pick.ID
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// parseDecision interprets the decide hook's return value.
func parseDecision(ws *WorldState, ret lua.LValue) (combat.Action, error) {
	switch v := scripting.FromLua(ret).(type) {
	case string:
		if v == "skip" {
			return combat.Skip(), nil
		}
		return combat.Action{}, fmt.Errorf("decide returned unknown command %q", v)
	case map[string]any:
		id, _ := v["ability"].(string)
		if id == "" {
			return combat.Action{}, fmt.Errorf("decide returned a table without an ability")
		}
		target, _ := v["target"].(string)
		target = ws.ResolveTarget(target)
		if a, ok := ws.Ability(id); ok && target == "" && a.Target == ability.TargetSelf {
			target = ws.Self.ID
		}
		return combat.UseAbility(id, target), nil
	}
	return combat.Action{}, fmt.Errorf("decide returned %s, want \"skip\" or a table", ret.Type())
}
