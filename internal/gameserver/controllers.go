package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/ai"
	"github.com/cory-johannsen/bloodrage/internal/game/character"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/scripting"
)

// NewControllerFactory returns the factory that picks turn takers for scene
// participants. Player-controlled characters fielded on the player side wait
// for input; everyone else is driven by an ai.Decider in the character's
// script scope, planning against its tactics domain when it names one.
//
// Precondition: tactics and logger must be non-nil; caller may be nil, in
// which case scripted combatants fall back to greedy play.
func NewControllerFactory(tactics *ai.Registry, caller ai.ScriptCaller, logger *zap.Logger) character.ControllerFactory {
	return func(d *character.Data, faction combat.Faction) (combat.TurnTaker, error) {
		if d.PlayerControlled && faction == combat.FactionPlayer {
			return combat.PlayerController{}, nil
		}
		scope := d.Script
		if scope == "" {
			scope = scripting.GlobalScope
		}
		var planner *ai.Planner
		if d.Tactics != "" {
			domain, ok := tactics.Domain(d.Tactics)
			if !ok {
				return nil, fmt.Errorf("character %q: unknown tactics %q", d.ID, d.Tactics)
			}
			if caller != nil {
				planner = ai.NewPlanner(domain, caller, scope)
			}
		}
		dec := ai.NewDecider(caller, scope, planner, logger.With(zap.String("character", d.ID)))
		return combat.NewScriptedController(dec), nil
	}
}
