package combat

import "context"

// TurnView is the read-only snapshot handed to a turn taker.
type TurnView struct {
	Self *Combatant
	// Allies are the live members of Self's faction, excluding Self.
	Allies []*Combatant
	// Enemies are the live members of the opposing faction.
	Enemies []*Combatant
	Turn    int
	Round   int
}

// TurnTaker decides how a combatant spends its turn.
type TurnTaker interface {
	// TakeTurn returns (action, true, nil) to act now, or (_, false, nil) to
	// suspend the encounter until external input completes the turn.
	// A non-nil error is logged and the turn is skipped.
	TakeTurn(ctx context.Context, view TurnView) (Action, bool, error)
}

// PlayerController suspends every turn until the presentation layer calls
// SelectAbility/SelectTarget, SkipTurn or Escape on the Encounter.
type PlayerController struct{}

// TakeTurn always suspends.
func (PlayerController) TakeTurn(context.Context, TurnView) (Action, bool, error) {
	return Action{}, false, nil
}

// Decider computes a non-player combatant's action.
type Decider interface {
	Decide(ctx context.Context, view TurnView) (Action, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, view TurnView) (Action, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, view TurnView) (Action, error) {
	return f(ctx, view)
}

// ScriptedController acts immediately with whatever its Decider returns.
type ScriptedController struct {
	decider Decider
}

// NewScriptedController wraps d.
//
// Precondition: d must not be nil.
func NewScriptedController(d Decider) *ScriptedController {
	return &ScriptedController{decider: d}
}

// TakeTurn asks the decider and never suspends.
func (s *ScriptedController) TakeTurn(ctx context.Context, view TurnView) (Action, bool, error) {
	a, err := s.decider.Decide(ctx, view)
	return a, true, err
}
