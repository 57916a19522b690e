package combat

// ActionType identifies what a combatant does with its turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAbility                   // use an owned ability
	ActionSkip                      // pass the turn and gain anger
)

// String returns "ability", "skip", or "unknown".
func (a ActionType) String() string {
	switch a {
	case ActionAbility:
		return "ability"
	case ActionSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// Action is a completed turn decision.
type Action struct {
	Type      ActionType
	AbilityID string // ActionAbility only
	TargetID  string // ActionAbility only; ignored for self and area abilities
}

// UseAbility returns an ability action.
func UseAbility(abilityID, targetID string) Action {
	return Action{Type: ActionAbility, AbilityID: abilityID, TargetID: targetID}
}

// Skip returns a skip action.
func Skip() Action {
	return Action{Type: ActionSkip}
}
