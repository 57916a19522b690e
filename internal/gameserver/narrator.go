package gameserver

import (
	"context"

	"github.com/cory-johannsen/bloodrage/internal/game/ai"
)

// NarrativeHookPrefix is prepended to a scene's sequence name to form the
// Lua hook that plays it.
const NarrativeHookPrefix = "narrative_"

// ScriptNarrator plays narrative sequences as Lua hooks in one scene scope.
// A sequence with no matching hook completes immediately.
type ScriptNarrator struct {
	caller ai.ScriptCaller
	scope  string
}

// NewScriptNarrator creates a narrator calling hooks in scope.
//
// Precondition: caller must not be nil.
func NewScriptNarrator(caller ai.ScriptCaller, scope string) *ScriptNarrator {
	return &ScriptNarrator{caller: caller, scope: scope}
}

// Play calls narrative_<sequence> and returns once it has run.
//
// Postcondition: Returns an error only when ctx is cancelled.
func (n *ScriptNarrator) Play(ctx context.Context, sequence string) error {
	_, err := n.caller.CallHook(ctx, n.scope, NarrativeHookPrefix+sequence)
	return err
}
