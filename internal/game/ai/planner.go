package ai

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScriptCaller is the interface required to evaluate Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(ctx context.Context, scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// PlannedAction is one primitive step produced by the planner.
type PlannedAction struct {
	Operator string
	Ability  string // empty means skip
	Target   string // resolved combatant ID; empty for area abilities and skips
}

// maxPlanSteps bounds task decomposition so a cyclic domain terminates.
const maxPlanSteps = 32

// Planner evaluates one tactics domain for a combatant.
//
// Invariant: domain and caller must not be nil.
type Planner struct {
	domain *Domain
	caller ScriptCaller
	scope  string
}

// NewPlanner constructs a Planner that evaluates preconditions in scope.
//
// Precondition: domain and caller must not be nil.
func NewPlanner(domain *Domain, caller ScriptCaller, scope string) *Planner {
	if domain == nil {
		panic("ai.NewPlanner: domain must not be nil")
	}
	if caller == nil {
		panic("ai.NewPlanner: caller must not be nil")
	}
	return &Planner{domain: domain, caller: caller, scope: scope}
}

// Plan decomposes the root task against state. view is the Lua rendition of
// state handed to every precondition hook.
//
// Precondition: state and state.Self must not be nil.
// Postcondition: Returns a non-nil slice (may be empty). Lua failures count
// as a false precondition; only cancellation of ctx is returned as an error.
func (p *Planner) Plan(ctx context.Context, state *WorldState, view lua.LValue) ([]PlannedAction, error) {
	if state == nil || state.Self == nil {
		return nil, fmt.Errorf("ai.Planner.Plan: state and state.Self must not be nil")
	}

	queue := []string{RootTask}
	result := []PlannedAction{}
	for steps := 0; len(queue) > 0 && steps < maxPlanSteps; steps++ {
		current := queue[0]
		queue = queue[1:]

		if op, ok := p.domain.OperatorByID(current); ok {
			result = append(result, PlannedAction{
				Operator: op.ID,
				Ability:  op.Ability,
				Target:   state.ResolveTarget(op.Target),
			})
			continue
		}

		method, err := p.findApplicableMethod(ctx, current, view)
		if err != nil {
			return nil, err
		}
		if method == nil {
			continue
		}
		queue = append(append([]string{}, method.Subtasks...), queue...)
	}
	return result, nil
}

// findApplicableMethod returns the first method for taskID whose precondition
// passes, or nil if none applies. An empty precondition always passes.
func (p *Planner) findApplicableMethod(ctx context.Context, taskID string, view lua.LValue) (*Method, error) {
	for _, m := range p.domain.MethodsForTask(taskID) {
		if m.Precondition == "" {
			return m, nil
		}
		val, err := p.caller.CallHook(ctx, p.scope, m.Precondition, view)
		if err != nil {
			return nil, err
		}
		if lua.LVAsBool(val) {
			return m, nil
		}
	}
	return nil, nil
}
