package combat_test

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// fixedSrc always returns v, clamped into [0, n).
type fixedSrc struct{ v int }

func (f fixedSrc) Intn(n int) int {
	if f.v >= n {
		return n - 1
	}
	return f.v
}

var (
	strike = &ability.Definition{ID: "strike", Name: "Strike", Target: ability.TargetSingleEnemy, BaseDamage: 10}
	bite   = &ability.Definition{ID: "bite", Name: "Bite", Target: ability.TargetSingleEnemy, BaseDamage: 4}
	mend   = &ability.Definition{ID: "mend", Name: "Mend", Target: ability.TargetSingleAlly, Healing: 8}
	rally  = &ability.Definition{ID: "rally", Name: "Rally", Target: ability.TargetAllAllies, AngerGeneration: 10}
	cleave = &ability.Definition{ID: "cleave", Name: "Cleave", Target: ability.TargetAllEnemies, BaseDamage: 5}
	rend   = ability.Definition{ID: "rend", Name: "Rend", Target: ability.TargetSingleEnemy, AngerCost: 20, BaseDamage: 2}.
		WithEffects(&effect.Template{ID: "open_wound", Kind: effect.KindBleed, Duration: 2, Magnitude: 3})
	brace = ability.Definition{ID: "brace", Name: "Brace", Target: ability.TargetSelf}.
		WithEffects(&effect.Template{ID: "guard", Kind: effect.KindProtect, Duration: 2, Magnitude: 0.5})
)

func tmpl(kind effect.Kind, duration int, magnitude float64) *effect.Template {
	return &effect.Template{ID: kind.String(), Kind: kind, Duration: duration, Magnitude: magnitude}
}

func newHero(defs ...*ability.Definition) *combat.Combatant {
	return combat.NewCombatant(combat.Stats{
		ID: "hero", Name: "Hero", Faction: combat.FactionPlayer,
		MaxBlood: 100, MaxAnger: 100, Abilities: defs,
	})
}

func newEnemy(id string, blood int, defs ...*ability.Definition) *combat.Combatant {
	return combat.NewCombatant(combat.Stats{
		ID: id, Name: id, Faction: combat.FactionEnemy,
		MaxBlood: blood, MaxAnger: 100, Abilities: defs,
	})
}

// bindAll wires every combatant to one resolver over roster.
func bindAll(src effect.Source, em combat.Emitter, roster ...*combat.Combatant) *combat.Resolver {
	r := combat.NewResolver(func() []*combat.Combatant { return roster }, src, zap.NewNop())
	for _, c := range roster {
		c.Bind(em, r)
	}
	return r
}

// eventLog records every event it receives.
type eventLog struct {
	mu     sync.Mutex
	events []combat.Event
}

func (l *eventLog) listen(ev combat.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) Publish(ev combat.Event) { l.listen(ev) }

func (l *eventLog) count(t combat.EventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

type stubScene struct {
	id    string
	parts []combat.Participant
	seqs  map[combat.Cue]string
	err   error
}

func (s *stubScene) ID() string { return s.id }

func (s *stubScene) Participants(context.Context) ([]combat.Participant, error) {
	return s.parts, s.err
}

func (s *stubScene) Sequence(cue combat.Cue) string { return s.seqs[cue] }

type recordingNarrator struct {
	played []string
	err    error
}

func (n *recordingNarrator) Play(_ context.Context, seq string) error {
	n.played = append(n.played, seq)
	return n.err
}

type recordingRecorder struct {
	mu       sync.Mutex
	outcomes []combat.Outcome
}

func (r *recordingRecorder) RecordOutcome(_ context.Context, o combat.Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
	return nil
}

// always returns a scripted controller that repeats a.
func always(a combat.Action) combat.TurnTaker {
	return combat.NewScriptedController(combat.DeciderFunc(func(context.Context, combat.TurnView) (combat.Action, error) {
		return a, nil
	}))
}
