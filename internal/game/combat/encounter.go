package combat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// State is a phase of the encounter state machine.
type State int

const (
	StateIdle State = iota // constructed, not started
	StateInitialize
	StateStartTurn
	StatePlayerTurn
	StateEnemyTurn
	StateEndTurn
	StateVictory
	StateDefeat
	StateEscape
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateInitialize: "initialize",
	StateStartTurn:  "start_turn",
	StatePlayerTurn: "player_turn",
	StateEnemyTurn:  "enemy_turn",
	StateEndTurn:    "end_turn",
	StateVictory:    "victory",
	StateDefeat:     "defeat",
	StateEscape:     "escape",
}

// String returns the snake_case name of the state.
func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether s ends the encounter.
func (s State) Terminal() bool {
	return s == StateVictory || s == StateDefeat || s == StateEscape
}

var (
	ErrAlreadyStarted    = errors.New("encounter already started")
	ErrEncounterOver     = errors.New("encounter is over")
	ErrNotYourTurn       = errors.New("not this combatant's turn")
	ErrNoSelection       = errors.New("no ability selected")
	ErrUnknownCombatant  = errors.New("unknown combatant")
	ErrUnknownAbility    = errors.New("unknown ability")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrInsufficientAnger = errors.New("insufficient anger")
	ErrMissingController = errors.New("combatant has no controller")
)

// Participant pairs a combatant with whatever takes its turns.
type Participant struct {
	Combatant  *Combatant
	Controller TurnTaker
}

// Cue names a point in the encounter where a narrative sequence may play.
type Cue string

const (
	CueIntro   Cue = "intro"
	CueVictory Cue = "victory"
	CueDefeat  Cue = "defeat"
	CueEscape  Cue = "escape"
)

// Scene supplies the roster and narrative sequences of an encounter.
type Scene interface {
	ID() string
	// Participants returns fresh combatants for one encounter.
	Participants(ctx context.Context) ([]Participant, error)
	// Sequence returns the narrative sequence for cue, or "" for none.
	Sequence(cue Cue) string
}

// Narrator plays a named narrative sequence and returns when it completes.
type Narrator interface {
	Play(ctx context.Context, sequence string) error
}

// Outcome summarises a finished encounter.
type Outcome struct {
	EncounterID string
	SceneID     string
	Result      State
	Turns       int
	Rounds      int
	Survivors   []string
	StartedAt   time.Time
	EndedAt     time.Time
}

// OutcomeRecorder persists finished encounters.
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, o Outcome) error
}

// Options configures an Encounter.
type Options struct {
	ID    string
	Scene Scene
	Bus   *Bus
	// Source drives Confusion rolls.
	Source effect.Source
	Logger *zap.Logger
	// Narrator and Recorder are optional.
	Narrator Narrator
	Recorder OutcomeRecorder
	// PlayerTurnTimeout skips an idle player turn; zero waits indefinitely.
	PlayerTurnTimeout time.Duration
	// SkipTurnAnger is granted to a combatant that skips its turn.
	SkipTurnAnger int
}

// Encounter is one combat session driven as an explicit state machine.
// Player turns suspend: Start and every input method return as soon as the
// machine reaches a player turn, and the next input resumes it.
//
// All methods are safe for concurrent use.
type Encounter struct {
	mu     sync.Mutex
	opts   Options
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state       State
	closed      bool
	roster      []*Combatant
	controllers map[string]TurnTaker
	order       *TurnOrder
	resolver    *Resolver
	acting      *Combatant
	selected    *Ability
	turn        int
	timer       *TurnTimer
	startedAt   time.Time
}

// NewEncounter validates opts and returns an idle encounter.
//
// Postcondition: Returns an error naming the first missing collaborator.
func NewEncounter(opts Options) (*Encounter, error) {
	switch {
	case opts.ID == "":
		return nil, fmt.Errorf("encounter: id must not be empty")
	case opts.Scene == nil:
		return nil, fmt.Errorf("encounter %s: scene must not be nil", opts.ID)
	case opts.Bus == nil:
		return nil, fmt.Errorf("encounter %s: bus must not be nil", opts.ID)
	case opts.Source == nil:
		return nil, fmt.Errorf("encounter %s: random source must not be nil", opts.ID)
	case opts.Logger == nil:
		return nil, fmt.Errorf("encounter %s: logger must not be nil", opts.ID)
	case opts.PlayerTurnTimeout < 0 || opts.SkipTurnAnger < 0:
		return nil, fmt.Errorf("encounter %s: timeout and skip anger must not be negative", opts.ID)
	}
	e := &Encounter{
		opts:        opts,
		logger:      opts.Logger.With(zap.String("encounter_id", opts.ID), zap.String("scene", opts.Scene.ID())),
		controllers: make(map[string]TurnTaker),
		order:       NewTurnOrder(),
	}
	e.resolver = NewResolver(func() []*Combatant { return e.roster }, opts.Source, e.logger)
	return e, nil
}

// Start builds the roster, plays the intro, and runs turns until the first
// player turn or a terminal state.
//
// Precondition: Start has not been called before.
// Postcondition: On error the encounter stays idle and may be retried.
func (e *Encounter) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEncounterOver
	}
	if e.state != StateIdle {
		return ErrAlreadyStarted
	}
	parts, err := e.opts.Scene.Participants(ctx)
	if err != nil {
		return fmt.Errorf("building roster for scene %q: %w", e.opts.Scene.ID(), err)
	}
	if err := e.validate(parts); err != nil {
		return err
	}

	e.ctx, e.cancel = context.WithCancel(ctx)
	e.startedAt = time.Now()
	e.setState(StateInitialize)
	emitter := EmitterFunc(e.publish)
	for _, p := range parts {
		e.roster = append(e.roster, p.Combatant)
		e.controllers[p.Combatant.ID()] = p.Controller
		p.Combatant.Bind(emitter, e.resolver)
		p.Combatant.Initialize()
	}
	e.order.Rebuild(e.roster)
	e.logger.Info("encounter started", zap.Int("combatants", len(e.roster)))
	e.narrate(CueIntro)
	e.run()
	return nil
}

func (e *Encounter) validate(parts []Participant) error {
	seen := make(map[string]bool, len(parts))
	var players, enemies int
	for i, p := range parts {
		if p.Combatant == nil {
			return fmt.Errorf("scene %q: participant %d has no combatant", e.opts.Scene.ID(), i)
		}
		id := p.Combatant.ID()
		if p.Controller == nil {
			return fmt.Errorf("scene %q: combatant %q: %w", e.opts.Scene.ID(), id, ErrMissingController)
		}
		if seen[id] {
			return fmt.Errorf("scene %q: duplicate combatant id %q", e.opts.Scene.ID(), id)
		}
		seen[id] = true
		if p.Combatant.IsPlayerControlled() {
			players++
		} else {
			enemies++
		}
	}
	if players == 0 || enemies == 0 {
		return fmt.Errorf("scene %q: need at least one player and one enemy, got %d and %d",
			e.opts.Scene.ID(), players, enemies)
	}
	return nil
}

// run advances the machine until it suspends on a player turn or ends.
// Caller must hold e.mu.
func (e *Encounter) run() {
	for !e.state.Terminal() && !e.closed {
		next := e.order.Next(e.roster)
		if next == nil {
			e.finish(StateDefeat)
			return
		}
		e.acting = next
		e.selected = nil
		e.setState(StateStartTurn)
		e.publish(Event{Type: EventTurnStarted, Combatant: next, Turn: e.turn, Round: e.order.Round()})
		if next.IsPlayerControlled() {
			e.setState(StatePlayerTurn)
		} else {
			e.setState(StateEnemyTurn)
		}

		action, ready, err := e.controllers[next.ID()].TakeTurn(e.ctx, e.view(next))
		if err != nil {
			e.logger.Warn("turn decision failed; skipping turn",
				zap.String("combatant", next.ID()), zap.Error(err))
			action, ready = Skip(), true
		}
		if !ready {
			e.armTimer()
			return
		}
		e.perform(next, action)
		e.endTurn()
	}
}

// perform executes a decided action, downgrading anything invalid to a skip.
func (e *Encounter) perform(c *Combatant, a Action) {
	if a.Type == ActionAbility {
		err := e.useAbility(c, a.AbilityID, a.TargetID)
		if err == nil {
			return
		}
		e.logger.Warn("invalid action; skipping turn",
			zap.String("combatant", c.ID()),
			zap.String("ability", a.AbilityID),
			zap.String("target", a.TargetID),
			zap.Error(err))
	}
	c.GainAnger(e.opts.SkipTurnAnger)
}

func (e *Encounter) useAbility(c *Combatant, abilityID, targetID string) error {
	ab, ok := c.Ability(abilityID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAbility, abilityID)
	}
	if !c.CanUseAbility(ab) {
		return ErrInsufficientAnger
	}
	target, err := e.targetFor(ab, targetID)
	if err != nil {
		return err
	}
	if _, ok := c.UseAbility(ab, target); !ok {
		return ErrInvalidTarget
	}
	ab.lastTurn = e.turn
	return nil
}

// targetFor resolves the target of ab. Self abilities target the owner and
// area abilities need none.
func (e *Encounter) targetFor(ab *Ability, targetID string) (*Combatant, error) {
	switch {
	case ab.def.Target.IsArea():
		return nil, nil
	case targetID == "" && ab.IsValidTarget(ab.owner):
		return ab.owner, nil
	}
	target := e.find(targetID)
	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCombatant, targetID)
	}
	if !ab.IsValidTarget(target) {
		return nil, fmt.Errorf("%w: %q for %q", ErrInvalidTarget, targetID, ab.ID())
	}
	return target, nil
}

// endTurn ticks the acting combatant's effects and evaluates end conditions.
func (e *Encounter) endTurn() {
	e.stopTimer()
	c := e.acting
	e.setState(StateEndTurn)
	c.UpdateStatusEffects()
	e.publish(Event{Type: EventTurnEnded, Combatant: c, Turn: e.turn, Round: e.order.Round()})
	e.turn++
	e.acting = nil
	e.selected = nil

	switch {
	case e.factionDefeated(FactionEnemy):
		e.finish(StateVictory)
	case e.factionDefeated(FactionPlayer):
		e.finish(StateDefeat)
	}
}

func (e *Encounter) factionDefeated(f Faction) bool {
	for _, c := range e.roster {
		if c.Faction() == f && !c.IsDefeated() {
			return false
		}
	}
	return true
}

// finish enters a terminal state exactly once.
func (e *Encounter) finish(s State) {
	if e.state.Terminal() {
		return
	}
	e.stopTimer()
	e.acting = nil
	e.selected = nil
	e.setState(s)
	var cue Cue
	switch s {
	case StateVictory:
		e.publish(Event{Type: EventVictory, Turn: e.turn})
		cue = CueVictory
	case StateDefeat:
		e.publish(Event{Type: EventDefeat, Turn: e.turn})
		cue = CueDefeat
	case StateEscape:
		e.publish(Event{Type: EventEscape, Turn: e.turn})
		cue = CueEscape
	}
	e.logger.Info("encounter ended",
		zap.Stringer("result", s), zap.Int("turns", e.turn), zap.Int("rounds", e.order.Round()))
	e.narrate(cue)
	e.record(s)
}

func (e *Encounter) record(s State) {
	if e.opts.Recorder == nil {
		return
	}
	o := Outcome{
		EncounterID: e.opts.ID,
		SceneID:     e.opts.Scene.ID(),
		Result:      s,
		Turns:       e.turn,
		Rounds:      e.order.Round(),
		StartedAt:   e.startedAt,
		EndedAt:     time.Now(),
	}
	for _, c := range e.roster {
		if !c.IsDefeated() {
			o.Survivors = append(o.Survivors, c.ID())
		}
	}
	if err := e.opts.Recorder.RecordOutcome(e.ctx, o); err != nil {
		e.logger.Warn("recording encounter outcome", zap.Error(err))
	}
}

func (e *Encounter) narrate(cue Cue) {
	if e.opts.Narrator == nil {
		return
	}
	seq := e.opts.Scene.Sequence(cue)
	if seq == "" {
		return
	}
	if err := e.opts.Narrator.Play(e.ctx, seq); err != nil {
		e.logger.Warn("narrative sequence failed",
			zap.String("cue", string(cue)), zap.String("sequence", seq), zap.Error(err))
	}
}

func (e *Encounter) armTimer() {
	d := e.opts.PlayerTurnTimeout
	if d <= 0 {
		return
	}
	turn := e.turn
	fire := func() { e.onTimeout(turn) }
	if e.timer == nil {
		e.timer = NewTurnTimer(d, fire)
		return
	}
	e.timer.Reset(d, fire)
}

func (e *Encounter) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
	}
}

func (e *Encounter) onTimeout(turn int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state != StatePlayerTurn || e.turn != turn {
		return
	}
	e.logger.Info("player turn timed out", zap.String("combatant", e.acting.ID()))
	e.acting.GainAnger(e.opts.SkipTurnAnger)
	e.endTurn()
	e.run()
}

func (e *Encounter) setState(s State) {
	if e.state == s {
		return
	}
	e.state = s
	e.publish(Event{Type: EventStateChanged, State: s, Turn: e.turn})
}

func (e *Encounter) publish(ev Event) {
	if ev.Type == EventDefeated {
		e.logger.Info("combatant defeated", zap.String("combatant", ev.Combatant.ID()))
	}
	e.opts.Bus.Publish(ev)
}

func (e *Encounter) view(c *Combatant) TurnView {
	v := TurnView{Self: c, Turn: e.turn, Round: e.order.Round()}
	for _, o := range e.roster {
		switch {
		case o == c || o.IsDefeated():
		case o.Faction() == c.Faction():
			v.Allies = append(v.Allies, o)
		default:
			v.Enemies = append(v.Enemies, o)
		}
	}
	return v
}

func (e *Encounter) find(id string) *Combatant {
	for _, c := range e.roster {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// playerTurn checks that combatantID may act now. Caller must hold e.mu.
func (e *Encounter) playerTurn(combatantID string) (*Combatant, error) {
	if e.closed || e.state.Terminal() {
		return nil, ErrEncounterOver
	}
	if e.state != StatePlayerTurn || e.acting == nil || e.acting.ID() != combatantID {
		return nil, ErrNotYourTurn
	}
	return e.acting, nil
}

// SelectAbility chooses an ability for the acting player. Self and area
// abilities resolve immediately and end the turn; others wait for SelectTarget.
//
// Postcondition: On error nothing changes.
func (e *Encounter) SelectAbility(combatantID, abilityID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.playerTurn(combatantID)
	if err != nil {
		return err
	}
	ab, ok := c.Ability(abilityID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAbility, abilityID)
	}
	if !c.CanUseAbility(ab) {
		return ErrInsufficientAnger
	}
	if ab.def.Target.IsArea() || ab.def.Target == ability.TargetSelf {
		if err := e.useAbility(c, abilityID, ""); err != nil {
			return err
		}
		e.endTurn()
		e.run()
		return nil
	}
	e.selected = ab
	return nil
}

// SelectTarget executes the selected ability against targetID and ends the turn.
//
// Postcondition: On error nothing changes and the selection is kept.
func (e *Encounter) SelectTarget(combatantID, targetID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.playerTurn(combatantID)
	if err != nil {
		return err
	}
	if e.selected == nil {
		return ErrNoSelection
	}
	if err := e.useAbility(c, e.selected.ID(), targetID); err != nil {
		return err
	}
	e.endTurn()
	e.run()
	return nil
}

// CancelSelection drops the pending ability selection without ending the turn.
func (e *Encounter) CancelSelection(combatantID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.playerTurn(combatantID); err != nil {
		return err
	}
	e.selected = nil
	return nil
}

// SkipTurn grants the configured anger and ends the turn.
func (e *Encounter) SkipTurn(combatantID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.playerTurn(combatantID)
	if err != nil {
		return err
	}
	c.GainAnger(e.opts.SkipTurnAnger)
	e.endTurn()
	e.run()
	return nil
}

// SelfHarm trades cost blood for anger. The turn continues unless the
// combatant bleeds out.
//
// Precondition: cost >= 1.
func (e *Encounter) SelfHarm(combatantID string, cost int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.playerTurn(combatantID)
	if err != nil {
		return err
	}
	if cost < 1 {
		return fmt.Errorf("self harm cost must be >= 1, got %d", cost)
	}
	c.SelfHarm(cost)
	if c.IsDefeated() {
		e.endTurn()
		e.run()
	}
	return nil
}

// Escape ends the encounter in the Escape state.
func (e *Encounter) Escape(combatantID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.playerTurn(combatantID); err != nil {
		return err
	}
	e.finish(StateEscape)
	return nil
}

// Close tears the encounter down without rollback. Safe to call multiple times.
//
// Postcondition: every input method returns ErrEncounterOver.
func (e *Encounter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.stopTimer()
	if e.cancel != nil {
		e.cancel()
	}
}

// ID returns the encounter identifier.
func (e *Encounter) ID() string { return e.opts.ID }

// State returns the current phase.
func (e *Encounter) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Done reports whether the encounter reached a terminal state or was closed.
func (e *Encounter) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed || e.state.Terminal()
}

// Turn returns the number of completed turns.
func (e *Encounter) Turn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.turn
}

// Round returns the number of rounds started.
func (e *Encounter) Round() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order.Round()
}

// Acting returns a view of the combatant whose turn it is.
func (e *Encounter) Acting() (CombatantView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.acting == nil {
		return CombatantView{}, false
	}
	return e.acting.View(), true
}

// Selected returns the ID of the pending ability selection, or "".
func (e *Encounter) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == nil {
		return ""
	}
	return e.selected.ID()
}

// Roster returns views of every combatant in roster order, defeated ones
// included.
func (e *Encounter) Roster() []CombatantView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return views(e.roster)
}

// Combatant returns a view of the roster member with the given ID.
func (e *Encounter) Combatant(id string) (CombatantView, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := e.find(id)
	if c == nil {
		return CombatantView{}, false
	}
	return c.View(), true
}

// ValidTargets returns views of the live combatants the acting combatant's
// ability may target.
func (e *Encounter) ValidTargets(abilityID string) ([]CombatantView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.acting == nil {
		return nil, ErrNotYourTurn
	}
	ab, ok := e.acting.Ability(abilityID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, abilityID)
	}
	return views(e.resolver.ValidTargets(ab)), nil
}
