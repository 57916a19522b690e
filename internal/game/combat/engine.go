package combat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// Settings are the encounter tunables shared by every encounter an Engine starts.
type Settings struct {
	PlayerTurnTimeout time.Duration
	SkipTurnAnger     int
}

// Engine manages all live encounters, keyed by encounter ID.
// All methods are safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	encounters map[string]*Encounter

	settings Settings
	src      effect.Source
	recorder OutcomeRecorder
	logger   *zap.Logger
}

// NewEngine creates an empty Engine.
//
// Precondition: src and logger must be non-nil; recorder may be nil.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(settings Settings, src effect.Source, recorder OutcomeRecorder, logger *zap.Logger) *Engine {
	return &Engine{
		encounters: make(map[string]*Encounter),
		settings:   settings,
		src:        src,
		recorder:   recorder,
		logger:     logger,
	}
}

// StartEncounter creates an encounter for scene under a fresh ID, subscribes
// listeners, and starts it.
//
// Precondition: scene must be non-nil; narrator may be nil.
// Postcondition: On success the encounter is registered and has run up to
// its first player turn (or finished).
func (en *Engine) StartEncounter(ctx context.Context, scene Scene, narrator Narrator, listeners ...Listener) (*Encounter, error) {
	bus := NewBus()
	for _, l := range listeners {
		bus.Subscribe(l)
	}
	enc, err := NewEncounter(Options{
		ID:                uuid.NewString(),
		Scene:             scene,
		Bus:               bus,
		Source:            en.src,
		Logger:            en.logger,
		Narrator:          narrator,
		Recorder:          en.recorder,
		PlayerTurnTimeout: en.settings.PlayerTurnTimeout,
		SkipTurnAnger:     en.settings.SkipTurnAnger,
	})
	if err != nil {
		return nil, err
	}

	en.mu.Lock()
	en.encounters[enc.ID()] = enc
	en.mu.Unlock()

	if err := enc.Start(ctx); err != nil {
		en.End(enc.ID())
		return nil, fmt.Errorf("starting encounter: %w", err)
	}
	return enc, nil
}

// Get returns the live encounter with the given ID.
//
// Postcondition: Returns (encounter, true) if found, or (nil, false) otherwise.
func (en *Engine) Get(id string) (*Encounter, bool) {
	en.mu.RLock()
	defer en.mu.RUnlock()
	enc, ok := en.encounters[id]
	return enc, ok
}

// End closes and removes the encounter. Unknown IDs are ignored.
func (en *Engine) End(id string) {
	en.mu.Lock()
	enc, ok := en.encounters[id]
	delete(en.encounters, id)
	en.mu.Unlock()
	if ok {
		enc.Close()
	}
}

// Len returns the number of registered encounters.
func (en *Engine) Len() int {
	en.mu.RLock()
	defer en.mu.RUnlock()
	return len(en.encounters)
}

// Shutdown closes every registered encounter.
func (en *Engine) Shutdown() {
	en.mu.Lock()
	encs := en.encounters
	en.encounters = make(map[string]*Encounter)
	en.mu.Unlock()
	for _, enc := range encs {
		enc.Close()
	}
}
