package gameserver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/config"
	"github.com/cory-johannsen/bloodrage/internal/game/ai"
	"github.com/cory-johannsen/bloodrage/internal/game/character"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
	"github.com/cory-johannsen/bloodrage/internal/observability"
)

// ErrUnknownScene is returned by StartScene for IDs not in the content.
var ErrUnknownScene = errors.New("unknown scene")

// Service starts encounters from authored scenes and owns the engine that
// tracks them.
type Service struct {
	content     *Content
	caller      ai.ScriptCaller
	builder     *character.Builder
	controllers character.ControllerFactory
	engine      *combat.Engine
	logger      *zap.Logger
}

// NewService wires content into a combat engine.
//
// Precondition: content, src and logger must be non-nil. caller and recorder
// may be nil; pass untyped nil rather than a typed nil pointer.
// Postcondition: Returns a Service with no live encounters.
func NewService(
	cfg config.CombatConfig,
	content *Content,
	caller ai.ScriptCaller,
	src effect.Source,
	recorder combat.OutcomeRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		content:     content,
		caller:      caller,
		builder:     character.NewBuilder(content.Abilities, cfg.MaxAbilitySlots, logger),
		controllers: NewControllerFactory(content.Tactics, caller, logger),
		engine: combat.NewEngine(combat.Settings{
			PlayerTurnTimeout: cfg.PlayerTurnTimeout,
			SkipTurnAnger:     cfg.SkipTurnAnger,
		}, src, recorder, logger),
		logger: logger,
	}
}

// SceneIDs lists the scenes that can be started, sorted.
func (s *Service) SceneIDs() []string { return s.content.SceneIDs() }

// Scene returns the authored definition of sceneID.
func (s *Service) Scene(sceneID string) (*character.SceneDef, bool) {
	def, ok := s.content.Scenes[sceneID]
	return def, ok
}

// Engine exposes the encounter registry.
func (s *Service) Engine() *combat.Engine { return s.engine }

// StartScene starts an encounter of the named scene. Every encounter signal
// is logged; listeners receive them afterwards in the given order.
//
// Postcondition: On success the encounter is registered with the engine and
// has run up to its first player turn or its end.
func (s *Service) StartScene(ctx context.Context, sceneID string, listeners ...combat.Listener) (*combat.Encounter, error) {
	def, ok := s.content.Scenes[sceneID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, sceneID)
	}
	scene, err := character.NewScene(def, s.content.Characters, s.builder, s.controllers)
	if err != nil {
		return nil, err
	}
	var narrator combat.Narrator
	if s.caller != nil {
		narrator = NewScriptNarrator(s.caller, sceneID)
	}
	all := append([]combat.Listener{observability.CombatLogger(s.logger)}, listeners...)
	enc, err := s.engine.StartEncounter(ctx, scene, narrator, all...)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scene started",
		zap.String("scene", sceneID),
		zap.String("encounter_id", enc.ID()),
		zap.Stringer("state", enc.State()),
	)
	return enc, nil
}

// Finish closes and forgets the encounter.
func (s *Service) Finish(encounterID string) { s.engine.End(encounterID) }

// Shutdown closes every live encounter.
func (s *Service) Shutdown() {
	n := s.engine.Len()
	s.engine.Shutdown()
	s.logger.Info("combat service stopped", zap.Int("closed_encounters", n))
}
