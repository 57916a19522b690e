package character

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// Slot places one character in a scene.
type Slot struct {
	Character string `yaml:"character"`
	// ID is the combatant ID in the encounter; defaults to Character.
	ID string `yaml:"id"`
}

// CombatantID returns the encounter ID of the slot.
func (s Slot) CombatantID() string {
	if s.ID != "" {
		return s.ID
	}
	return s.Character
}

// Narrative names the script hooks played at encounter cues.
type Narrative struct {
	Intro   string `yaml:"intro"`
	Victory string `yaml:"victory"`
	Defeat  string `yaml:"defeat"`
	Escape  string `yaml:"escape"`
}

// SceneDef is the authored layout of one encounter.
type SceneDef struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Players     []Slot    `yaml:"players"`
	Enemies     []Slot    `yaml:"enemies"`
	Narrative   Narrative `yaml:"narrative"`
}

// Validate checks the scene invariants.
//
// Postcondition: Returns nil iff ID is non-empty, both sides have at least
// one slot, every slot names a character, and combatant IDs are unique.
func (s *SceneDef) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("scene: id must not be empty")
	}
	if len(s.Players) == 0 || len(s.Enemies) == 0 {
		return fmt.Errorf("scene %q: players and enemies must not be empty", s.ID)
	}
	seen := make(map[string]bool)
	for _, slot := range append(append([]Slot{}, s.Players...), s.Enemies...) {
		if slot.Character == "" {
			return fmt.Errorf("scene %q: slot without character", s.ID)
		}
		id := slot.CombatantID()
		if seen[id] {
			return fmt.Errorf("scene %q: duplicate combatant id %q", s.ID, id)
		}
		seen[id] = true
	}
	return nil
}

// LoadScenes reads every *.yaml file in dir as a scene definition.
//
// Postcondition: Returns scenes keyed by ID or an error on the first bad file.
func LoadScenes(dir string) (map[string]*SceneDef, error) {
	scenes := make(map[string]*SceneDef)
	err := eachYAML(dir, func(path string, data []byte) error {
		var s SceneDef
		if err := decodeStrict(data, &s); err != nil {
			return fmt.Errorf("parsing scene YAML: %w", err)
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := scenes[s.ID]; dup {
			return fmt.Errorf("duplicate scene id %q", s.ID)
		}
		scenes[s.ID] = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scenes, nil
}

// ControllerFactory picks the turn taker for a character fielded on a side.
type ControllerFactory func(d *Data, faction combat.Faction) (combat.TurnTaker, error)

// Scene is a combat.Scene backed by authored content.
type Scene struct {
	def         *SceneDef
	catalog     *Catalog
	builder     *Builder
	controllers ControllerFactory
}

// NewScene binds def to the content it references.
//
// Precondition: all arguments must be non-nil.
// Postcondition: Returns an error if def references an unknown character.
func NewScene(def *SceneDef, catalog *Catalog, builder *Builder, controllers ControllerFactory) (*Scene, error) {
	for _, slot := range append(append([]Slot{}, def.Players...), def.Enemies...) {
		if _, ok := catalog.Get(slot.Character); !ok {
			return nil, fmt.Errorf("scene %q: unknown character %q", def.ID, slot.Character)
		}
	}
	return &Scene{def: def, catalog: catalog, builder: builder, controllers: controllers}, nil
}

// ID returns the scene ID.
func (s *Scene) ID() string { return s.def.ID }

// Participants builds fresh combatants, players first, each in slot order.
func (s *Scene) Participants(ctx context.Context) ([]combat.Participant, error) {
	var parts []combat.Participant
	add := func(slots []Slot, faction combat.Faction) error {
		for _, slot := range slots {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, _ := s.catalog.Get(slot.Character)
			tt, err := s.controllers(d, faction)
			if err != nil {
				return fmt.Errorf("controller for %q: %w", slot.CombatantID(), err)
			}
			parts = append(parts, combat.Participant{
				Combatant:  s.builder.Build(d, slot.CombatantID(), faction),
				Controller: tt,
			})
		}
		return nil
	}
	if err := add(s.def.Players, combat.FactionPlayer); err != nil {
		return nil, err
	}
	if err := add(s.def.Enemies, combat.FactionEnemy); err != nil {
		return nil, err
	}
	return parts, nil
}

// Sequence returns the narrative hook for cue.
func (s *Scene) Sequence(cue combat.Cue) string {
	switch cue {
	case combat.CueIntro:
		return s.def.Narrative.Intro
	case combat.CueVictory:
		return s.def.Narrative.Victory
	case combat.CueDefeat:
		return s.def.Narrative.Defeat
	case combat.CueEscape:
		return s.def.Narrative.Escape
	}
	return ""
}
