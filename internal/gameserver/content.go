// Package gameserver wires authored content, scripting and the combat engine
// into a runnable service.
package gameserver

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/bloodrage/internal/config"
	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/ai"
	"github.com/cory-johannsen/bloodrage/internal/game/character"
	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// Content is every authored registry a Service needs.
type Content struct {
	Effects    *effect.Registry
	Abilities  *ability.Registry
	Characters *character.Catalog
	Scenes     map[string]*character.SceneDef
	Tactics    *ai.Registry
}

// LoadContent reads the content directories named by cfg, in dependency order.
//
// Precondition: cfg has passed config validation.
// Postcondition: Returns fully populated registries, or an error naming the
// first directory that failed to load. An empty TacticsDir yields an empty
// tactics registry.
func LoadContent(cfg config.ContentConfig) (*Content, error) {
	effects, err := effect.LoadDirectory(cfg.EffectsDir)
	if err != nil {
		return nil, fmt.Errorf("loading effects: %w", err)
	}
	abilities, err := ability.LoadDirectory(cfg.AbilitiesDir, effects)
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	characters, err := character.LoadCatalog(cfg.CharactersDir)
	if err != nil {
		return nil, fmt.Errorf("loading characters: %w", err)
	}
	scenes, err := character.LoadScenes(cfg.ScenesDir)
	if err != nil {
		return nil, fmt.Errorf("loading scenes: %w", err)
	}
	tactics := ai.NewRegistry()
	if cfg.TacticsDir != "" {
		tactics, err = ai.LoadRegistry(cfg.TacticsDir)
		if err != nil {
			return nil, fmt.Errorf("loading tactics: %w", err)
		}
	}
	c := &Content{
		Effects:    effects,
		Abilities:  abilities,
		Characters: characters,
		Scenes:     scenes,
		Tactics:    tactics,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks cross references the individual loaders cannot see:
// scenes must name known characters and characters must name known tactics.
func (c *Content) Validate() error {
	for _, id := range c.Characters.IDs() {
		d, _ := c.Characters.Get(id)
		if d.Tactics == "" {
			continue
		}
		if _, ok := c.Tactics.Domain(d.Tactics); !ok {
			return fmt.Errorf("character %q: unknown tactics %q", d.ID, d.Tactics)
		}
	}
	for _, id := range c.SceneIDs() {
		def := c.Scenes[id]
		for _, slot := range append(append([]character.Slot{}, def.Players...), def.Enemies...) {
			if _, ok := c.Characters.Get(slot.Character); !ok {
				return fmt.Errorf("scene %q: unknown character %q", def.ID, slot.Character)
			}
		}
	}
	return nil
}

// SceneIDs returns the scene IDs in sorted order.
func (c *Content) SceneIDs() []string {
	ids := make([]string, 0, len(c.Scenes))
	for id := range c.Scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
