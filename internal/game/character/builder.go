package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/ability"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// Builder turns character templates into combatants.
type Builder struct {
	abilities *ability.Registry
	maxSlots  int
	logger    *zap.Logger
}

// NewBuilder creates a Builder.
//
// Precondition: abilities and logger must be non-nil; maxSlots >= 1.
func NewBuilder(abilities *ability.Registry, maxSlots int, logger *zap.Logger) *Builder {
	return &Builder{abilities: abilities, maxSlots: maxSlots, logger: logger}
}

// Build creates a combatant for d with the given encounter ID and faction.
// Unknown ability IDs are skipped and abilities beyond the slot limit are
// dropped; both are logged at Warn.
//
// Postcondition: Returns an initialized combatant holding at most maxSlots abilities.
func (b *Builder) Build(d *Data, id string, faction combat.Faction) *combat.Combatant {
	var defs []*ability.Definition
	for _, abID := range d.StartingAbilities {
		def, ok := b.abilities.Get(abID)
		if !ok {
			b.logger.Warn("unknown starting ability; skipping",
				zap.String("character", d.ID), zap.String("ability", abID))
			continue
		}
		defs = append(defs, def)
	}
	if len(defs) > b.maxSlots {
		b.logger.Warn("more abilities than slots; extra abilities ignored",
			zap.String("character", d.ID),
			zap.Int("abilities", len(defs)),
			zap.Int("slots", b.maxSlots))
		defs = defs[:b.maxSlots]
	}
	return combat.NewCombatant(combat.Stats{
		ID:        id,
		Name:      d.Name,
		Faction:   faction,
		MaxBlood:  d.MaxBlood,
		MaxAnger:  d.MaxAnger,
		Abilities: defs,
	})
}
