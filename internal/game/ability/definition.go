// Package ability defines authored ability templates. Definitions are
// immutable once loaded and are shared by every combatant that owns them;
// per-owner state lives in the combat package.
package ability

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

// TargetType classifies which combatants an ability may be aimed at.
// The zero value (TargetUnknown) is intentionally invalid.
type TargetType int

const (
	TargetUnknown TargetType = iota // zero value; intentionally invalid
	TargetSelf
	TargetSingleAlly
	TargetAllAllies
	TargetSingleEnemy
	TargetAllEnemies
	TargetAll
)

var targetNames = map[TargetType]string{
	TargetSelf:        "self",
	TargetSingleAlly:  "single_ally",
	TargetAllAllies:   "all_allies",
	TargetSingleEnemy: "single_enemy",
	TargetAllEnemies:  "all_enemies",
	TargetAll:         "all",
}

// String returns the content name of the target type, or "unknown".
func (t TargetType) String() string {
	if s, ok := targetNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTargetType maps a content name such as "single_enemy" to its TargetType.
func ParseTargetType(s string) (TargetType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range targetNames {
		if n == name {
			return t, nil
		}
	}
	return TargetUnknown, fmt.Errorf("unknown target type %q", s)
}

// UnmarshalYAML decodes a target type from its content name.
func (t *TargetType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTargetType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML encodes a target type as its content name.
func (t TargetType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// IsArea reports whether the ability hits every valid target at once.
func (t TargetType) IsArea() bool {
	return t == TargetAllAllies || t == TargetAllEnemies || t == TargetAll
}

// IsSingle reports whether the ability is aimed at exactly one other combatant.
func (t TargetType) IsSingle() bool {
	return t == TargetSingleAlly || t == TargetSingleEnemy
}

// Definition is the authored template of an ability.
type Definition struct {
	ID              string     `yaml:"id"`
	Name            string     `yaml:"name"`
	Description     string     `yaml:"description"`
	AngerCost       int        `yaml:"anger_cost"`
	Target          TargetType `yaml:"target"`
	BaseDamage      int        `yaml:"base_damage"`
	Healing         int        `yaml:"healing"`
	AngerGeneration int        `yaml:"anger_generation"`
	StatusEffects   []string   `yaml:"status_effects"` // effect template IDs

	effects []*effect.Template
}

// Validate checks the definition invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Target is known,
// and no numeric field is negative.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("ability: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", d.ID)
	}
	if d.Target == TargetUnknown {
		return fmt.Errorf("ability %q: target must be set", d.ID)
	}
	if d.AngerCost < 0 || d.BaseDamage < 0 || d.Healing < 0 || d.AngerGeneration < 0 {
		return fmt.Errorf("ability %q: anger_cost, base_damage, healing and anger_generation must be >= 0", d.ID)
	}
	return nil
}

// Effects returns the linked status effect templates in authored order.
// Empty until the definition has been linked by a Registry.
func (d *Definition) Effects() []*effect.Template {
	out := make([]*effect.Template, len(d.effects))
	copy(out, d.effects)
	return out
}

// link resolves StatusEffects against reg.
func (d *Definition) link(reg *effect.Registry) error {
	linked := make([]*effect.Template, 0, len(d.StatusEffects))
	for _, id := range d.StatusEffects {
		t, ok := reg.Get(id)
		if !ok {
			return fmt.Errorf("ability %q: unknown status effect %q", d.ID, id)
		}
		linked = append(linked, t)
	}
	d.effects = linked
	return nil
}

// WithEffects returns a copy of d linked directly to the given templates.
// Intended for tests and programmatic content.
func (d Definition) WithEffects(templates ...*effect.Template) *Definition {
	d.effects = templates
	d.StatusEffects = make([]string, 0, len(templates))
	for _, t := range templates {
		d.StatusEffects = append(d.StatusEffects, t.ID)
	}
	return &d
}
