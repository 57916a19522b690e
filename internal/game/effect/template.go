// Package effect implements time-limited status effects and the modifier
// pipeline they feed into damage, anger gain, ability cost, and targeting.
package effect

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the behaviour of a status effect.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown    Kind = iota // zero value; intentionally invalid
	KindBleed                  // loses blood every tick
	KindEnrage                 // amplifies anger gain
	KindProtect                // reduces incoming damage
	KindWeaken                 // reduces self-inflicted damage
	KindStrengthen             // amplifies outgoing damage
	KindFocus                  // reduces ability anger cost
	KindConfusion              // chance to hit a random combatant
	KindTaunt                  // draws enemy attacks onto its owner
)

var kindNames = map[Kind]string{
	KindBleed:      "bleed",
	KindEnrage:     "enrage",
	KindProtect:    "protect",
	KindWeaken:     "weaken",
	KindStrengthen: "strengthen",
	KindFocus:      "focus",
	KindConfusion:  "confusion",
	KindTaunt:      "taunt",
}

// String returns the lowercase content name of the kind, or "unknown".
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a content name such as "bleed" to its Kind.
//
// Postcondition: Returns KindUnknown and a non-nil error for unrecognised names.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown status effect kind %q", s)
}

// UnmarshalYAML decodes a kind from its content name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a kind as its content name.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Template is the authored, immutable definition of a status effect.
// Templates are shared; every application creates a fresh Effect.
type Template struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Kind        Kind    `yaml:"kind"`
	Duration    int     `yaml:"duration"`  // turns of the owner
	Magnitude   float64 `yaml:"magnitude"` // multiplier, probability, or bleed amount
}

// Validate checks the template invariants.
//
// Postcondition: Returns nil iff ID is non-empty, Kind is known, Duration >= 1,
// and Magnitude is non-negative (and at most 1 for Confusion, a probability).
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("effect template: id must not be empty")
	}
	if t.Kind == KindUnknown {
		return fmt.Errorf("effect template %q: kind must be set", t.ID)
	}
	if t.Duration < 1 {
		return fmt.Errorf("effect template %q: duration must be >= 1, got %d", t.ID, t.Duration)
	}
	if t.Magnitude < 0 {
		return fmt.Errorf("effect template %q: magnitude must not be negative", t.ID)
	}
	if t.Kind == KindConfusion && t.Magnitude > 1 {
		return fmt.Errorf("effect template %q: confusion magnitude is a probability, got %v", t.ID, t.Magnitude)
	}
	return nil
}

// Registry holds all known Templates keyed by ID.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Register adds t to the registry, overwriting any existing entry with the same ID.
// Precondition: t must not be nil and t.ID must not be empty.
func (r *Registry) Register(t *Template) {
	r.templates[t.ID] = t
}

// Get returns the Template for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.templates) }

// LoadDirectory reads every *.yaml file in dir, parses and validates each as a
// Template, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error naming the first bad file.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var t Template
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		if _, dup := reg.Get(t.ID); dup {
			return nil, fmt.Errorf("%q: duplicate effect id %q", path, t.ID)
		}
		reg.Register(&t)
	}
	return reg, nil
}
