// Package character loads authored character and scene content and turns it
// into combat participants.
package character

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data is the authored template of a character.
type Data struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	MaxBlood    int    `yaml:"max_blood"`
	MaxAnger    int    `yaml:"max_anger"`
	// PlayerControlled characters take their turns from player input when
	// fielded on the player side.
	PlayerControlled  bool     `yaml:"player_controlled"`
	StartingAbilities []string `yaml:"starting_abilities"`
	// Script names the script scope whose decide hook drives this character
	// when it is not player controlled. Empty uses the global scope.
	Script string `yaml:"script"`
	// Tactics names the ai domain planned against when the script scope
	// does not decide on its own. Empty falls back to greedy play.
	Tactics string `yaml:"tactics"`
}

// Validate checks the template invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, MaxBlood >= 1,
// and MaxAnger >= 0.
func (d *Data) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("character: id must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("character %q: name must not be empty", d.ID)
	}
	if d.MaxBlood < 1 {
		return fmt.Errorf("character %q: max_blood must be >= 1", d.ID)
	}
	if d.MaxAnger < 0 {
		return fmt.Errorf("character %q: max_anger must be >= 0", d.ID)
	}
	return nil
}

// LoadDataFromBytes parses and validates a single character template.
func LoadDataFromBytes(data []byte) (*Data, error) {
	var d Data
	if err := decodeStrict(data, &d); err != nil {
		return nil, fmt.Errorf("parsing character YAML: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Catalog holds character templates keyed by ID.
type Catalog struct {
	chars map[string]*Data
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{chars: make(map[string]*Data)}
}

// Add registers d.
//
// Postcondition: Returns an error if d.ID is already present.
func (c *Catalog) Add(d *Data) error {
	if _, dup := c.chars[d.ID]; dup {
		return fmt.Errorf("duplicate character id %q", d.ID)
	}
	c.chars[d.ID] = d
	return nil
}

// Get returns the template for id.
func (c *Catalog) Get(id string) (*Data, bool) {
	d, ok := c.chars[id]
	return d, ok
}

// IDs returns the registered IDs sorted.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.chars))
	for id := range c.chars {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// LoadCatalog reads every *.yaml file in dir as a character template.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first bad file.
func LoadCatalog(dir string) (*Catalog, error) {
	cat := NewCatalog()
	err := eachYAML(dir, func(path string, data []byte) error {
		d, err := LoadDataFromBytes(data)
		if err != nil {
			return err
		}
		return cat.Add(d)
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// eachYAML calls fn for every *.yaml file in dir, in directory order.
func eachYAML(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return nil
}
