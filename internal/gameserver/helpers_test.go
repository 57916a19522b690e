package gameserver_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/bloodrage/internal/config"
	"github.com/cory-johannsen/bloodrage/internal/game/combat"
)

// shippedContent points at the content tree checked into the repository.
func shippedContent() config.ContentConfig {
	root := filepath.Join("..", "..", "content")
	return config.ContentConfig{
		EffectsDir:    filepath.Join(root, "effects"),
		AbilitiesDir:  filepath.Join(root, "abilities"),
		CharactersDir: filepath.Join(root, "characters"),
		ScenesDir:     filepath.Join(root, "scenes"),
		TacticsDir:    filepath.Join(root, "tactics"),
		ScriptsDir:    filepath.Join(root, "scripts"),
	}
}

// tempContent writes a minimal content tree and returns its config.
// files maps paths relative to the tree root to their bodies.
func tempContent(t *testing.T, files map[string]string) config.ContentConfig {
	t.Helper()
	root := t.TempDir()
	cfg := config.ContentConfig{
		EffectsDir:    filepath.Join(root, "effects"),
		AbilitiesDir:  filepath.Join(root, "abilities"),
		CharactersDir: filepath.Join(root, "characters"),
		ScenesDir:     filepath.Join(root, "scenes"),
		TacticsDir:    filepath.Join(root, "tactics"),
	}
	for _, dir := range []string{cfg.EffectsDir, cfg.AbilitiesDir, cfg.CharactersDir, cfg.ScenesDir, cfg.TacticsDir} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0644))
	}
	return cfg
}

// minimalFiles is one fighter against one rat.
func minimalFiles() map[string]string {
	return map[string]string{
		"effects/bleed.yaml":      "id: bleed\nname: Bleeding\nkind: bleed\nduration: 2\nmagnitude: 3\n",
		"abilities/stab.yaml":     "id: stab\nname: Stab\ntarget: single_enemy\nbase_damage: 5\nstatus_effects: [bleed]\n",
		"characters/fighter.yaml": "id: fighter\nname: Fighter\nmax_blood: 30\nmax_anger: 50\nplayer_controlled: true\nstarting_abilities: [stab]\n",
		"characters/rat.yaml":     "id: rat\nname: Rat\nmax_blood: 10\nmax_anger: 10\nstarting_abilities: [stab]\n",
		"scenes/cellar.yaml":      "id: cellar\nname: Cellar\nplayers:\n  - character: fighter\nenemies:\n  - character: rat\n",
	}
}

// mockCaller is an ai.ScriptCaller returning canned values per hook.
type mockCaller struct {
	mu      sync.Mutex
	returns map[string]lua.LValue
	err     error
	calls   []string
}

func (m *mockCaller) CallHook(_ context.Context, scope, hook string, _ ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, scope+"."+hook)
	if m.err != nil {
		return lua.LNil, m.err
	}
	if v, ok := m.returns[hook]; ok {
		return v, nil
	}
	return lua.LNil, nil
}

func (m *mockCaller) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// outcomeLog is an in-memory combat.OutcomeRecorder.
type outcomeLog struct {
	mu       sync.Mutex
	outcomes []combat.Outcome
}

func (l *outcomeLog) RecordOutcome(_ context.Context, o combat.Outcome) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, o)
	return nil
}

func (l *outcomeLog) All() []combat.Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]combat.Outcome(nil), l.outcomes...)
}
