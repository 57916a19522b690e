package effect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/bloodrage/internal/game/effect"
)

func TestParseKind_RoundTripsNames(t *testing.T) {
	for _, k := range []effect.Kind{
		effect.KindBleed, effect.KindEnrage, effect.KindProtect, effect.KindWeaken,
		effect.KindStrengthen, effect.KindFocus, effect.KindConfusion, effect.KindTaunt,
	} {
		got, err := effect.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	k, err := effect.ParseKind("frozen")
	assert.Error(t, err)
	assert.Equal(t, effect.KindUnknown, k)
	assert.Equal(t, "unknown", effect.KindUnknown.String())
}

func TestKind_YAML(t *testing.T) {
	var tmpl effect.Template
	require.NoError(t, yaml.Unmarshal([]byte("id: x\nkind: Protect\nduration: 2\nmagnitude: 0.5\n"), &tmpl))
	assert.Equal(t, effect.KindProtect, tmpl.Kind)

	out, err := yaml.Marshal(tmpl)
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: protect")
}

func TestTemplate_Validate(t *testing.T) {
	valid := effect.Template{ID: "guard", Kind: effect.KindProtect, Duration: 2, Magnitude: 0.5}
	require.NoError(t, valid.Validate())

	cases := map[string]effect.Template{
		"empty id":        {Kind: effect.KindProtect, Duration: 2},
		"no kind":         {ID: "x", Duration: 2},
		"zero duration":   {ID: "x", Kind: effect.KindBleed},
		"negative":        {ID: "x", Kind: effect.KindBleed, Duration: 1, Magnitude: -1},
		"confusion above": {ID: "x", Kind: effect.KindConfusion, Duration: 1, Magnitude: 1.5},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			assert.Error(t, tc.Validate())
		})
	}
}

func TestRegistry_GetAndLen(t *testing.T) {
	reg := effect.NewRegistry()
	tmpl := &effect.Template{ID: "guard", Kind: effect.KindProtect, Duration: 1}
	reg.Register(tmpl)
	got, ok := reg.Get("guard")
	require.True(t, ok)
	assert.Same(t, tmpl, got)
	_, ok = reg.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bleed.yaml"), []byte(`
id: open_wound
name: Open Wound
kind: bleed
duration: 2
magnitude: 5
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	reg, err := effect.LoadDirectory(dir)
	require.NoError(t, err)
	tmpl, ok := reg.Get("open_wound")
	require.True(t, ok)
	assert.Equal(t, effect.KindBleed, tmpl.Kind)
	assert.Equal(t, 2, tmpl.Duration)
	assert.InDelta(t, 5.0, tmpl.Magnitude, 1e-9)
}

func TestLoadDirectory_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
id: x
kind: bleed
duration: 1
potency: 9
`), 0644))
	_, err := effect.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidTemplateRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\nkind: bleed\nduration: 0\n"), 0644))
	_, err := effect.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := effect.LoadDirectory(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
