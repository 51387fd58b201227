package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathsHonorsHomeOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv("GREENBASKET_HOME", base)

	p, err := ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, base, p.Base)
	assert.Equal(t, filepath.Join(base, "config.yaml"), p.Config)
	assert.Equal(t, filepath.Join(base, "data"), p.Data)
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("GREENBASKET_HOME", t.TempDir())
	p, err := ResolvePaths()
	require.NoError(t, err)

	cfg := Defaults()
	assert.Equal(t, filepath.Join(p.Data, "greenbasket.db"), p.DatabasePath(&cfg))

	cfg.Database.Path = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", p.DatabasePath(&cfg))
}

func TestParseConfigPath(t *testing.T) {
	parts, err := ParseConfigPath("completion.model")
	require.NoError(t, err)
	assert.Equal(t, []string{"completion", "model"}, parts)

	_, err = ParseConfigPath("")
	assert.Error(t, err)
	_, err = ParseConfigPath("a..b")
	assert.Error(t, err)
	_, err = ParseConfigPath("a.__proto__.b")
	assert.Error(t, err)
}

func TestValueAtPathHelpers(t *testing.T) {
	root := map[string]any{}

	SetValueAtPath(root, []string{"server", "port"}, 8080)
	v, ok := GetValueAtPath(root, []string{"server", "port"})
	require.True(t, ok)
	assert.Equal(t, 8080, v)

	assert.True(t, UnsetValueAtPath(root, []string{"server", "port"}))
	_, ok = GetValueAtPath(root, []string{"server", "port"})
	assert.False(t, ok)
	assert.False(t, UnsetValueAtPath(root, []string{"server", "port"}))
}
