package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/gamesys/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 0, cfg.Store.MaxEntities)
	assert.Empty(t, cfg.Store.ComponentCapacity)
	assert.False(t, cfg.Assemblage.StrictDependencies)
	assert.Empty(t, cfg.Assemblage.ArchetypesPath)
	assert.Equal(t, 10*time.Second, cfg.Stress.Duration)
	assert.Equal(t, 4, cfg.Stress.Worlds)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[logging]
level = "debug"

[store]
max_entities = 500

[store.component_capacity]
Physics = 64

[assemblage]
strict_dependencies = true

[stress]
duration = "2m"
destroy_chance = 0.5
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format, "unset keys keep their defaults")
	assert.Equal(t, 500, cfg.Store.MaxEntities)
	assert.Equal(t, map[string]int{"Physics": 64}, cfg.Store.ComponentCapacity)
	assert.True(t, cfg.Assemblage.StrictDependencies)
	assert.Equal(t, 2*time.Minute, cfg.Stress.Duration)
	assert.Equal(t, 0.5, cfg.Stress.DestroyChance)
	assert.Equal(t, 1000, cfg.Stress.Entities)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "configs", "stress.toml"))
	require.NoError(t, err)
	assert.Equal(t, "data/archetypes.yaml", cfg.Assemblage.ArchetypesPath)
	assert.Equal(t, 15*time.Second, cfg.Stress.Duration)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[store\nmax_entities = "), 0o644))
	_, err = config.Load(path)
	assert.ErrorContains(t, err, "parse config")
}
