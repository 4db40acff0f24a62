package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Store      StoreConfig      `toml:"store"`
	Assemblage AssemblageConfig `toml:"assemblage"`
	Stress     StressConfig     `toml:"stress"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type StoreConfig struct {
	MaxEntities int `toml:"max_entities"` // 0 = unlimited
	// Per-kind component limits keyed by kind name, e.g. Physics = 4096.
	ComponentCapacity map[string]int `toml:"component_capacity"`
}

type AssemblageConfig struct {
	StrictDependencies bool   `toml:"strict_dependencies"`
	ArchetypesPath     string `toml:"archetypes_path"` // empty = built-in player archetype only
}

type StressConfig struct {
	Duration      time.Duration `toml:"duration"`
	Worlds        int           `toml:"worlds"`
	Entities      int           `toml:"entities"`
	SpawnPerTick  int           `toml:"spawn_per_tick"`
	DestroyChance float64       `toml:"destroy_chance"` // per live player per tick (0.0-1.0)
	DetachChance  float64       `toml:"detach_chance"`  // chance to strip Physics and leave dependents dangling
	Prune         bool          `toml:"prune"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			MaxEntities:       0,
			ComponentCapacity: map[string]int{},
		},
		Assemblage: AssemblageConfig{
			StrictDependencies: false,
		},
		Stress: StressConfig{
			Duration:      10 * time.Second,
			Worlds:        4,
			Entities:      1000,
			SpawnPerTick:  16,
			DestroyChance: 0.01,
			DetachChance:  0.002,
			Prune:         true,
		},
	}
}
