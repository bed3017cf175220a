// Package config loads the simulation configuration from YAML with
// defaults applied for anything left unset.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultSeed = "prototype"

// Config captures the server and simulation toggles.
type Config struct {
	Addr       string `yaml:"addr"`
	TickRate   int    `yaml:"tickRate"`
	Seed       string `yaml:"seed"`
	Enemies    int    `yaml:"enemies"`
	Structures int    `yaml:"structures"`
	Log        Log    `yaml:"log"`
	World      World  `yaml:"world"`
}

// Log configures the structured logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// World selects the generated terrain features.
type World struct {
	Cols      int     `yaml:"cols"`
	Rows      int     `yaml:"rows"`
	CellSize  float64 `yaml:"cellSize"`
	Obstacles bool    `yaml:"obstacles"`
	Water     bool    `yaml:"water"`
	Rough     bool    `yaml:"rough"`
	Roads     bool    `yaml:"roads"`
}

// Default enables every world feature with the default seed.
func Default() Config {
	return Config{
		Addr:       ":8080",
		TickRate:   15,
		Seed:       defaultSeed,
		Enemies:    6,
		Structures: 4,
		Log: Log{
			Level:  "info",
			Format: "console",
		},
		World: World{
			Cols:      40,
			Rows:      30,
			CellSize:  32,
			Obstacles: true,
			Water:     true,
			Rough:     true,
			Roads:     true,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg.Normalized(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg.Normalized(), nil
}

// Normalized returns a config with defaults applied to unset fields.
func (c Config) Normalized() Config {
	normalized := c
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultSeed
	}
	if normalized.Addr == "" {
		normalized.Addr = ":8080"
	}
	if normalized.TickRate <= 0 {
		normalized.TickRate = 15
	}
	if normalized.Enemies < 0 {
		normalized.Enemies = 0
	}
	if normalized.Structures < 0 {
		normalized.Structures = 0
	}
	if normalized.Log.Level == "" {
		normalized.Log.Level = "info"
	}
	if normalized.Log.Format == "" {
		normalized.Log.Format = "console"
	}
	if normalized.World.Cols <= 0 {
		normalized.World.Cols = 40
	}
	if normalized.World.Rows <= 0 {
		normalized.World.Rows = 30
	}
	if normalized.World.CellSize <= 0 {
		normalized.World.CellSize = 32
	}
	return normalized
}
