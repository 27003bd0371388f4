package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AlexanderYashnyk/UnlimitedWorlds/world"
)

// Config tunes the demo host. Everything has a deterministic default so the
// server can start without a file.
type Config struct {
	Addr       string `yaml:"addr"`
	TickRateHz int    `yaml:"tick_rate_hz"`
	SchemasDir string `yaml:"schemas_dir"`

	World struct {
		Width  int      `yaml:"width"`
		Height int      `yaml:"height"`
		Seed   int64    `yaml:"seed"`
		Walls  [][2]int `yaml:"walls"`
	} `yaml:"world"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"journal"`

	Logging struct {
		File       string `yaml:"file"`
		EventsFile string `yaml:"events_file"`
	} `yaml:"logging"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.Addr = ":8080"
	cfg.TickRateHz = 10
	cfg.SchemasDir = "schemas"
	cfg.World.Width = 32
	cfg.World.Height = 32
	cfg.World.Seed = world.DefaultSeed
	cfg.Journal.Dir = "data"
	cfg.Logging.File = "server.log"
	return cfg
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.TickRateHz <= 0 {
		cfg.TickRateHz = 10
	}
	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		return cfg, fmt.Errorf("config %s: world extents must be positive", path)
	}
	return cfg, nil
}

// buildGrid materialises the configured map: floors everywhere, walls where
// listed.
func buildGrid(cfg Config) (*world.Grid, error) {
	grid := world.NewGrid(cfg.World.Width, cfg.World.Height)
	for _, wallPos := range cfg.World.Walls {
		pos := world.Pos{X: wallPos[0], Y: wallPos[1]}
		if err := grid.Set(pos, world.Wall{}); err != nil {
			return nil, fmt.Errorf("wall %v: %w", pos, err)
		}
	}
	return grid, nil
}
