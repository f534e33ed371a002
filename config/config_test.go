package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/wfunc/snake/game"
)

const testConfigYAML = `
server:
  http_address: ":18080"
database:
  driver: gorm
  postgres:
    host: db
    port: 6543
game:
  width: 12
  height: 8
  food_amount: 3
  tick_time_ms: 5000
  immortal: true
  heading: up
  seed: 7
  snake:
    - {x: 3, y: 3}
    - {x: 3, y: 4}
    - {x: 3, y: 5}
  food:
    - {x: 9, y: 1}
    - {x: 40, y: 1}
`

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(testConfigYAML), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.HTTPAddress != ":18080" {
		t.Errorf("expected http address :18080, got %q", cfg.Server.HTTPAddress)
	}
	if cfg.Server.MetricsAddress != ":9090" {
		t.Errorf("expected default metrics address, got %q", cfg.Server.MetricsAddress)
	}
	if cfg.Database.Driver != "gorm" || cfg.Database.Postgres.Port != 6543 || cfg.Database.Postgres.DBName != "snake" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Game.TickTimeMS != MaxTickTimeMS {
		t.Errorf("tick time should be clamped to %d, got %d", MaxTickTimeMS, cfg.Game.TickTimeMS)
	}
	if len(cfg.Game.Food) != 1 {
		t.Errorf("out of bounds food should be dropped, got %v", cfg.Game.Food)
	}

	opts := cfg.Game.Options()
	want := []game.Cell{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5}}
	if !reflect.DeepEqual(opts.Snake, want) {
		t.Errorf("expected snake %v, got %v", want, opts.Snake)
	}
	if opts.Heading != game.Up || !opts.Immortal || opts.AutoStart || opts.Seed != 7 {
		t.Errorf("unexpected options %+v", opts)
	}
	if _, err := game.NewEngine(opts, nil); err != nil {
		t.Errorf("normalised options should build an engine: %v", err)
	}
}

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("SNAKE_GAME_WIDTH", "30")
	t.Setenv("SNAKE_GAME_AI_MODE", "true")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig without a file should succeed: %v", err)
	}
	if cfg.Game.Width != 30 || cfg.Game.Height != 20 {
		t.Errorf("expected a 30x20 board, got %dx%d", cfg.Game.Width, cfg.Game.Height)
	}
	if !cfg.Game.AIMode || !cfg.Game.Options().AutoStart {
		t.Error("AI mode from the environment should enable auto start")
	}
	if cfg.Game.TickInterval() != 100*time.Millisecond {
		t.Errorf("expected 100ms ticks, got %v", cfg.Game.TickInterval())
	}
	if cfg.Game.Seed == 0 {
		t.Error("a seed should be chosen when none is configured")
	}

	opts := cfg.Game.Options()
	if opts.Snake[0] != (game.Cell{X: 15, Y: 10}) || opts.Heading != game.Right {
		t.Errorf("expected the default centred layout, got %v heading %v", opts.Snake, opts.Heading)
	}
}

func TestGameConfig_Normalize(t *testing.T) {
	g := GameConfig{
		Width:      0,
		Height:     1,
		FoodAmount: 50,
		TickTimeMS: 0,
		Heading:    "sideways",
	}
	fixes := g.Normalize()

	if g.Width != 2 || g.Height != 1 {
		t.Errorf("expected a 2x1 board, got %dx%d", g.Width, g.Height)
	}
	if g.FoodAmount != 2 {
		t.Errorf("food amount should be clamped to the area, got %d", g.FoodAmount)
	}
	if g.TickTimeMS != MinTickTimeMS {
		t.Errorf("tick time should be raised to %d, got %d", MinTickTimeMS, g.TickTimeMS)
	}
	if g.Heading != "right" {
		t.Errorf("invalid heading should follow the body, got %q", g.Heading)
	}
	if len(fixes) == 0 {
		t.Error("corrections should be reported")
	}
	if _, err := game.NewEngine(g.Options(), nil); err != nil {
		t.Errorf("normalised options should build an engine: %v", err)
	}
}

func TestGameConfig_NormalizeBadLayout(t *testing.T) {
	g := GameConfig{
		Width:      10,
		Height:     10,
		FoodAmount: 0,
		TickTimeMS: 100,
		Heading:    "left",
		Snake:      []PointConfig{{X: 1, Y: 1}, {X: 5, Y: 5}},
	}
	g.Normalize()

	want := []PointConfig{{X: 5, Y: 5}, {X: 4, Y: 5}}
	if !reflect.DeepEqual(g.Snake, want) {
		t.Errorf("expected default layout %v, got %v", want, g.Snake)
	}
	if g.Heading != "right" {
		t.Errorf("heading reversing onto the body should be replaced, got %q", g.Heading)
	}
	if g.FoodAmount != 1 {
		t.Errorf("food amount should be raised to 1, got %d", g.FoodAmount)
	}
}

func TestGameConfig_NormalizeSingleColumn(t *testing.T) {
	g := GameConfig{Width: 1, Height: 6, FoodAmount: 1, TickTimeMS: 10, Heading: "down"}
	if fixes := g.Normalize(); len(fixes) != 0 {
		t.Errorf("no corrections expected, got %v", fixes)
	}
	if _, err := game.NewEngine(g.Options(), nil); err != nil {
		t.Errorf("single column board should be playable: %v", err)
	}
}
