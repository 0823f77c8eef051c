package sim

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigBuilds(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	counts := map[Variant]int{}
	for _, a := range s.Agents() {
		counts[a.Variant()]++
	}
	if counts[VariantPrey] != 50 || counts[VariantPredator] != 5 {
		t.Errorf("unexpected starting population: %v", counts)
	}
	if s.Env().W != 40 || s.Env().H != 40 {
		t.Errorf("unexpected grid %dx%d", s.Env().W, s.Env().H)
	}
}

func TestLoadConfigOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
seed: 9
environment:
  width: 6
  height: 4
agents:
  - variant: female
    positions: [{x: 0, y: 0}, {x: 5, y: 3}]
    food: 8
    max_age: 20
  - variant: male
    count: 3
    food: 8
  - variant: fox
    count: 1
    food: 4
    speed: 2
    hunt: range
    kill_range: 1.5
    kill_cap: 4
    prey_of: female
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 9 || cfg.Environment.MaxFood != 3 || cfg.Iterations != 500 {
		t.Errorf("overlay lost defaults or values: %+v", cfg)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	agents := s.Agents()
	if len(agents) != 6 {
		t.Fatalf("expected 6 agents, got %d", len(agents))
	}
	if agents[1].Position() != (Position{X: 5, Y: 3}) {
		t.Errorf("explicit position ignored: %v", agents[1].Position())
	}
	fox, ok := agents[5].(*Predator)
	if !ok {
		t.Fatalf("expected predator last, got %T", agents[5])
	}
	if fox.Hunt != HuntRange || fox.KillCap != 4 || fox.PreyOf != VariantFemale {
		t.Errorf("hunt settings not applied: %+v", fox)
	}
	if m := agents[2].(*Male); m.Mode != Sexual {
		t.Errorf("expected sexual male, got %s", m.Mode)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"size":    "environment: {width: 0}\n",
		"speed":   "agents: [{variant: rabbit, count: 1, food: 1, speed: -2}]\n",
		"variant": "agents: [{variant: wolf, count: 1}]\n",
		"hunt":    "agents: [{variant: fox, count: 1, hunt: ambush}]\n",
		"age":     "agents: [{variant: rabbit, count: 1, random_age: true}]\n",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestBuildRejectsPositionOutsideGrid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
environment: {width: 3, height: 3}
agents: [{variant: rabbit, positions: [{x: 3, y: 0}], food: 1}]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Build(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestBuildRejectsInfiniteVision(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
environment: {width: 3, height: 3}
agents: [{variant: rabbit, count: 1, food: 1, vision: .inf}]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.Build(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
