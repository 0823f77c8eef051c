package sim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/rand"
)

func newTestEnv(t *testing.T, w, h int, growth float64, cells map[Position]int) *Environment {
	t.Helper()
	grass := make([][]int, h)
	for y := range grass {
		grass[y] = make([]int, w)
	}
	for p, v := range cells {
		grass[p.Y][p.X] = v
	}
	env, err := NewEnvironment(EnvConfig{
		Width:      w,
		Height:     h,
		MaxFood:    3,
		GrowthProb: growth,
		Grass:      grass,
	}, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("new environment: %v", err)
	}
	return env
}

func TestNewEnvironmentRejectsBadConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bad := []EnvConfig{
		{Width: 0, Height: 5, MaxFood: 3},
		{Width: 5, Height: -1, MaxFood: 3},
		{Width: 5, Height: 5, MaxFood: 0},
		{Width: 5, Height: 5, MaxFood: 3, GrowthProb: 1.5},
		{Width: 5, Height: 5, MaxFood: 3, InitialFood: 4},
		{Width: 2, Height: 2, MaxFood: 3, Grass: [][]int{{0, 0}}},
		{Width: 2, Height: 2, MaxFood: 3, Grass: [][]int{{0, 0}, {0, -1}}},
	}
	for i, cfg := range bad {
		if _, err := NewEnvironment(cfg, rng); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
	if _, err := NewEnvironment(EnvConfig{Width: 2, Height: 2, MaxFood: 3}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("nil source: expected ErrInvalidConfig, got %v", err)
	}
}

func TestEnvironmentUniformInitialFood(t *testing.T) {
	env, err := NewEnvironment(EnvConfig{Width: 4, Height: 3, MaxFood: 3, InitialFood: 2}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new environment: %v", err)
	}
	if got := env.TotalFood(); got != 24 {
		t.Errorf("expected total food 24, got %d", got)
	}
}

func TestEnvironmentFoodClampsPosition(t *testing.T) {
	env := newTestEnv(t, 3, 3, 0, map[Position]int{{X: 2, Y: 0}: 2, {X: 0, Y: 2}: 1})

	if got := env.Food(Position{X: 7, Y: -4}); got != 2 {
		t.Errorf("expected clamped read of (2,0)=2, got %d", got)
	}
	if got := env.Food(Position{X: -1, Y: 9}); got != 1 {
		t.Errorf("expected clamped read of (0,2)=1, got %d", got)
	}
}

func TestEnvironmentReduceFoodNeverNegative(t *testing.T) {
	env := newTestEnv(t, 2, 2, 0, map[Position]int{{X: 1, Y: 1}: 1})
	p := Position{X: 1, Y: 1}

	env.ReduceFood(p)
	env.ReduceFood(p)
	if got := env.Food(p); got != 0 {
		t.Errorf("expected 0 food after two reductions, got %d", got)
	}
}

func TestEnvironmentCheckPosition(t *testing.T) {
	env := newTestEnv(t, 4, 2, 0, nil)
	cases := map[Position]bool{
		{X: 0, Y: 0}:  true,
		{X: 3, Y: 1}:  true,
		{X: 4, Y: 1}:  false,
		{X: 0, Y: 2}:  false,
		{X: -1, Y: 0}: false,
	}
	for p, want := range cases {
		if got := env.CheckPosition(p); got != want {
			t.Errorf("CheckPosition(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestLocOfGrassNearestWithinRadius(t *testing.T) {
	env := newTestEnv(t, 10, 10, 0, map[Position]int{{X: 5, Y: 5}: 3, {X: 9, Y: 0}: 1})

	if _, ok := env.LocOfGrass(Position{}, 7); ok {
		t.Error("expected no grass within radius 7 of the origin")
	}
	got, ok := env.LocOfGrass(Position{}, 7.1)
	if !ok || got != (Position{X: 5, Y: 5}) {
		t.Errorf("expected (5,5), got %v found=%v", got, ok)
	}
	got, ok = env.LocOfGrass(Position{X: 9, Y: 2}, 10)
	if !ok || got != (Position{X: 9, Y: 0}) {
		t.Errorf("expected (9,0), got %v found=%v", got, ok)
	}
}

func TestLocOfGrassTieBreaksRowMajor(t *testing.T) {
	env := newTestEnv(t, 5, 5, 0, map[Position]int{
		{X: 3, Y: 2}: 1,
		{X: 1, Y: 2}: 1,
		{X: 2, Y: 1}: 1,
	})
	for i := 0; i < 3; i++ {
		got, ok := env.LocOfGrass(Position{X: 2, Y: 2}, 3)
		if !ok || got != (Position{X: 2, Y: 1}) {
			t.Fatalf("expected (2,1), got %v found=%v", got, ok)
		}
	}
}

func TestGrowCapsAtMaxFood(t *testing.T) {
	env := newTestEnv(t, 4, 4, 1, map[Position]int{{X: 1, Y: 1}: 3})
	for i := 0; i < 5; i++ {
		env.Grow()
	}
	for y, row := range env.Grass() {
		for x, v := range row {
			if v != 3 {
				t.Errorf("cell (%d,%d) = %d, want 3", x, y, v)
			}
		}
	}
}

func TestGrowZeroProbabilityLeavesGrid(t *testing.T) {
	env := newTestEnv(t, 4, 4, 0, map[Position]int{{X: 1, Y: 1}: 2})
	before := env.Grass()
	env.Grow()
	if diff := cmp.Diff(before, env.Grass()); diff != "" {
		t.Errorf("grid changed with zero growth (-before +after):\n%s", diff)
	}
}

func TestGrowIsReproducible(t *testing.T) {
	a := newTestEnv(t, 8, 8, 0.3, nil)
	b := newTestEnv(t, 8, 8, 0.3, nil)
	for i := 0; i < 4; i++ {
		a.Grow()
		b.Grow()
	}
	if diff := cmp.Diff(a.Grass(), b.Grass()); diff != "" {
		t.Errorf("same seed grew different grids (-a +b):\n%s", diff)
	}
	if a.TotalFood() == 0 {
		t.Error("expected some growth after four steps")
	}
}

func TestGrassReturnsCopy(t *testing.T) {
	env := newTestEnv(t, 2, 2, 0, nil)
	g := env.Grass()
	g[0][0] = 3
	if env.Food(Position{}) != 0 {
		t.Error("mutating the copy changed the environment")
	}
}
