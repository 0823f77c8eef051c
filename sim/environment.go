package sim

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// Position is a grid cell. X is the column, Y the row.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Position) distSqr(o Position) float64 {
	dx := float64(o.X - p.X)
	dy := float64(o.Y - p.Y)
	return dx*dx + dy*dy
}

type EnvConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	MaxFood     int     `yaml:"max_food"`
	GrowthProb  float64 `yaml:"growth_prob"`
	InitialFood int     `yaml:"initial_food"`
	// Grass overrides InitialFood when set; rows are indexed by Y.
	Grass       [][]int `yaml:"grass,omitempty"`
}

// Environment is the grass grid shared by all agents of a run.
type Environment struct {
	W, H       int
	MaxFood    int
	GrowthProb float64

	grass [][]int
	rand  *rand.Rand
}

func NewEnvironment(cfg EnvConfig, rng *rand.Rand) (*Environment, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("environment size %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidConfig)
	}
	if cfg.MaxFood <= 0 {
		return nil, fmt.Errorf("max food %d must be positive: %w", cfg.MaxFood, ErrInvalidConfig)
	}
	if cfg.GrowthProb < 0 || cfg.GrowthProb > 1 || math.IsNaN(cfg.GrowthProb) {
		return nil, fmt.Errorf("growth probability %v outside [0,1]: %w", cfg.GrowthProb, ErrInvalidConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidConfig)
	}

	e := &Environment{
		W:          cfg.Width,
		H:          cfg.Height,
		MaxFood:    cfg.MaxFood,
		GrowthProb: cfg.GrowthProb,
		grass:      make([][]int, cfg.Height),
		rand:       rng,
	}
	if cfg.Grass != nil && len(cfg.Grass) != cfg.Height {
		return nil, fmt.Errorf("grass has %d rows, want %d: %w", len(cfg.Grass), cfg.Height, ErrInvalidConfig)
	}
	for y := range e.grass {
		e.grass[y] = make([]int, cfg.Width)
		if cfg.Grass == nil {
			if cfg.InitialFood < 0 || cfg.InitialFood > cfg.MaxFood {
				return nil, fmt.Errorf("initial food %d outside [0,%d]: %w", cfg.InitialFood, cfg.MaxFood, ErrInvalidConfig)
			}
			for x := range e.grass[y] {
				e.grass[y][x] = cfg.InitialFood
			}
			continue
		}
		if len(cfg.Grass[y]) != cfg.Width {
			return nil, fmt.Errorf("grass row %d has %d cells, want %d: %w", y, len(cfg.Grass[y]), cfg.Width, ErrInvalidConfig)
		}
		for x, v := range cfg.Grass[y] {
			if v < 0 || v > cfg.MaxFood {
				return nil, fmt.Errorf("grass[%d][%d]=%d outside [0,%d]: %w", y, x, v, cfg.MaxFood, ErrInvalidConfig)
			}
			e.grass[y][x] = v
		}
	}
	return e, nil
}

// Rand is the random source every agent of the run draws from.
func (e *Environment) Rand() *rand.Rand {
	return e.rand
}

func (e *Environment) cell(p Position) *int {
	x := clamp(p.X, 0, e.W-1)
	y := clamp(p.Y, 0, e.H-1)
	return &e.grass[y][x]
}

func (e *Environment) Food(p Position) int {
	return *e.cell(p)
}

func (e *Environment) ReduceFood(p Position) {
	c := e.cell(p)
	if *c > 0 {
		*c--
	}
}

func (e *Environment) CheckPosition(p Position) bool {
	return p.X >= 0 && p.X < e.W && p.Y >= 0 && p.Y < e.H
}

// LocOfGrass returns the nearest cell with food within radius of p.
// Equally distant cells resolve to the first one in row-major order.
func (e *Environment) LocOfGrass(p Position, radius float64) (Position, bool) {
	if radius < 0 {
		return Position{}, false
	}
	r := int(math.Floor(radius))
	r2 := radius * radius
	best := Position{}
	bestD := math.MaxFloat64
	found := false
	for y := clamp(p.Y-r, 0, e.H-1); y <= clamp(p.Y+r, 0, e.H-1); y++ {
		for x := clamp(p.X-r, 0, e.W-1); x <= clamp(p.X+r, 0, e.W-1); x++ {
			if e.grass[y][x] <= 0 {
				continue
			}
			c := Position{X: x, Y: y}
			d := p.distSqr(c)
			if d <= r2 && d < bestD {
				best = c
				bestD = d
				found = true
			}
		}
	}
	return best, found
}

func (e *Environment) Grow() {
	for y := range e.grass {
		for x := range e.grass[y] {
			if e.rand.Float64() < e.GrowthProb && e.grass[y][x] < e.MaxFood {
				e.grass[y][x]++
			}
		}
	}
}

func (e *Environment) TotalFood() int {
	total := 0
	for _, row := range e.grass {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// Grass returns a copy of the grid.
func (e *Environment) Grass() [][]int {
	out := make([][]int, len(e.grass))
	for y, row := range e.grass {
		out[y] = append([]int(nil), row...)
	}
	return out
}
