package sim

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/exp/rand"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config describes a whole scenario: the grid, the starting population and
// how long to run it.
type Config struct {
	Seed        uint64       `yaml:"seed" json:"seed"`
	Iterations  int          `yaml:"iterations" json:"iterations"`
	EarlyStop   bool         `yaml:"early_stop" json:"early_stop"`
	Environment EnvConfig    `yaml:"environment" json:"environment"`
	Agents      []AgentGroup `yaml:"agents" json:"agents"`
}

// AgentGroup places Count agents of one variant on random cells, or one
// agent on each of Positions when that list is set.
type AgentGroup struct {
	Variant   Variant    `yaml:"variant" json:"variant"`
	Count     int        `yaml:"count" json:"count"`
	Positions []Position `yaml:"positions,omitempty" json:"positions,omitempty"`

	Food      float64   `yaml:"food" json:"food"`
	Speed     float64   `yaml:"speed" json:"speed"`
	Age       int       `yaml:"age" json:"age"`
	RandomAge bool      `yaml:"random_age" json:"random_age"`
	LastBreed int       `yaml:"last_breed" json:"last_breed"`
	BreedMode BreedMode `yaml:"breed_mode" json:"breed_mode"`
	BreedFreq int       `yaml:"breed_freq" json:"breed_freq"`
	BreedFood float64   `yaml:"breed_food" json:"breed_food"`

	Vision    float64    `yaml:"vision" json:"vision"`
	MaxAge    int        `yaml:"max_age" json:"max_age"`
	MateRange float64    `yaml:"mate_range" json:"mate_range"`
	PreyOf    Variant    `yaml:"prey_of" json:"prey_of"`
	Hunt      HuntPolicy `yaml:"hunt" json:"hunt"`
	KillRange float64    `yaml:"kill_range" json:"kill_range"`
	KillCap   int        `yaml:"kill_cap" json:"kill_cap"`
	KillFood  float64    `yaml:"kill_food" json:"kill_food"`
}

// DefaultConfig returns the embedded rabbits-and-foxes scenario.
func DefaultConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig reads the embedded defaults and overlays the file at path, if any.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Iterations < 0 {
		return fmt.Errorf("iterations %d must be non-negative: %w", c.Iterations, ErrInvalidConfig)
	}
	if c.Environment.Width <= 0 || c.Environment.Height <= 0 {
		return fmt.Errorf("environment size %dx%d: %w", c.Environment.Width, c.Environment.Height, ErrInvalidConfig)
	}
	for i, g := range c.Agents {
		if g.Count < 0 {
			return fmt.Errorf("agent group %d: count %d: %w", i, g.Count, ErrInvalidConfig)
		}
		if g.Speed < 0 {
			return fmt.Errorf("agent group %d: speed %v must be non-negative: %w", i, g.Speed, ErrInvalidConfig)
		}
		if g.RandomAge && g.MaxAge <= 0 {
			return fmt.Errorf("agent group %d: random_age needs max_age: %w", i, ErrInvalidConfig)
		}
		if g.Hunt != "" && g.Hunt != HuntNearest && g.Hunt != HuntRange {
			return fmt.Errorf("agent group %d: unknown hunt policy %q: %w", i, g.Hunt, ErrInvalidConfig)
		}
		switch g.Variant {
		case VariantBasic, VariantPrey, VariantPredator, VariantMale, VariantFemale:
		default:
			return fmt.Errorf("agent group %d: unknown variant %q: %w", i, g.Variant, ErrInvalidConfig)
		}
	}
	return nil
}

// Build creates the environment and population, all drawing from one source
// seeded with c.Seed.
func (c *Config) Build(opts ...Option) (*Sim, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(c.Seed))
	env, err := NewEnvironment(c.Environment, rng)
	if err != nil {
		return nil, err
	}
	var agents []Agent
	for i, g := range c.Agents {
		placed, err := g.place(env)
		if err != nil {
			return nil, fmt.Errorf("agent group %d: %w", i, err)
		}
		agents = append(agents, placed...)
	}
	s := New(env, agents, opts...)
	s.log.Info("scenario built",
		slog.Uint64("seed", c.Seed),
		slog.Int("width", env.W),
		slog.Int("height", env.H),
		slog.Int("agents", len(agents)),
	)
	return s, nil
}

func (g AgentGroup) place(env *Environment) ([]Agent, error) {
	positions := g.Positions
	if len(positions) == 0 {
		positions = make([]Position, g.Count)
		for i := range positions {
			positions[i] = Position{X: env.Rand().Intn(env.W), Y: env.Rand().Intn(env.H)}
		}
	}
	out := make([]Agent, 0, len(positions))
	for _, p := range positions {
		if !env.CheckPosition(p) {
			return nil, fmt.Errorf("position %v outside %dx%d grid: %w", p, env.W, env.H, ErrInvalidConfig)
		}
		age := g.Age
		if g.RandomAge {
			age = env.Rand().Intn(g.MaxAge)
		}
		a, err := g.newAgent(Base{
			Pos:       p,
			Age:       age,
			Food:      g.Food,
			Speed:     g.Speed,
			LastBreed: g.LastBreed,
			Mode:      g.BreedMode,
			BreedFreq: g.BreedFreq,
			BreedFood: g.BreedFood,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (g AgentGroup) newAgent(b Base) (Agent, error) {
	switch g.Variant {
	case VariantPrey:
		return NewPrey(b, g.Vision, g.MaxAge)
	case VariantMale:
		return NewMale(b, g.Vision, g.MaxAge, g.MateRange)
	case VariantFemale:
		return NewFemale(b, g.Vision, g.MaxAge)
	case VariantPredator:
		p, err := NewPredator(b, g.MaxAge)
		if err != nil {
			return nil, err
		}
		if g.PreyOf != "" {
			p.PreyOf = g.PreyOf
		}
		if g.KillFood > 0 {
			p.KillFood = g.KillFood
		}
		if g.Hunt == HuntRange {
			return p.WithRangeHunt(g.KillRange, g.KillCap)
		}
		return p, nil
	default:
		return NewBasic(b)
	}
}
