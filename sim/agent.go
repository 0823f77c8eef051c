package sim

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid config")

type Variant string

const (
	VariantBasic    Variant = "agent"
	VariantPrey     Variant = "rabbit"
	VariantPredator Variant = "fox"
	VariantMale     Variant = "male"
	VariantFemale   Variant = "female"
)

// Variants lists every known variant in counts-table order.
var Variants = []Variant{VariantBasic, VariantPrey, VariantPredator, VariantMale, VariantFemale}

type BreedMode string

const (
	Asexual BreedMode = "asexual"
	Sexual  BreedMode = "sexual"
)

const (
	DefaultBreedFreq = 10
	DefaultBreedFood = 2.0
)

// ChildCooldown is the breeding timer a newborn starts with.
const ChildCooldown = 10

// Agent is the capability set the driver needs from every variant.
type Agent interface {
	Variant() Variant
	Position() Position
	Move(env *Environment, agents []Agent)
	Eat(env *Environment, agents []Agent)
	Breed(env *Environment, agents []Agent) Agent
	IsDead() bool
	Summary() Summary
}

// Summary is the per-agent row of a snapshot.
type Summary struct {
	X       int     `json:"x"`
	Y       int     `json:"y"`
	Variant Variant `json:"variant"`
}

// Act runs one move/eat/breed round and returns the newborn, if any.
// The caller owns appending it to the population.
func Act(a Agent, env *Environment, agents []Agent) Agent {
	a.Move(env, agents)
	a.Eat(env, agents)
	return a.Breed(env, agents)
}

type edible interface {
	markEaten()
}

// Base is the state shared by all variants.
type Base struct {
	Pos       Position
	Age       int
	Food      float64
	Speed     float64
	LastBreed int
	Mode      BreedMode
	BreedFreq int
	BreedFood float64

	eaten bool
}

func (b *Base) Position() Position { return b.Pos }

// Eaten reports whether a predator killed this agent during the current step.
func (b *Base) Eaten() bool { return b.eaten }

func (b *Base) markEaten() { b.eaten = true }

func (b *Base) init() error {
	if b.Speed < 0 || math.IsNaN(b.Speed) {
		return fmt.Errorf("speed %v must be non-negative: %w", b.Speed, ErrInvalidConfig)
	}
	if b.Age < 0 {
		return fmt.Errorf("age %d must be non-negative: %w", b.Age, ErrInvalidConfig)
	}
	if b.Mode == "" {
		b.Mode = Asexual
	}
	if b.Mode != Asexual && b.Mode != Sexual {
		return fmt.Errorf("unknown breed mode %q: %w", b.Mode, ErrInvalidConfig)
	}
	if b.BreedFreq == 0 {
		b.BreedFreq = DefaultBreedFreq
	}
	if b.BreedFood == 0 {
		b.BreedFood = DefaultBreedFood
	}
	return nil
}

func (b *Base) starved() bool { return b.Food <= 0 }

func (b *Base) tryMove(env *Environment, p Position) {
	if env.CheckPosition(p) {
		b.Pos = p
	}
}

// randomStep proposes one Speed-long step in a uniformly drawn direction.
func (b *Base) randomStep(env *Environment) {
	angle := env.Rand().Float64() * 2 * math.Pi
	b.tryMove(env, b.offset(math.Cos(angle)*b.Speed, math.Sin(angle)*b.Speed))
}

// stepToward moves onto target when it is within reach, otherwise Speed along the bearing.
func (b *Base) stepToward(env *Environment, target Position) {
	d := math.Sqrt(b.Pos.distSqr(target))
	if d <= b.Speed {
		b.tryMove(env, target)
		return
	}
	dx := float64(target.X-b.Pos.X) / d * b.Speed
	dy := float64(target.Y-b.Pos.Y) / d * b.Speed
	b.tryMove(env, b.offset(dx, dy))
}

func (b *Base) offset(dx, dy float64) Position {
	return Position{
		X: b.Pos.X + int(math.Round(dx)),
		Y: b.Pos.Y + int(math.Round(dy)),
	}
}

// graze eats one unit from the current cell or burns one unit of reserve.
func (b *Base) graze(env *Environment) {
	if env.Food(b.Pos) > 0 {
		env.ReduceFood(b.Pos)
		b.Food++
		return
	}
	b.Food--
}

// child returns the state of a newborn of b, halving b's food.
func (b *Base) child() Base {
	b.Food /= 2
	return Base{
		Pos:       b.Pos,
		Food:      b.Food,
		Speed:     b.Speed,
		LastBreed: ChildCooldown,
		Mode:      b.Mode,
		BreedFreq: b.BreedFreq,
		BreedFood: b.BreedFood,
	}
}

func (b *Base) breedAsexual(spawn func(Base) Agent) Agent {
	var newborn Agent
	if b.LastBreed > b.BreedFreq && b.Food > b.BreedFood {
		b.LastBreed = -1
		newborn = spawn(b.child())
	}
	b.tick()
	return newborn
}

func (b *Base) tick() {
	b.Age++
	b.LastBreed++
}

// Basic is the plain agent: it never moves or eats and only breeds asexually.
type Basic struct {
	Base
}

func NewBasic(b Base) (*Basic, error) {
	if err := b.init(); err != nil {
		return nil, err
	}
	return &Basic{Base: b}, nil
}

func (a *Basic) Variant() Variant               { return VariantBasic }
func (a *Basic) Move(_ *Environment, _ []Agent) {}
func (a *Basic) Eat(_ *Environment, _ []Agent)  {}
func (a *Basic) IsDead() bool                   { return a.starved() }
func (a *Basic) Summary() Summary               { return summarize(a) }

func (a *Basic) Breed(_ *Environment, _ []Agent) Agent {
	if a.Mode != Asexual {
		a.tick()
		return nil
	}
	return a.breedAsexual(func(c Base) Agent { return &Basic{Base: c} })
}

func summarize(a Agent) Summary {
	p := a.Position()
	return Summary{X: p.X, Y: p.Y, Variant: a.Variant()}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
