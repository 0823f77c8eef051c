package sim

import (
	"fmt"
	"math"
)

const (
	DefaultPreyVision = 5.0
	DefaultPreyMaxAge = 40
)

// Prey grazes grass, walks toward the nearest visible grass and dies when
// starved, too old or eaten.
type Prey struct {
	Base
	Vision float64
	MaxAge int
}

func NewPrey(b Base, vision float64, maxAge int) (*Prey, error) {
	if err := b.init(); err != nil {
		return nil, err
	}
	if vision < 0 || math.IsNaN(vision) || math.IsInf(vision, 0) {
		return nil, fmt.Errorf("prey vision %v must be finite and non-negative: %w", vision, ErrInvalidConfig)
	}
	if vision == 0 {
		vision = DefaultPreyVision
	}
	if maxAge <= 0 {
		maxAge = DefaultPreyMaxAge
	}
	return &Prey{Base: b, Vision: vision, MaxAge: maxAge}, nil
}

func (p *Prey) Variant() Variant { return VariantPrey }

func (p *Prey) Move(env *Environment, _ []Agent) {
	if env.Food(p.Pos) > 0 {
		return
	}
	if target, ok := env.LocOfGrass(p.Pos, p.Vision); ok {
		p.stepToward(env, target)
		return
	}
	p.randomStep(env)
}

func (p *Prey) Eat(env *Environment, _ []Agent) {
	p.graze(env)
}

func (p *Prey) Breed(_ *Environment, _ []Agent) Agent {
	if p.Mode != Asexual {
		p.tick()
		return nil
	}
	return p.breedAsexual(func(c Base) Agent {
		return &Prey{Base: c, Vision: p.Vision, MaxAge: p.MaxAge}
	})
}

func (p *Prey) IsDead() bool {
	return p.starved() || p.Age > p.MaxAge || p.eaten
}

func (p *Prey) Summary() Summary { return summarize(p) }
