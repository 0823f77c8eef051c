package sim

import (
	"fmt"
	"math"
)

type HuntPolicy string

const (
	// HuntNearest attacks the nearest prey with a distance-scaled kill chance.
	HuntNearest HuntPolicy = "nearest"
	// HuntRange kills up to KillCap prey within KillRange, in population order.
	HuntRange   HuntPolicy = "range"
)

const (
	DefaultPredatorMaxAge = 40
	DefaultKillCap        = 2
	DefaultKillFood       = 2.0
)

type Predator struct {
	Base
	MaxAge    int
	PreyOf    Variant
	Hunt      HuntPolicy
	KillRange float64
	KillCap   int
	KillFood  float64
}

func NewPredator(b Base, maxAge int) (*Predator, error) {
	if err := b.init(); err != nil {
		return nil, err
	}
	if maxAge <= 0 {
		maxAge = DefaultPredatorMaxAge
	}
	return &Predator{
		Base:     b,
		MaxAge:   maxAge,
		PreyOf:   VariantPrey,
		Hunt:     HuntNearest,
		KillCap:  DefaultKillCap,
		KillFood: DefaultKillFood,
	}, nil
}

// WithRangeHunt switches the predator to the capped range-kill policy.
func (p *Predator) WithRangeHunt(killRange float64, killCap int) (*Predator, error) {
	if killRange < 0 || killCap < 0 {
		return nil, fmt.Errorf("kill range %v / cap %d must be non-negative: %w", killRange, killCap, ErrInvalidConfig)
	}
	p.Hunt = HuntRange
	p.KillRange = killRange
	if killCap > 0 {
		p.KillCap = killCap
	}
	return p, nil
}

func (p *Predator) Variant() Variant { return VariantPredator }

func (p *Predator) Move(env *Environment, _ []Agent) {
	p.randomStep(env)
}

func (p *Predator) Eat(env *Environment, agents []Agent) {
	killed := 0
	switch p.Hunt {
	case HuntRange:
		killed = p.Kill(agents, p.KillRange)
	default:
		if p.attackNearest(env, agents) {
			killed = 1
		}
	}
	if killed == 0 {
		p.Food--
		return
	}
	p.Food += float64(killed) * p.KillFood
}

func (p *Predator) isPrey(a Agent) bool {
	if self, ok := a.(*Predator); ok && self == p {
		return false
	}
	_, ok := a.(edible)
	return ok && a.Variant() == p.PreyOf && !a.IsDead()
}

func (p *Predator) attackNearest(env *Environment, agents []Agent) bool {
	var target Agent
	best := math.Inf(1)
	for _, a := range agents {
		if !p.isPrey(a) {
			continue
		}
		if d := p.Pos.distSqr(a.Position()); d < best {
			best = d
			target = a
		}
	}
	if target == nil {
		return false
	}
	dist := math.Sqrt(best)
	if dist >= p.Speed {
		return false
	}
	if env.Rand().Float64() >= 1-dist/p.Speed {
		return false
	}
	target.(edible).markEaten()
	p.Pos = target.Position()
	return true
}

// Kill marks up to KillCap live prey within killRange as eaten, first come
// first served, and returns how many it marked.
func (p *Predator) Kill(agents []Agent, killRange float64) int {
	killed := 0
	for _, a := range agents {
		if killed >= p.KillCap {
			break
		}
		if !p.isPrey(a) {
			continue
		}
		if p.Pos.distSqr(a.Position()) < killRange*killRange {
			a.(edible).markEaten()
			killed++
		}
	}
	return killed
}

func (p *Predator) Breed(_ *Environment, _ []Agent) Agent {
	if p.Mode != Asexual {
		p.tick()
		return nil
	}
	return p.breedAsexual(func(c Base) Agent {
		child := *p
		child.Base = c
		return &child
	})
}

func (p *Predator) IsDead() bool {
	return p.starved() || p.Age > p.MaxAge
}

func (p *Predator) Summary() Summary { return summarize(p) }
