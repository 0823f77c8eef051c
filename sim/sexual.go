package sim

import (
	"fmt"
	"math"
)

const DefaultMateRange = 5.0

// Male forages like prey and flags a nearby female as mated. It never
// produces offspring itself.
type Male struct {
	Prey
	MateRange float64
}

// Female forages like prey and gives birth on her next breed call once a
// male has mated with her.
type Female struct {
	Prey
	Mated       bool
	MateVariant Variant
}

func newSexualPrey(b Base, vision float64, maxAge int) (*Prey, error) {
	if b.Mode == "" {
		b.Mode = Sexual
	}
	return NewPrey(b, vision, maxAge)
}

func NewMale(b Base, vision float64, maxAge int, mateRange float64) (*Male, error) {
	p, err := newSexualPrey(b, vision, maxAge)
	if err != nil {
		return nil, err
	}
	if mateRange < 0 {
		return nil, fmt.Errorf("mate range %v must be non-negative: %w", mateRange, ErrInvalidConfig)
	}
	if mateRange == 0 {
		mateRange = DefaultMateRange
	}
	return &Male{Prey: *p, MateRange: mateRange}, nil
}

func NewFemale(b Base, vision float64, maxAge int) (*Female, error) {
	p, err := newSexualPrey(b, vision, maxAge)
	if err != nil {
		return nil, err
	}
	return &Female{Prey: *p}, nil
}

func (m *Male) Variant() Variant { return VariantMale }
func (m *Male) Summary() Summary { return summarize(m) }

// AttemptMate flags the nearest live unmated female within MateRange.
func (m *Male) AttemptMate(agents []Agent) *Female {
	var mate *Female
	best := math.Inf(1)
	for _, a := range agents {
		f, ok := a.(*Female)
		if !ok || f.Mated || f.IsDead() {
			continue
		}
		if d := m.Pos.distSqr(f.Pos); d < best {
			best = d
			mate = f
		}
	}
	if mate == nil || best >= m.MateRange*m.MateRange {
		return nil
	}
	mate.Mated = true
	mate.MateVariant = m.Variant()
	return mate
}

func (m *Male) Breed(_ *Environment, _ []Agent) Agent {
	m.tick()
	return nil
}

func (f *Female) Variant() Variant { return VariantFemale }
func (f *Female) Summary() Summary { return summarize(f) }

func (f *Female) Breed(env *Environment, _ []Agent) Agent {
	if f.Mode != Sexual {
		return f.breedAsexual(func(c Base) Agent {
			return &Female{Prey: Prey{Base: c, Vision: f.Vision, MaxAge: f.MaxAge}}
		})
	}
	var newborn Agent
	if f.Mated && f.MateVariant != "" {
		v := f.Variant()
		if env.Rand().Intn(2) == 1 {
			v = f.MateVariant
		}
		f.LastBreed = -1
		newborn = offspring(v, f.child(), f.Prey)
		f.Mated = false
		f.MateVariant = ""
	}
	f.tick()
	return newborn
}

// offspring builds a newborn of variant v carrying the foraging traits of parent.
func offspring(v Variant, b Base, parent Prey) Agent {
	traits := Prey{Base: b, Vision: parent.Vision, MaxAge: parent.MaxAge}
	switch v {
	case VariantMale:
		return &Male{Prey: traits, MateRange: DefaultMateRange}
	case VariantFemale:
		return &Female{Prey: traits}
	case VariantPrey:
		return &traits
	case VariantPredator:
		return &Predator{
			Base:     b,
			MaxAge:   parent.MaxAge,
			PreyOf:   VariantPrey,
			Hunt:     HuntNearest,
			KillCap:  DefaultKillCap,
			KillFood: DefaultKillFood,
		}
	default:
		return &Basic{Base: b}
	}
}
