package sim

import (
	"io"
	"log/slog"
)

type mater interface {
	AttemptMate(agents []Agent) *Female
}

// Sim advances one environment and its population a step at a time.
type Sim struct {
	env    *Environment
	agents []Agent
	ticks  int
	log    *slog.Logger
}

type Option func(*Sim)

func WithLogger(l *slog.Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.log = l
		}
	}
}

func New(env *Environment, agents []Agent, opts ...Option) *Sim {
	s := &Sim{
		env:    env,
		agents: append([]Agent(nil), agents...),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Sim) Env() *Environment { return s.env }

// StepCount is the number of completed steps.
func (s *Sim) StepCount() int { return s.ticks }

// Agents returns a copy of the live population in processing order.
func (s *Sim) Agents() []Agent {
	return append([]Agent(nil), s.agents...)
}

// Done reports whether the population has died out.
func (s *Sim) Done() bool { return len(s.agents) == 0 }

// Step runs one iteration and returns its snapshot. Agents born during the
// step are appended after the action pass and first act on the next step.
func (s *Sim) Step() Snapshot {
	s.ticks++

	for _, a := range s.agents {
		if m, ok := a.(mater); ok && !a.IsDead() {
			m.AttemptMate(s.agents)
		}
	}

	n := len(s.agents)
	var born []Agent
	for i := 0; i < n; i++ {
		if child := Act(s.agents[i], s.env, s.agents); child != nil {
			born = append(born, child)
		}
	}
	s.agents = append(s.agents, born...)

	alive := s.agents[:0]
	for _, a := range s.agents {
		if !a.IsDead() {
			alive = append(alive, a)
		}
	}
	deaths := len(s.agents) - len(alive)
	for i := len(alive); i < len(s.agents); i++ {
		s.agents[i] = nil
	}
	s.agents = alive

	s.env.Grow()

	s.log.Debug("step",
		"step", s.ticks,
		"births", len(born),
		"deaths", deaths,
		"population", len(s.agents),
	)
	return s.snapshot()
}

func (s *Sim) snapshot() Snapshot {
	agents := make([]Summary, 0, len(s.agents))
	for _, a := range s.agents {
		agents = append(agents, a.Summary())
	}
	return Snapshot{Step: s.ticks, Grass: s.env.Grass(), Agents: agents}
}

// Run steps the simulation up to iterations times. With earlyStop it returns
// as soon as a step leaves no agent alive.
func (s *Sim) Run(iterations int, earlyStop bool) Record {
	rec := make(Record, 0, iterations)
	for i := 0; i < iterations; i++ {
		rec = append(rec, s.Step())
		if earlyStop && s.Done() {
			s.log.Info("population died out", "step", s.ticks)
			break
		}
	}
	return rec
}

func Run(env *Environment, agents []Agent, iterations int, earlyStop bool) Record {
	return New(env, agents).Run(iterations, earlyStop)
}
