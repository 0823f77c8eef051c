package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vl4deee11/ecolab/sim"
)

type configMessage struct {
	Type       string `json:"type"`
	Run        string `json:"run"`
	W          int    `json:"w"`
	H          int    `json:"h"`
	MaxFood    int    `json:"max_food"`
	Iterations int    `json:"iterations"`
}

type stateMessage struct {
	Type     string       `json:"type"`
	Run      string       `json:"run"`
	Snapshot sim.Snapshot `json:"snapshot"`
	Counts   sim.Counts   `json:"counts"`
}

type doneMessage struct {
	Type       string `json:"type"`
	Run        string `json:"run"`
	Step       int    `json:"step"`
	Population int    `json:"population"`
}

// runner owns the running scenario and publishes one message per step.
type runner struct {
	mu     sync.Mutex
	cfg    sim.Config
	sim    *sim.Sim
	runID  uuid.UUID
	counts []sim.Counts
	paused bool
	done   bool
	logger *slog.Logger

	StateChan chan interface{}
}

func newRunner(cfg sim.Config, logger *slog.Logger) (*runner, error) {
	r := &runner{
		cfg:       cfg,
		logger:    logger,
		StateChan: make(chan interface{}, 100),
	}
	if err := r.reset(cfg.Seed); err != nil {
		return nil, err
	}
	return r, nil
}

// reset rebuilds the scenario with seed under a fresh run id.
func (r *runner) reset(seed uint64) error {
	r.mu.Lock()
	cfg := r.cfg
	r.mu.Unlock()
	cfg.Seed = seed
	s, err := cfg.Build(sim.WithLogger(r.logger))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.sim = s
	r.runID = uuid.New()
	r.counts = nil
	r.done = false
	r.publish(r.configLocked())
	return nil
}

func (r *runner) config() configMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configLocked()
}

func (r *runner) configLocked() configMessage {
	env := r.sim.Env()
	return configMessage{
		Type:       "config",
		Run:        r.runID.String(),
		W:          env.W,
		H:          env.H,
		MaxFood:    env.MaxFood,
		Iterations: r.cfg.Iterations,
	}
}

func (r *runner) seed() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg.Seed
}

func (r *runner) setPaused(p bool) {
	r.mu.Lock()
	r.paused = p
	r.mu.Unlock()
}

func (r *runner) Counts() []sim.Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sim.Counts(nil), r.counts...)
}

// Tick advances the scenario by one step unless it is paused or finished.
// It reports whether a step was taken.
func (r *runner) Tick() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paused || r.done {
		return false
	}
	if r.sim.StepCount() >= r.cfg.Iterations {
		r.finishLocked()
		return false
	}

	snap := r.sim.Step()
	c := snap.Counts()
	r.counts = append(r.counts, c)
	r.publish(stateMessage{Type: "state", Run: r.runID.String(), Snapshot: snap, Counts: c})

	if r.sim.StepCount() >= r.cfg.Iterations || (r.cfg.EarlyStop && r.sim.Done()) {
		r.finishLocked()
	}
	return true
}

func (r *runner) finishLocked() {
	r.done = true
	step := r.sim.StepCount()
	pop := len(r.sim.Agents())
	r.logger.Info("run finished", "run", r.runID.String(), "step", step, "population", pop)
	r.publish(doneMessage{Type: "done", Run: r.runID.String(), Step: step, Population: pop})
}

func (r *runner) Run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

func (r *runner) publish(v interface{}) {
	select {
	case r.StateChan <- v:
	default:
	}
}
