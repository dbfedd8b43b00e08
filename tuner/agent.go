package tuner

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"ndp-engine/checkpoint"
	"ndp-engine/cube"
	"ndp-engine/engine"
)

// Deps are the collaborators of an Agent. Every field is optional.
type Deps struct {
	// Generator draws training instances. Defaults to a UniformGenerator seeded with
	// Config.Seed.
	Generator cube.Generator
	// Factory builds untrained networks. Defaults to NewFactory(cfg.Hyper, cfg.Seed).
	Factory Factory
	// Store receives checkpoints. When nil and Config.WeightsFolder is set, the agent
	// opens Config.Store there and closes it in Close.
	Store    checkpoint.Store
	Logger   *slog.Logger
	Registry prometheus.Registerer
}

// Agent owns an estimator table and trains or loads the learned entries.
type Agent struct {
	cfg       Config
	gen       cube.Generator
	factory   Factory
	store     checkpoint.Store
	ownsStore bool
	log       *slog.Logger
	metrics   *Metrics
	runID     string

	table *engine.Table
	nets  []*ValueNetwork // nets[i] has size i+2 and is table entry i+2
	phase Phase
}

func newAgent(deps Deps, cfg Config) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Agent{
		cfg:     cfg,
		gen:     deps.Generator,
		factory: deps.Factory,
		store:   deps.Store,
		log:     deps.Logger,
		runID:   uuid.NewString(),
		table:   engine.NewTable(),
	}
	if a.log == nil {
		a.log = slog.Default()
	}
	if a.gen == nil {
		a.gen = cube.NewUniformGenerator(cfg.Seed)
	}
	if a.factory == nil {
		a.factory = NewFactory(cfg.Hyper, cfg.Seed)
	}
	m, err := NewMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	a.metrics = m
	if a.store == nil && cfg.WeightsFolder != "" {
		s, err := checkpoint.Open(cfg.Store, cfg.WeightsFolder, a.log)
		if err != nil {
			return nil, fmt.Errorf("open checkpoint store: %w", err)
		}
		a.store, a.ownsStore = s, true
	}
	a.setPhase(Phase{Stage: Untrained})
	return a, nil
}

// NewAgent validates cfg, pretrains one network per size 2..cfg.Size-1 in increasing
// order and then fine-tunes them jointly. The returned agent is Ready.
func NewAgent(deps Deps, cfg Config) (*Agent, error) {
	a, err := newAgent(deps, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.train(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Agent) train() error {
	for s := 2; s < a.cfg.Size; s++ {
		if err := a.pretrain(s); err != nil {
			return fmt.Errorf("pretrain size %d: %w", s, err)
		}
	}
	if a.cfg.Size > 2 {
		if err := a.finetune(); err != nil {
			return fmt.Errorf("finetune: %w", err)
		}
	}
	a.setPhase(Phase{Stage: Ready})
	return nil
}

// LoadAgent rebuilds a Ready agent for problems up to size n from the checkpoints of
// the given stage ("finetune" when empty). Networks are restored in increasing size
// onto one fresh table.
func LoadAgent(deps Deps, cfg Config, n int, stage string) (*Agent, error) {
	cfg.Size = n
	if stage == "" {
		stage = StageFinetune
	}
	if stage != StagePretrain && stage != StageFinetune {
		return nil, fmt.Errorf("%w: unknown checkpoint stage %q", ErrInvalidConfig, stage)
	}
	a, err := newAgent(deps, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.load(stage); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Agent) load(stage string) error {
	if a.store == nil && a.cfg.Size > 2 {
		return errors.New("load agent: no checkpoint store configured")
	}
	for s := 2; s < a.cfg.Size; s++ {
		net := a.factory(s)
		name := checkpoint.Name(stage, s)
		b, err := a.store.Load(name)
		if err != nil {
			return fmt.Errorf("load agent: %w", err)
		}
		runID, err := UnmarshalNetwork(b, net)
		if err != nil {
			return fmt.Errorf("load agent: %s: %w", name, err)
		}
		if runID != "" {
			a.runID = runID
		}
		a.appendNetwork(net)
		a.log.Info("checkpoint loaded", "name", name, "run_id", runID)
	}
	a.setPhase(Phase{Stage: Ready})
	return nil
}

func (a *Agent) appendNetwork(v *ValueNetwork) {
	a.table.Append(v)
	a.nets = append(a.nets, v)
}

func (a *Agent) setPhase(p Phase) {
	a.phase = p
	a.log.Info("agent phase", "phase", p.String(), "run_id", a.runID)
}

// Phase reports where the agent is in its lifecycle.
func (a *Agent) Phase() Phase { return a.phase }

// RunID identifies the training run that produced the agent's parameters.
func (a *Agent) RunID() string { return a.runID }

// Table exposes the estimator table for read-only use.
func (a *Agent) Table() *engine.Table { return a.table }

// Networks returns the learned networks in increasing size.
func (a *Agent) Networks() []*ValueNetwork {
	return append([]*ValueNetwork(nil), a.nets...)
}

// MaxSize is the largest state size the agent can solve.
func (a *Agent) MaxSize() int { return a.table.Len() }

// Close releases the checkpoint store when the agent opened it.
func (a *Agent) Close() error {
	if a.ownsStore && a.store != nil {
		err := a.store.Close()
		a.store = nil
		return err
	}
	return nil
}

func (a *Agent) check(s cube.State) error {
	if s.Size() < 1 || s.Size() > a.table.Len() {
		return fmt.Errorf("%w: size %d, agent solves sizes 1..%d", ErrSizeNotCovered, s.Size(), a.table.Len())
	}
	return nil
}

// Act returns the total collected by the greedy policy on s.
func (a *Agent) Act(s cube.State) (float64, error) {
	if err := a.check(s); err != nil {
		return 0, err
	}
	a.metrics.rollout(1)
	return engine.Act(s, a.table), nil
}

// Rewards returns the per-step rewards and actions of the greedy policy on s.
func (a *Agent) Rewards(s cube.State) (engine.Trajectory, error) {
	if err := a.check(s); err != nil {
		return engine.Trajectory{}, err
	}
	a.metrics.rollout(1)
	return engine.Rollout(s, a.table, false), nil
}

// EvaluatePosition returns the one-step lookahead value of s and the best action.
func (a *Agent) EvaluatePosition(s cube.State) (float64, cube.Action, error) {
	if err := a.check(s); err != nil {
		return 0, cube.NoAction, err
	}
	v, act := engine.Evaluate(s, a.table)
	return v, act, nil
}

func (a *Agent) saveCheckpoint(stage string, v *ValueNetwork) error {
	if a.store == nil {
		return nil
	}
	b, err := MarshalNetwork(v, stage, a.runID)
	if err != nil {
		return err
	}
	name := checkpoint.Name(stage, v.Size())
	if err := a.store.Save(name, b); err != nil {
		return err
	}
	a.metrics.checkpoint(stage)
	a.log.Debug("checkpoint written", "name", name)
	return nil
}
