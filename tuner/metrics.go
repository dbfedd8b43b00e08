package tuner

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the training collectors. Registering on a registry that already holds
// them reuses the existing collectors, so several agents can share one registry.
type Metrics struct {
	iterations  *prometheus.CounterVec
	loss        *prometheus.GaugeVec
	checkpoints *prometheus.CounterVec
	rollouts    prometheus.Counter
}

// NewMetrics registers the collectors on reg, or on a private registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndp_train_iterations_total",
			Help: "Optimizer steps taken, by training stage.",
		}, []string{"stage"}),
		loss: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ndp_train_loss",
			Help: "Most recent training loss, by stage and network size.",
		}, []string{"stage", "size"}),
		checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ndp_checkpoints_written_total",
			Help: "Checkpoints written, by stage.",
		}, []string{"stage"}),
		rollouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ndp_rollouts_total",
			Help: "Greedy rollouts performed for training or inference.",
		}),
	}
	var err error
	if m.iterations, err = register(reg, m.iterations); err != nil {
		return nil, err
	}
	if m.loss, err = register(reg, m.loss); err != nil {
		return nil, err
	}
	if m.checkpoints, err = register(reg, m.checkpoints); err != nil {
		return nil, err
	}
	if m.rollouts, err = register(reg, m.rollouts); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) step(stage string, size int, loss float64) {
	m.iterations.WithLabelValues(stage).Inc()
	m.loss.WithLabelValues(stage, strconv.Itoa(size)).Set(loss)
}

func (m *Metrics) checkpoint(stage string) {
	m.checkpoints.WithLabelValues(stage).Inc()
}

func (m *Metrics) rollout(n int) {
	m.rollouts.Add(float64(n))
}
