package engine

import (
	"fmt"

	"ndp-engine/cube"
)

// Estimator maps a batch of states of one fixed size to scalar value estimates.
// Implementations must not change their parameters while evaluating.
type Estimator interface {
	// Size is the state size this estimator accepts.
	Size() int
	// EvaluateBatch returns one value per state. Every state must have Size().
	EvaluateBatch(states []cube.State) []float64
}

// Exact is the closed-form estimator for sizes 0 and 1.
type Exact struct {
	n int
}

// NewExact returns the exact estimator for size 0 or 1.
func NewExact(size int) Exact {
	if size != 0 && size != 1 {
		panic(fmt.Sprintf("engine: no exact estimator for size %d", size))
	}
	return Exact{n: size}
}

func (e Exact) Size() int { return e.n }

// EvaluateBatch returns 0 for empty states and the single entry for 1×1×1 states.
func (e Exact) EvaluateBatch(states []cube.State) []float64 {
	CheckBatch(e, states)
	out := make([]float64, len(states))
	if e.n == 0 {
		return out
	}
	for i, s := range states {
		out[i] = s.Scalar()
	}
	return out
}

// CheckBatch panics unless every state has the estimator's size.
func CheckBatch(e Estimator, states []cube.State) {
	for i, s := range states {
		if s.Size() != e.Size() {
			panic(fmt.Sprintf("engine: state %d has size %d, estimator expects %d", i, s.Size(), e.Size()))
		}
	}
}
