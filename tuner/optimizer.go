package tuner

import "fmt"

// Optimizer updates a flat parameter vector in place from its gradient.
type Optimizer interface {
	Step(params, grads []float64)
	SetLR(lr float64)
	GetLR() float64
	SetLRScale(scale []float64)
}

const (
	OptAdam    = "adam"
	OptAdaGrad = "adagrad"
)

// NewOptimizer returns the named optimizer over numParams parameters.
func NewOptimizer(name string, numParams int, lr float64) (Optimizer, error) {
	switch name {
	case OptAdam, "":
		return NewAdam(numParams, lr), nil
	case OptAdaGrad:
		return NewAdaGrad(numParams, lr), nil
	}
	return nil, fmt.Errorf("%w: unknown optimizer %q", ErrInvalidConfig, name)
}
