// tuner/network.go
package tuner

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"ndp-engine/cube"
	"ndp-engine/engine"
)

// Activation names the hidden-layer nonlinearity.
type Activation string

const (
	ActTanh Activation = "tanh"
	ActReLU Activation = "relu"
)

func (a Activation) valid() bool { return a == ActTanh || a == ActReLU }

// numLayers is the number of dense layers: two hidden, one linear output.
const numLayers = 3

// ValueNetwork estimates the greedy value of size-n states with a three layer
// perceptron n^3 -> h1 -> h2 -> 1. All weights and biases live in one flat theta; the
// gonum matrices are views over it, so Params/SetParams are plain copies.
//
// Layout of theta per layer: W (out x in, row major) followed by b (out).
type ValueNetwork struct {
	n      int
	act    Activation
	widths [numLayers + 1]int
	theta  []float64
	w      [numLayers]*mat.Dense
	b      [numLayers][]float64
	off    [numLayers + 1]int
}

// NewValueNetwork builds a network for size-n states with hidden widths h1k*n^2 and
// h2k*n, initialised uniformly in ±1/sqrt(fan_in) from rng.
func NewValueNetwork(n, h1k, h2k int, act Activation, rng *rand.Rand) *ValueNetwork {
	if n < 2 {
		panic(fmt.Sprintf("tuner: value network needs size >= 2, got %d", n))
	}
	if h1k < 1 || h2k < 1 {
		panic(fmt.Sprintf("tuner: hidden multipliers must be positive, got %d and %d", h1k, h2k))
	}
	if !act.valid() {
		panic(fmt.Sprintf("tuner: unknown activation %q", act))
	}
	v := &ValueNetwork{
		n:      n,
		act:    act,
		widths: [numLayers + 1]int{n * n * n, h1k * n * n, h2k * n, 1},
	}
	total := 0
	for l := 0; l < numLayers; l++ {
		v.off[l] = total
		total += v.widths[l+1]*v.widths[l] + v.widths[l+1]
	}
	v.off[numLayers] = total
	v.theta = make([]float64, total)
	v.bind()
	initUniform(v, rng)
	return v
}

func (v *ValueNetwork) bind() {
	for l := 0; l < numLayers; l++ {
		in, out := v.widths[l], v.widths[l+1]
		ws := v.off[l]
		v.w[l] = mat.NewDense(out, in, v.theta[ws:ws+out*in])
		v.b[l] = v.theta[ws+out*in : ws+out*in+out]
	}
}

func (v *ValueNetwork) Size() int { return v.n }

// Activation returns the hidden nonlinearity.
func (v *ValueNetwork) Activation() Activation { return v.act }

// Hidden returns the two hidden widths.
func (v *ValueNetwork) Hidden() (int, int) { return v.widths[1], v.widths[2] }

func (v *ValueNetwork) NumParams() int { return len(v.theta) }

// Params returns a snapshot of theta.
func (v *ValueNetwork) Params() []float64 {
	return append([]float64(nil), v.theta...)
}

// SetParams copies p into theta.
func (v *ValueNetwork) SetParams(p []float64) {
	if len(p) != len(v.theta) {
		panic(fmt.Sprintf("tuner: SetParams got %d values, network has %d", len(p), len(v.theta)))
	}
	copy(v.theta, p)
}

// LayerRange returns the [start, end) span of layer l in theta.
func (v *ValueNetwork) LayerRange(l int) (int, int) {
	return v.off[l], v.off[l+1]
}

// activations of one forward pass; a[0] is the input batch.
type pass struct {
	a   [numLayers]*mat.Dense
	out []float64
}

func (v *ValueNetwork) forward(states []cube.State) pass {
	engine.CheckBatch(v, states)
	var p pass
	if len(states) == 0 {
		return p
	}
	x := make([]float64, 0, len(states)*v.widths[0])
	for _, s := range states {
		x = s.AppendValues(x)
	}
	p.a[0] = mat.NewDense(len(states), v.widths[0], x)
	for l := 0; l < numLayers; l++ {
		z := mat.NewDense(len(states), v.widths[l+1], nil)
		z.Mul(p.a[l], v.w[l].T())
		bias := v.b[l]
		last := l == numLayers-1
		z.Apply(func(_, j int, x float64) float64 {
			x += bias[j]
			if last {
				return x
			}
			return v.activate(x)
		}, z)
		if last {
			p.out = mat.Col(nil, 0, z)
		} else {
			p.a[l+1] = z
		}
	}
	return p
}

func (v *ValueNetwork) activate(x float64) float64 {
	if v.act == ActReLU {
		return math.Max(0, x)
	}
	return math.Tanh(x)
}

// derivative of the activation expressed through its output.
func (v *ValueNetwork) slope(a float64) float64 {
	if v.act == ActReLU {
		if a > 0 {
			return 1
		}
		return 0
	}
	return 1 - a*a
}

// EvaluateBatch returns one estimate per state. It does not modify theta.
func (v *ValueNetwork) EvaluateBatch(states []cube.State) []float64 {
	out := v.forward(states).out
	if out == nil {
		out = []float64{}
	}
	return out
}

// Grad backpropagates dOut (dL/d output, one entry per state) and accumulates the
// gradient with respect to theta into grads, which must have NumParams entries.
// It returns the forward outputs.
func (v *ValueNetwork) Grad(states []cube.State, dOut []float64, grads []float64) []float64 {
	if len(dOut) != len(states) {
		panic(fmt.Sprintf("tuner: Grad got %d upstream gradients for %d states", len(dOut), len(states)))
	}
	if len(grads) != len(v.theta) {
		panic(fmt.Sprintf("tuner: Grad buffer has %d entries, network has %d", len(grads), len(v.theta)))
	}
	p := v.forward(states)
	if len(states) == 0 {
		return []float64{}
	}
	delta := mat.NewDense(len(states), 1, append([]float64(nil), dOut...))
	for l := numLayers - 1; l >= 0; l-- {
		in, out := v.widths[l], v.widths[l+1]
		ws := v.off[l]
		gw := mat.NewDense(out, in, grads[ws:ws+out*in])
		var tmp mat.Dense
		tmp.Mul(delta.T(), p.a[l])
		gw.Add(gw, &tmp)
		gb := grads[ws+out*in : ws+out*in+out]
		r, c := delta.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				gb[j] += delta.At(i, j)
			}
		}
		if l == 0 {
			break
		}
		var next mat.Dense
		next.Mul(delta, v.w[l])
		act := p.a[l]
		next.Apply(func(i, j int, d float64) float64 {
			return d * v.slope(act.At(i, j))
		}, &next)
		delta = &next
	}
	return p.out
}
