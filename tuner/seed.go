package tuner

import (
	"math"
	"math/rand"
)

// initUniform seeds every layer's weights and biases from U(-1/sqrt(fan_in), 1/sqrt(fan_in)).
func initUniform(v *ValueNetwork, rng *rand.Rand) {
	for l := 0; l < numLayers; l++ {
		bound := 1 / math.Sqrt(float64(v.widths[l]))
		start, end := v.LayerRange(l)
		for i := start; i < end; i++ {
			v.theta[i] = (2*rng.Float64() - 1) * bound
		}
	}
}

// Factory builds an untrained network for a given state size.
type Factory func(size int) *ValueNetwork

// NewFactory returns a Factory using the hyperparameters' widths and activation. All
// networks draw their initial weights from one rng seeded with seed.
func NewFactory(h Hyperparams, seed int64) Factory {
	rng := rand.New(rand.NewSource(seed))
	return func(size int) *ValueNetwork {
		return NewValueNetwork(size, h.Hidden1K, h.Hidden2K, Activation(h.Activation), rng)
	}
}
