package tuner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndp-engine/cube"
)

func TestNetworkShape(t *testing.T) {
	v := NewValueNetwork(2, 4, 8, ActTanh, rand.New(rand.NewSource(1)))
	h1, h2 := v.Hidden()
	assert.Equal(t, 16, h1)
	assert.Equal(t, 16, h2)
	// 8->16, 16->16, 16->1 with biases
	assert.Equal(t, 16*8+16+16*16+16+16+1, v.NumParams())
	start, end := v.LayerRange(2)
	assert.Equal(t, 17, end-start)
	assert.Equal(t, v.NumParams(), end)

	assert.Panics(t, func() { NewValueNetwork(1, 4, 8, ActTanh, rand.New(rand.NewSource(1))) })
	assert.Panics(t, func() { NewValueNetwork(2, 4, 8, "sigmoid", rand.New(rand.NewSource(1))) })
	assert.Panics(t, func() { v.SetParams(make([]float64, 3)) })
}

func TestNetworkInitBounds(t *testing.T) {
	v := NewValueNetwork(3, 1, 1, ActTanh, rand.New(rand.NewSource(4)))
	p := v.Params()
	start, end := v.LayerRange(0)
	for _, x := range p[start:end] {
		require.LessOrEqual(t, x*x, 1.0/27)
	}
}

func TestEvaluateBatchLeavesParams(t *testing.T) {
	v := NewValueNetwork(3, 2, 2, ActReLU, rand.New(rand.NewSource(2)))
	before := v.Params()
	batch := cube.NewUniformGenerator(3).Batch(5, 3)
	out := v.EvaluateBatch(batch)
	assert.Len(t, out, 5)
	assert.Equal(t, before, v.Params())
	assert.Equal(t, out, v.EvaluateBatch(batch))
	assert.Empty(t, v.EvaluateBatch(nil))
	assert.Panics(t, func() { v.EvaluateBatch([]cube.State{cube.Zero(2)}) })
}

func TestGradMatchesFiniteDifferences(t *testing.T) {
	for _, act := range []Activation{ActTanh, ActReLU} {
		t.Run(string(act), func(t *testing.T) {
			v := NewValueNetwork(2, 1, 1, act, rand.New(rand.NewSource(5)))
			batch := cube.NewUniformGenerator(6).Batch(3, 2)
			w := []float64{0.5, -1.25, 2}
			objective := func() float64 {
				total := 0.0
				for i, o := range v.EvaluateBatch(batch) {
					total += w[i] * o
				}
				return total
			}

			grads := make([]float64, v.NumParams())
			out := v.Grad(batch, w, grads)
			assert.Equal(t, v.EvaluateBatch(batch), out)

			const eps = 1e-6
			theta := v.Params()
			for i := range theta {
				orig := theta[i]
				theta[i] = orig + eps
				v.SetParams(theta)
				up := objective()
				theta[i] = orig - eps
				v.SetParams(theta)
				down := objective()
				theta[i] = orig
				v.SetParams(theta)
				assert.InDelta(t, (up-down)/(2*eps), grads[i], 1e-5, "param %d", i)
			}
		})
	}
}

func TestGradAccumulates(t *testing.T) {
	v := NewValueNetwork(2, 1, 1, ActTanh, rand.New(rand.NewSource(7)))
	batch := cube.NewUniformGenerator(8).Batch(2, 2)
	once := make([]float64, v.NumParams())
	v.Grad(batch, []float64{1, 1}, once)
	twice := make([]float64, v.NumParams())
	v.Grad(batch, []float64{1, 1}, twice)
	v.Grad(batch, []float64{1, 1}, twice)
	for i := range once {
		assert.InDelta(t, 2*once[i], twice[i], 1e-12)
	}
}

func TestFlattenRestore(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	nets := []*ValueNetwork{
		NewValueNetwork(2, 1, 1, ActTanh, rng),
		NewValueNetwork(3, 1, 1, ActTanh, rng),
	}
	theta, restore := flatten(nets)
	require.Len(t, theta, nets[0].NumParams()+nets[1].NumParams())
	for i := range theta {
		theta[i] = float64(i)
	}
	restore(theta)
	assert.Equal(t, 0.0, nets[0].Params()[0])
	assert.Equal(t, float64(nets[0].NumParams()), nets[1].Params()[0])

	grads := gradSlices(nets, make([]float64, len(theta)))
	assert.Len(t, grads[1], nets[1].NumParams())

	scale := BuildLRScaleVector(nets, []float64{0.5, 1, 2})
	require.Len(t, scale, len(theta))
	assert.Equal(t, 0.5, scale[0])
	assert.Equal(t, 2.0, scale[nets[0].NumParams()-1])
	assert.Nil(t, BuildLRScaleVector(nets, DefaultLayerLRScale()))
}
