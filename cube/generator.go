package cube

import (
	"fmt"
	"math/rand"
)

// Generator produces problem instances.
type Generator interface {
	// Instance returns one random state of the given size.
	Instance(size int) State
	// Batch returns batchSize independent states of the given size.
	Batch(batchSize, size int) []State
}

// UniformGenerator draws every entry independently from U[0,1).
type UniformGenerator struct {
	rng *rand.Rand
}

// NewUniformGenerator returns a UniformGenerator seeded with seed.
func NewUniformGenerator(seed int64) *UniformGenerator {
	return &UniformGenerator{rng: rand.New(rand.NewSource(seed))}
}

// NewUniformGeneratorFrom wraps an existing random source.
func NewUniformGeneratorFrom(rng *rand.Rand) *UniformGenerator {
	return &UniformGenerator{rng: rng}
}

func (g *UniformGenerator) Instance(size int) State {
	values := make([]float64, size*size*size)
	for i := range values {
		values[i] = g.rng.Float64()
	}
	return State{n: size, data: values}
}

func (g *UniformGenerator) Batch(batchSize, size int) []State {
	out := make([]State, batchSize)
	for i := range out {
		out[i] = g.Instance(size)
	}
	return out
}

// FixedGenerator replays a fixed list of states in order, wrapping around. States of a
// different size than requested are skipped; asking for a size that is not present
// panics.
type FixedGenerator struct {
	States []State
	next   int
}

func (g *FixedGenerator) Instance(size int) State {
	for tries := 0; tries < len(g.States); tries++ {
		s := g.States[g.next]
		g.next = (g.next + 1) % len(g.States)
		if s.n == size {
			return s
		}
	}
	panic(fmt.Sprintf("cube: FixedGenerator has no state of size %d", size))
}

func (g *FixedGenerator) Batch(batchSize, size int) []State {
	out := make([]State, batchSize)
	for i := range out {
		out[i] = g.Instance(size)
	}
	return out
}
