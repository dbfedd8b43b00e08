package bench

import (
	"math/rand"
	"testing"

	"ndp-engine/cube"
	"ndp-engine/engine"
	"ndp-engine/tuner"
)

// untrainedTable covers sizes up to n with freshly initialised networks.
func untrainedTable(n int) *engine.Table {
	rng := rand.New(rand.NewSource(1))
	t := engine.NewTable()
	for s := 2; s < n; s++ {
		t.Append(tuner.NewValueNetwork(s, 4, 8, tuner.ActTanh, rng))
	}
	return t
}

func benchEliminate(b *testing.B, n int) {
	s := cube.NewUniformGenerator(1).Instance(n)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Eliminate(i%n, (i/n)%n)
	}
}

func BenchmarkEliminate_5(b *testing.B)  { benchEliminate(b, 5) }
func BenchmarkEliminate_10(b *testing.B) { benchEliminate(b, 10) }

func benchEvaluate(b *testing.B, n int) {
	t := untrainedTable(n)
	s := cube.NewUniformGenerator(2).Instance(n)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Evaluate(s, t)
	}
}

func BenchmarkEvaluate_4(b *testing.B) { benchEvaluate(b, 4) }
func BenchmarkEvaluate_6(b *testing.B) { benchEvaluate(b, 6) }

func benchRollout(b *testing.B, n int) {
	t := untrainedTable(n)
	gen := cube.NewUniformGenerator(3)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Rollout(gen.Instance(n), t, true)
	}
}

func BenchmarkRollout_4(b *testing.B) { benchRollout(b, 4) }
func BenchmarkRollout_6(b *testing.B) { benchRollout(b, 6) }

func BenchmarkOptimal_6(b *testing.B) {
	s := cube.NewUniformGenerator(4).Instance(6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := engine.Optimal(s); err != nil {
			b.Fatalf("Optimal: %v", err)
		}
	}
}
