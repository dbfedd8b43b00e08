package tuner

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndp-engine/checkpoint"
	"ndp-engine/cube"
	"ndp-engine/engine"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// smallConfig trains for one iteration per stage on tiny batches.
func smallConfig(t *testing.T, size int) Config {
	cfg := DefaultConfig()
	cfg.Size = size
	cfg.LogsFolder = filepath.Join(t.TempDir(), "logs")
	cfg.WeightsFolder = filepath.Join(t.TempDir(), "weights")
	cfg.LogEvery = 1
	cfg.Hyper.NumPretrainIters = 1
	cfg.Hyper.FirstStageMultiplier = 1
	cfg.Hyper.NumFinetuneIters = 1
	cfg.Hyper.BatchSize = 4
	cfg.Hyper.FinetuneBatchSize = 3
	cfg.Hyper.Hidden1K = 1
	cfg.Hyper.Hidden2K = 2
	return cfg
}

func TestAgentEndToEndSizeThree(t *testing.T) {
	cfg := smallConfig(t, 3)
	reg := prometheus.NewRegistry()
	deps := Deps{Logger: quietLogger(), Registry: reg}

	a, err := NewAgent(deps, cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, Phase{Stage: Ready}, a.Phase())
	require.Len(t, a.Networks(), 1)
	assert.Equal(t, 2, a.Networks()[0].Size())
	assert.Equal(t, 3, a.MaxSize())

	for _, name := range []string{"loss_2.npy", "loss_finetune.npy"} {
		f, err := os.Open(filepath.Join(cfg.LogsFolder, name))
		require.NoError(t, err, name)
		losses, err := ReadNPY(f)
		f.Close()
		require.NoError(t, err)
		assert.Len(t, losses, 1, name)
	}
	for _, name := range []string{"pretrain-2.json", "finetune-2.json"} {
		_, err := os.Stat(filepath.Join(cfg.WeightsFolder, name))
		assert.NoError(t, err, name)
	}

	// fine-tuning moved the network away from its pretrained parameters
	require.NoError(t, a.Close())
	pre, err := LoadAgent(Deps{Logger: quietLogger(), Registry: reg}, cfg, 3, StagePretrain)
	require.NoError(t, err)
	defer pre.Close()
	assert.NotEqual(t, pre.Networks()[0].Params(), a.Networks()[0].Params())
	assert.Equal(t, a.RunID(), pre.RunID())

	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.iterations.WithLabelValues(StagePretrain)))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.iterations.WithLabelValues(StageFinetune)))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.metrics.checkpoints.WithLabelValues(StageFinetune)))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.metrics.rollouts))
}

func TestAgentSizeTwoHasNoNetworks(t *testing.T) {
	cfg := smallConfig(t, 2)
	cfg.WeightsFolder = ""
	cfg.LogsFolder = ""
	a, err := NewAgent(Deps{Logger: quietLogger()}, cfg)
	require.NoError(t, err)
	assert.Empty(t, a.Networks())

	s := cube.NewUniformGenerator(3).Instance(2)
	got, err := a.Act(s)
	require.NoError(t, err)
	best, _, err := engine.Optimal(s)
	require.NoError(t, err)
	assert.Equal(t, best, got)
}

func TestAgentSaveLoadRoundTrip(t *testing.T) {
	store, err := checkpoint.OpenBadger(checkpoint.InMemoryBadgerConfig())
	require.NoError(t, err)
	defer store.Close()

	cfg := smallConfig(t, 4)
	cfg.LogsFolder = ""
	cfg.WeightsFolder = ""
	deps := Deps{Store: store, Logger: quietLogger()}
	trained, err := NewAgent(deps, cfg)
	require.NoError(t, err)
	require.Len(t, trained.Networks(), 2)

	loaded, err := LoadAgent(deps, cfg, 4, "")
	require.NoError(t, err)
	require.Len(t, loaded.Networks(), 2)
	for i := range loaded.Networks() {
		assert.Equal(t, trained.Networks()[i].Params(), loaded.Networks()[i].Params())
	}

	gen := cube.NewUniformGenerator(99)
	for size := 1; size <= 4; size++ {
		s := gen.Instance(size)
		want, err := trained.Act(s)
		require.NoError(t, err)
		got, err := loaded.Act(s)
		require.NoError(t, err)
		assert.Equal(t, want, got, "size %d", size)
	}
}

func TestAgentInferenceLeavesParams(t *testing.T) {
	cfg := smallConfig(t, 4)
	a, err := NewAgent(Deps{Logger: quietLogger()}, cfg)
	require.NoError(t, err)
	defer a.Close()

	before := make([][]float64, 0, 2)
	for _, v := range a.Networks() {
		before = append(before, v.Params())
	}
	s := cube.NewUniformGenerator(5).Instance(4)
	total, err := a.Act(s)
	require.NoError(t, err)
	tr, err := a.Rewards(s)
	require.NoError(t, err)
	assert.Len(t, tr.Rewards, 4)
	assert.Equal(t, total, tr.Total())
	_, act, err := a.EvaluatePosition(s)
	require.NoError(t, err)
	assert.Equal(t, tr.Actions[0], act)

	for i, v := range a.Networks() {
		assert.Equal(t, before[i], v.Params())
	}
}

func TestAgentRejectsUncoveredSize(t *testing.T) {
	cfg := smallConfig(t, 3)
	cfg.WeightsFolder = ""
	a, err := NewAgent(Deps{Logger: quietLogger()}, cfg)
	require.NoError(t, err)

	_, err = a.Act(cube.Zero(4))
	assert.ErrorIs(t, err, ErrSizeNotCovered)
	_, err = a.Rewards(cube.Zero(0))
	assert.ErrorIs(t, err, ErrSizeNotCovered)
	_, _, err = a.EvaluatePosition(cube.Zero(5))
	assert.ErrorIs(t, err, ErrSizeNotCovered)
}

func TestAgentInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 0
	_, err := NewAgent(Deps{Logger: quietLogger()}, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadAgent(Deps{Logger: quietLogger()}, DefaultConfig(), 3, "midtrain")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadAgentMissingCheckpoint(t *testing.T) {
	cfg := smallConfig(t, 3)
	_, err := LoadAgent(Deps{Logger: quietLogger()}, cfg, 3, StageFinetune)
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestLoadRejectsShapeMismatch(t *testing.T) {
	store, err := checkpoint.OpenBadger(checkpoint.InMemoryBadgerConfig())
	require.NoError(t, err)
	defer store.Close()

	cfg := smallConfig(t, 3)
	_, err = NewAgent(Deps{Store: store, Logger: quietLogger()}, cfg)
	require.NoError(t, err)

	cfg.Hyper.Hidden1K = 3
	_, err = LoadAgent(Deps{Store: store, Logger: quietLogger()}, cfg, 3, StageFinetune)
	assert.Error(t, err)
}

func TestPretrainTracksFixedTargets(t *testing.T) {
	// A single repeated size-2 instance: pretraining must drive the prediction toward
	// its exact greedy value.
	s := cube.NewUniformGenerator(21).Instance(2)
	cfg := smallConfig(t, 3)
	cfg.LogsFolder = ""
	cfg.WeightsFolder = ""
	cfg.Hyper.NumPretrainIters = 400
	cfg.Hyper.PretrainLR = 1e-2
	cfg.Hyper.NumFinetuneIters = 0
	cfg.LogEvery = 0

	a, err := NewAgent(Deps{Generator: &cube.FixedGenerator{States: []cube.State{s}}, Logger: quietLogger()}, cfg)
	require.NoError(t, err)
	want, _ := engine.Evaluate(s, engine.NewTable())
	got := a.Networks()[0].EvaluateBatch([]cube.State{s})[0]
	assert.InDelta(t, want, got, 0.1)
}
