// tuner/types.go
package tuner

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrSizeNotCovered is returned for states larger than the trained table supports.
	ErrSizeNotCovered = errors.New("state size not covered by estimator table")
)

// Checkpoint stages.
const (
	StagePretrain = "pretrain"
	StageFinetune = "finetune"
)

// Hyperparams controls network shape and both training stages.
type Hyperparams struct {
	PretrainLR           float64 `json:"pretrain_lr" yaml:"pretrain_lr"`
	NumPretrainIters     int     `json:"num_pretrain_iters" yaml:"num_pretrain_iters"`
	FirstStageMultiplier int     `json:"first_stage_multiplier" yaml:"first_stage_multiplier"`
	BatchSize            int     `json:"batch_size" yaml:"batch_size"`

	FinetuneLR        float64 `json:"finetune_lr" yaml:"finetune_lr"`
	NumFinetuneIters  int     `json:"num_finetune_iters" yaml:"num_finetune_iters"`
	FinetuneBatchSize int     `json:"finetune_batch_size" yaml:"finetune_batch_size"`

	Hidden1K   int    `json:"hidden1_k" yaml:"hidden1_k"` // hidden layer 1 width = Hidden1K*n^2
	Hidden2K   int    `json:"hidden2_k" yaml:"hidden2_k"` // hidden layer 2 width = Hidden2K*n
	Activation string `json:"activation" yaml:"activation"`
	Optimizer  string `json:"optimizer" yaml:"optimizer"`

	// FinetuneAnchorL2 pulls fine-tuned weights toward their pretrained values. 0 disables.
	FinetuneAnchorL2 float64 `json:"finetune_anchor_l2" yaml:"finetune_anchor_l2"`
	// LayerLRScale multiplies the learning rate per layer, input layer first.
	LayerLRScale []float64 `json:"layer_lr_scale" yaml:"layer_lr_scale"`
}

// Config is the full training and inference configuration.
type Config struct {
	// Size is the largest problem size the agent will solve.
	Size int `json:"size" yaml:"size"`
	// LogsFolder receives loss logs and charts. Empty disables them.
	LogsFolder string `json:"logs_folder" yaml:"logs_folder"`
	// WeightsFolder roots the checkpoint store. Empty disables checkpoints unless a
	// store is injected.
	WeightsFolder string `json:"weights_folder" yaml:"weights_folder"`
	// Store selects the checkpoint backend: "file" or "badger".
	Store string `json:"store" yaml:"store"`
	// Charts lists chart formats written next to the loss logs: "png", "html".
	Charts   []string `json:"charts" yaml:"charts"`
	LogEvery int      `json:"log_every" yaml:"log_every"`
	Seed     int64    `json:"seed" yaml:"seed"`

	Hyper Hyperparams `json:"hyper" yaml:"hyper"`
}

// Stage of the agent lifecycle.
type Stage int

const (
	Untrained Stage = iota
	Pretraining
	FineTuning
	Ready
)

func (s Stage) String() string {
	switch s {
	case Untrained:
		return "untrained"
	case Pretraining:
		return "pretraining"
	case FineTuning:
		return "fine-tuning"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Phase is the agent's position in its lifecycle. Size is the network size being
// pretrained, 0 outside pretraining.
type Phase struct {
	Stage Stage
	Size  int
}

func (p Phase) String() string {
	if p.Stage == Pretraining {
		return fmt.Sprintf("pretraining(%d)", p.Size)
	}
	return p.Stage.String()
}
