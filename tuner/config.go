package tuner

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"ndp-engine/checkpoint"
)

const (
	ChartPNG  = "png"
	ChartHTML = "html"
)

func DefaultHyperparams() Hyperparams {
	return Hyperparams{
		PretrainLR:           3e-4,
		NumPretrainIters:     300,
		FirstStageMultiplier: 4,
		BatchSize:            64,
		FinetuneLR:           1e-4,
		NumFinetuneIters:     20,
		FinetuneBatchSize:    50,
		Hidden1K:             4,
		Hidden2K:             8,
		Activation:           string(ActTanh),
		Optimizer:            OptAdam,
		LayerLRScale:         DefaultLayerLRScale(),
	}
}

func DefaultConfig() Config {
	return Config{
		Size:     5,
		Store:    checkpoint.KindFile,
		LogEvery: 50,
		Seed:     1,
		Hyper:    DefaultHyperparams(),
	}
}

// LoadConfig starts from DefaultConfig, overlays the file at path (YAML, or JSON as a
// fallback; a missing file keeps the defaults), then NDP_* environment variables, and
// validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadConfigFromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadConfigFromEnv(cfg *Config) {
	envInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				*dst = i
			}
		}
	}
	envFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}
	envString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	envInt("NDP_SIZE", &cfg.Size)
	envString("NDP_LOGS_FOLDER", &cfg.LogsFolder)
	envString("NDP_WEIGHTS_FOLDER", &cfg.WeightsFolder)
	envString("NDP_STORE", &cfg.Store)
	envInt("NDP_LOG_EVERY", &cfg.LogEvery)
	if v := os.Getenv("NDP_SEED"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = i
		}
	}
	if v := os.Getenv("NDP_CHARTS"); v != "" {
		cfg.Charts = strings.Split(v, ",")
	}

	h := &cfg.Hyper
	envFloat("NDP_PRETRAIN_LR", &h.PretrainLR)
	envInt("NDP_NUM_PRETRAIN_ITERS", &h.NumPretrainIters)
	envInt("NDP_FIRST_STAGE_MULTIPLIER", &h.FirstStageMultiplier)
	envInt("NDP_BATCH_SIZE", &h.BatchSize)
	envFloat("NDP_FINETUNE_LR", &h.FinetuneLR)
	envInt("NDP_NUM_FINETUNE_ITERS", &h.NumFinetuneIters)
	envInt("NDP_FINETUNE_BATCH_SIZE", &h.FinetuneBatchSize)
	envString("NDP_ACTIVATION", &h.Activation)
	envString("NDP_OPTIMIZER", &h.Optimizer)
	envFloat("NDP_FINETUNE_ANCHOR_L2", &h.FinetuneAnchorL2)
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.Size < 2 {
		return invalid("size must be >= 2, got %d", c.Size)
	}
	if c.Store != checkpoint.KindFile && c.Store != checkpoint.KindBadger {
		return invalid("store must be %q or %q, got %q", checkpoint.KindFile, checkpoint.KindBadger, c.Store)
	}
	for _, ch := range c.Charts {
		if !slices.Contains([]string{ChartPNG, ChartHTML}, ch) {
			return invalid("unknown chart format %q", ch)
		}
	}
	if c.LogEvery < 0 {
		return invalid("log_every must be >= 0")
	}

	h := c.Hyper
	if h.PretrainLR <= 0 || h.FinetuneLR <= 0 {
		return invalid("learning rates must be > 0")
	}
	if h.NumPretrainIters < 0 || h.NumFinetuneIters < 0 {
		return invalid("iteration counts must be >= 0")
	}
	if h.FirstStageMultiplier < 1 {
		return invalid("first_stage_multiplier must be >= 1")
	}
	if h.BatchSize < 1 || h.FinetuneBatchSize < 1 {
		return invalid("batch sizes must be >= 1")
	}
	if h.Hidden1K < 1 || h.Hidden2K < 1 {
		return invalid("hidden multipliers must be >= 1")
	}
	if !Activation(h.Activation).valid() {
		return invalid("unknown activation %q", h.Activation)
	}
	if h.Optimizer != OptAdam && h.Optimizer != OptAdaGrad {
		return invalid("unknown optimizer %q", h.Optimizer)
	}
	if h.FinetuneAnchorL2 < 0 {
		return invalid("finetune_anchor_l2 must be >= 0")
	}
	if h.LayerLRScale != nil && len(h.LayerLRScale) != numLayers {
		return invalid("layer_lr_scale needs %d entries, got %d", numLayers, len(h.LayerLRScale))
	}
	return nil
}

// PretrainIters is the number of pretraining iterations for the network of size s.
func (h Hyperparams) PretrainIters(s int) int {
	if s == 2 {
		return h.NumPretrainIters * h.FirstStageMultiplier
	}
	return h.NumPretrainIters
}
