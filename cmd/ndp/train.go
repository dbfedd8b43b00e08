package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"ndp-engine/tuner"
)

var (
	trainPretrainIters int
	trainFinetuneIters int
	trainBatch         int
	trainCharts        string
	trainMetricsFile   string

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Pretrain and fine-tune one value network per size, writing checkpoints",
		Args:  cobra.NoArgs,
		RunE:  runTrain,
	}
)

func init() {
	f := trainCmd.Flags()
	f.IntVar(&trainPretrainIters, "pretrain-iters", 0, "Pretraining iterations per size (overrides config)")
	f.IntVar(&trainFinetuneIters, "finetune-iters", 0, "Fine-tuning iterations (overrides config)")
	f.IntVar(&trainBatch, "batch", 0, "Pretraining batch size (overrides config)")
	f.StringVar(&trainCharts, "charts", "", `Comma separated chart formats: "png", "html"`)
	f.StringVar(&trainMetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("pretrain-iters") {
		cfg.Hyper.NumPretrainIters = trainPretrainIters
	}
	if f.Changed("finetune-iters") {
		cfg.Hyper.NumFinetuneIters = trainFinetuneIters
	}
	if f.Changed("batch") {
		cfg.Hyper.BatchSize = trainBatch
	}
	if trainCharts != "" {
		cfg.Charts = strings.Split(trainCharts, ",")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	au := colors()
	reg := prometheus.NewRegistry()
	t0 := time.Now()
	fmt.Printf("Training size %d (pretrain %d iters, finetune %d iters)\n",
		cfg.Size, cfg.Hyper.NumPretrainIters, cfg.Hyper.NumFinetuneIters)
	a, err := tuner.NewAgent(tuner.Deps{Logger: newLogger(os.Stderr), Registry: reg}, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("%s run=%s networks=%d time=%s\n",
		au.Green("done"), a.RunID(), len(a.Networks()), time.Since(t0).Round(time.Millisecond))
	if cfg.WeightsFolder != "" {
		fmt.Printf("checkpoints: %s (%s)\n", cfg.WeightsFolder, cfg.Store)
	} else {
		fmt.Println(au.Yellow("no weights folder set; checkpoints were not written"))
	}
	if cfg.LogsFolder != "" {
		fmt.Printf("loss logs: %s\n", cfg.LogsFolder)
	}
	if trainMetricsFile != "" {
		if err := prometheus.WriteToTextfile(trainMetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
