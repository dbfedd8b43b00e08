package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ndp-engine/cube"
	"ndp-engine/tuner"
)

var (
	actStage  string
	actRandom bool

	actCmd = &cobra.Command{
		Use:   "act [instance-file]",
		Short: "Solve one instance greedily with trained checkpoints",
		Long: `Reads an instance (text "size v0 v1 ..." or nested JSON arrays) from the file,
or from stdin when no file is given, and prints the greedy trajectory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAct,
	}
)

func init() {
	actCmd.Flags().StringVar(&actStage, "stage", tuner.StageFinetune, `Checkpoint stage: "pretrain" or "finetune"`)
	actCmd.Flags().BoolVar(&actRandom, "random", false, "Solve a random instance of --size instead of reading one")
}

func readInstance(args []string, in io.Reader) (cube.State, error) {
	if len(args) == 1 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return cube.State{}, err
		}
		return cube.ParseAny(string(b))
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return cube.State{}, err
	}
	return cube.ParseAny(string(b))
}

// loadAgent restores an agent able to solve sizes up to cfg.Size.
func loadAgent(cfg tuner.Config, stage string) (*tuner.Agent, error) {
	return tuner.LoadAgent(tuner.Deps{Logger: newLogger(os.Stderr)}, cfg, cfg.Size, stage)
}

func runAct(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	var s cube.State
	if actRandom {
		s = cube.NewUniformGenerator(cfg.Seed).Instance(cfg.Size)
	} else if s, err = readInstance(args, cmd.InOrStdin()); err != nil {
		return fmt.Errorf("read instance: %w", err)
	}
	if s.Size() > cfg.Size {
		cfg.Size = s.Size()
	}

	a, err := loadAgent(cfg, actStage)
	if err != nil {
		return err
	}
	defer a.Close()

	tr, err := a.Rewards(s)
	if err != nil {
		return err
	}
	au := colors()
	out := cmd.OutOrStdout()
	for i, r := range tr.Rewards {
		fmt.Fprintf(out, "step %d  action %s  reward %.6f\n", i, tr.Actions[i], r)
	}
	fmt.Fprintf(out, "%s %.6f\n", au.Bold(au.Green("total")), tr.Total())
	return nil
}
