package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"ndp-engine/cube"
	"ndp-engine/engine"
	"ndp-engine/tuner"
)

var (
	benchGames int
	benchStage string
	benchQuick bool

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Compare the greedy agent with the exhaustive optimum and a random policy",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
)

func init() {
	f := benchCmd.Flags()
	f.IntVar(&benchGames, "games", 100, "Number of random instances")
	f.StringVar(&benchStage, "stage", tuner.StageFinetune, "Checkpoint stage to load")
	f.BoolVar(&benchQuick, "quick", false, "Train a small agent in memory instead of loading checkpoints")
}

// randomTotal plays uniformly random actions to completion.
func randomTotal(s cube.State, rng *rand.Rand) float64 {
	total := 0.0
	for s.Size() > 0 {
		a := cube.Action{Row: rng.Intn(s.Size()), Col: rng.Intn(s.Size())}
		total += s.Cost(a)
		s = s.Play(a)
	}
	return total
}

type benchStats struct {
	greedy, optimal, random []float64
}

func runBench(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var a *tuner.Agent
	if benchQuick {
		cfg.LogsFolder, cfg.WeightsFolder = "", ""
		cfg.Hyper.NumPretrainIters = 50
		cfg.Hyper.NumFinetuneIters = 5
		a, err = tuner.NewAgent(tuner.Deps{Logger: newLogger(os.Stderr)}, cfg)
	} else {
		a, err = loadAgent(cfg, benchStage)
	}
	if err != nil {
		return err
	}
	defer a.Close()

	gen := cube.NewUniformGenerator(cfg.Seed + 1)
	rng := rand.New(rand.NewSource(cfg.Seed + 2))
	withOptimal := cfg.Size <= engine.MaxOptimalSize
	var st benchStats
	for g := 0; g < benchGames; g++ {
		s := gen.Instance(cfg.Size)
		v, err := a.Act(s)
		if err != nil {
			return err
		}
		st.greedy = append(st.greedy, v)
		st.random = append(st.random, randomTotal(s, rng))
		if withOptimal {
			best, _, err := engine.Optimal(s)
			if err != nil {
				return err
			}
			st.optimal = append(st.optimal, best)
		}
	}

	au := colors()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "size %d  games %d  greedy %.4f  random %.4f",
		cfg.Size, benchGames, engine.Mean(st.greedy), engine.Mean(st.random))
	if withOptimal {
		opt := engine.Mean(st.optimal)
		ratio := 0.0
		if opt != 0 {
			ratio = engine.Mean(st.greedy) / opt
		}
		fmt.Fprintf(out, "  optimal %.4f  ratio %s", opt, au.Cyan(fmt.Sprintf("%.4f", ratio)))
	}
	fmt.Fprintln(out)
	return nil
}
