// Command ndp trains, evaluates and serves greedy value-estimator agents for cubic
// elimination problems.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"ndp-engine/tuner"
)

type globalFlags struct {
	config   string
	size     int
	logs     string
	weights  string
	store    string
	seed     int64
	logLevel string
	noColor  bool
}

var (
	flags   globalFlags
	rootCmd = &cobra.Command{
		Use:           "ndp",
		Short:         "Learned-value greedy solver for cubic elimination problems",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "YAML or JSON config file")
	pf.IntVar(&flags.size, "size", 0, "Largest problem size (overrides config)")
	pf.StringVar(&flags.logs, "logs", "", "Folder for loss logs and charts")
	pf.StringVar(&flags.weights, "weights", "", "Folder for checkpoints")
	pf.StringVar(&flags.store, "store", "", `Checkpoint backend: "file" or "badger"`)
	pf.Int64Var(&flags.seed, "seed", 0, "Random seed (overrides config)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(trainCmd, actCmd, benchCmd, serveCmd)
}

// loadConfig reads the config file and environment, then applies explicit flags.
func loadConfig(cmd *cobra.Command) (tuner.Config, error) {
	cfg, err := tuner.LoadConfig(flags.config)
	if err != nil {
		return cfg, err
	}
	pf := cmd.Flags()
	if pf.Changed("size") {
		cfg.Size = flags.size
	}
	if pf.Changed("logs") {
		cfg.LogsFolder = flags.logs
	}
	if pf.Changed("weights") {
		cfg.WeightsFolder = flags.weights
	}
	if pf.Changed("store") {
		cfg.Store = flags.store
	}
	if pf.Changed("seed") {
		cfg.Seed = flags.seed
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(flags.logLevel))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func colors() aurora.Aurora {
	return aurora.NewAurora(!flags.noColor)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colors().Red("error:"), err)
		os.Exit(1)
	}
}
