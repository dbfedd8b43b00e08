package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ndp-engine/cube"
	"ndp-engine/tuner"
)

var (
	serveStage string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Answer solve requests on stdin, one per line",
		Long: `Line protocol, one command per line:

  ndp                 identify and report the largest supported size
  isready             replies readyok
  act <instance>      total collected by the greedy policy
  rewards <instance>  per-step rewards and actions
  eval <instance>     one-step lookahead value and best action
  quit                exit

Instances use the text form "size v0 v1 ..." or nested JSON arrays.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveStage, "stage", tuner.StageFinetune, "Checkpoint stage to load")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := loadAgent(cfg, serveStage)
	if err != nil {
		return err
	}
	defer a.Close()
	return serveLoop(os.Stdin, os.Stdout, a)
}

// serveLoop reads commands from r until quit or EOF. Malformed requests get an
// "error ..." line and the loop continues.
func serveLoop(r io.Reader, w io.Writer, a *tuner.Agent) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verb, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(verb) {
		case "ndp":
			fmt.Fprintf(w, "id name ndp run %s\n", a.RunID())
			fmt.Fprintf(w, "maxsize %d\n", a.MaxSize())
			fmt.Fprintln(w, "ndpok")
		case "isready":
			fmt.Fprintln(w, "readyok")
		case "quit":
			return nil
		case "act", "rewards", "eval":
			s, err := cube.ParseAny(rest)
			if err != nil {
				fmt.Fprintf(w, "error %v\n", err)
				continue
			}
			serveRequest(w, a, strings.ToLower(verb), s)
		default:
			fmt.Fprintf(w, "error unknown command %q\n", verb)
		}
	}
	return scanner.Err()
}

func serveRequest(w io.Writer, a *tuner.Agent, verb string, s cube.State) {
	switch verb {
	case "act":
		v, err := a.Act(s)
		if err != nil {
			fmt.Fprintf(w, "error %v\n", err)
			return
		}
		fmt.Fprintf(w, "total %g\n", v)
	case "rewards":
		tr, err := a.Rewards(s)
		if err != nil {
			fmt.Fprintf(w, "error %v\n", err)
			return
		}
		var sb strings.Builder
		sb.WriteString("rewards")
		for i, r := range tr.Rewards {
			fmt.Fprintf(&sb, " %s:%g", tr.Actions[i], r)
		}
		fmt.Fprintln(w, sb.String())
	case "eval":
		v, act, err := a.EvaluatePosition(s)
		if err != nil {
			fmt.Fprintf(w, "error %v\n", err)
			return
		}
		fmt.Fprintf(w, "value %g action %s\n", v, act)
	}
}
