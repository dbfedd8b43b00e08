package engine

import "ndp-engine/cube"

// Trajectory is the outcome of a greedy rollout.
type Trajectory struct {
	// Rewards holds the immediate cost of each step; the last entry is the terminal
	// scalar. len(Rewards) equals the initial size.
	Rewards []float64
	// Actions holds the chosen action per step, NoAction for the terminal step.
	Actions []cube.Action
	// Positions holds the state before each step, only when requested. Sizes go from
	// the initial size down to 1.
	Positions []cube.State
}

// Total returns the accumulated cost.
func (tr Trajectory) Total() float64 {
	return Sum(tr.Rewards)
}

// Rollout reduces s to completion, taking the Evaluate action at each step.
func Rollout(s cube.State, t *Table, withPositions bool) Trajectory {
	var tr Trajectory
	tr.Rewards = make([]float64, 0, s.Size())
	tr.Actions = make([]cube.Action, 0, s.Size())
	if withPositions {
		tr.Positions = make([]cube.State, 0, s.Size())
	}
	for s.Size() > 1 {
		_, a := Evaluate(s, t)
		if withPositions {
			tr.Positions = append(tr.Positions, s)
		}
		tr.Rewards = append(tr.Rewards, s.Cost(a))
		tr.Actions = append(tr.Actions, a)
		s = s.Play(a)
	}
	tr.Rewards = append(tr.Rewards, s.Scalar())
	tr.Actions = append(tr.Actions, cube.NoAction)
	if withPositions {
		tr.Positions = append(tr.Positions, s)
	}
	return tr
}

// Act returns the total cost collected by the greedy policy on s.
func Act(s cube.State, t *Table) float64 {
	return Rollout(s, t, false).Total()
}

// TrailingSum turns immediate rewards into remaining totals: element i becomes the sum
// of rewards i..end. The last element is already terminal and is left as is. The input
// is not modified.
func TrailingSum(rewards []float64) []float64 {
	out := append([]float64(nil), rewards...)
	for i := len(out) - 2; i >= 0; i-- {
		out[i] += out[i+1]
	}
	return out
}
