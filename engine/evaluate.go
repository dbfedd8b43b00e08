package engine

import (
	"fmt"
	"math"

	"ndp-engine/cube"
)

// Evaluate performs one step of exhaustive lookahead on s. Every action (j, k) is
// scored as the immediate cost s[0,j,k] plus the table's estimate for the sub-state it
// leaves; the best score and its action are returned. Larger is better. Ties go to the
// first action in cube.Actions order.
//
// Size-1 states return their scalar and the trivial action without consulting the
// table. Evaluate only reads estimators.
func Evaluate(s cube.State, t *Table) (float64, cube.Action) {
	size := s.Size()
	if size == 1 {
		return s.Scalar(), cube.NoAction
	}
	if size < 1 {
		panic(fmt.Sprintf("engine: cannot evaluate state of size %d", size))
	}

	actions := cube.Actions(size)
	subs := make([]cube.State, len(actions))
	for i, a := range actions {
		subs[i] = s.Play(a)
	}
	lookahead := t.At(size - 1).EvaluateBatch(subs)

	bestScore := math.Inf(-1)
	bestAction := actions[0]
	for i, a := range actions {
		score := s.Cost(a) + lookahead[i]
		if score > bestScore {
			bestScore = score
			bestAction = a
		}
	}
	return bestScore, bestAction
}

// EvaluateBatch returns the Evaluate score of every state.
func EvaluateBatch(states []cube.State, t *Table) []float64 {
	out := make([]float64, len(states))
	for i, s := range states {
		out[i], _ = Evaluate(s, t)
	}
	return out
}
