package cube

import "fmt"

// Action selects entry [0, Row, Col] of the leading cost matrix.
type Action struct {
	Row int
	Col int
}

// NoAction is the trivial action reported for size-1 states.
var NoAction = Action{}

func (a Action) String() string {
	return fmt.Sprintf("(%d,%d)", a.Row, a.Col)
}

// ValidFor reports whether the action addresses an entry of a state of the given size.
func (a Action) ValidFor(size int) bool {
	return size >= 1 && a.Row >= 0 && a.Row < size && a.Col >= 0 && a.Col < size
}

// Actions enumerates every (row, col) pair for a state of the given size, row major.
// The order is the tie-break order of the position evaluator.
func Actions(size int) []Action {
	out := make([]Action, 0, size*size)
	for j := 0; j < size; j++ {
		for k := 0; k < size; k++ {
			out = append(out, Action{Row: j, Col: k})
		}
	}
	return out
}

// Cost returns the immediate cost collected by playing a on s.
func (s State) Cost(a Action) float64 {
	return s.At(0, a.Row, a.Col)
}
