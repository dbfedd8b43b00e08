package cube

import "fmt"

// Eliminate returns the sub-state left after choosing (j, k): block 0 is dropped,
// index j is removed from axis 1 and index k from axis 2 of every remaining block.
// The receiver is not modified.
func (s State) Eliminate(j, k int) State {
	if s.n < 1 {
		panic("cube: Eliminate on empty state")
	}
	if j < 0 || j >= s.n || k < 0 || k >= s.n {
		panic(fmt.Sprintf("cube: action (%d,%d) out of range for size %d", j, k, s.n))
	}
	m := s.n - 1
	out := make([]float64, 0, m*m*m)
	for i := 1; i < s.n; i++ {
		for jj := 0; jj < s.n; jj++ {
			if jj == j {
				continue
			}
			row := s.data[(i*s.n+jj)*s.n : (i*s.n+jj+1)*s.n]
			out = append(out, row[:k]...)
			out = append(out, row[k+1:]...)
		}
	}
	return State{n: m, data: out}
}

// Play is Eliminate for an Action.
func (s State) Play(a Action) State {
	return s.Eliminate(a.Row, a.Col)
}

// Remaining maps the indices of a sub-state produced by Eliminate(j, k) back to the
// parent's indices on axes 1 and 2.
func Remaining(size, j, k int) (rows, cols []int) {
	for i := 0; i < size; i++ {
		if i != j {
			rows = append(rows, i)
		}
		if i != k {
			cols = append(cols, i)
		}
	}
	return rows, cols
}
