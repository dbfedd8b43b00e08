// Package cube holds the cost state of the 3-index elimination problem.
//
// A State of size n is a stack of n cost matrices, each n×n. Axis 0 indexes the
// pending row-blocks, axes 1 and 2 index the columns still to be consumed. States are
// immutable: Eliminate returns a new, smaller State and nothing writes into an existing
// one.
package cube

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// State is an immutable size×size×size cost tensor stored flat, index (i*n+j)*n+k.
type State struct {
	n    int
	data []float64
}

// New builds a State of the given size from size^3 values. The values are copied.
func New(size int, values []float64) (State, error) {
	if size < 0 {
		return State{}, fmt.Errorf("cube: negative size %d", size)
	}
	if want := size * size * size; len(values) != want {
		return State{}, fmt.Errorf("cube: size %d needs %d values, got %d", size, want, len(values))
	}
	return State{n: size, data: slices.Clone(values)}, nil
}

// MustNew is New for values known to be well formed. It panics otherwise.
func MustNew(size int, values []float64) State {
	s, err := New(size, values)
	if err != nil {
		panic(err)
	}
	return s
}

// Zero returns an all-zero State of the given size.
func Zero(size int) State {
	return State{n: size, data: make([]float64, size*size*size)}
}

// FromMatrices builds a State from size matrices of size×size each.
func FromMatrices(blocks [][][]float64) (State, error) {
	n := len(blocks)
	values := make([]float64, 0, n*n*n)
	for i, m := range blocks {
		if len(m) != n {
			return State{}, fmt.Errorf("cube: block %d has %d rows, want %d", i, len(m), n)
		}
		for j, row := range m {
			if len(row) != n {
				return State{}, fmt.Errorf("cube: block %d row %d has %d columns, want %d", i, j, len(row), n)
			}
			values = append(values, row...)
		}
	}
	return State{n: n, data: values}, nil
}

// Size returns n.
func (s State) Size() int { return s.n }

// Len returns the number of cost entries, size^3.
func (s State) Len() int { return len(s.data) }

// At returns the cost entry [i, j, k].
func (s State) At(i, j, k int) float64 {
	s.checkIndex(i, j, k)
	return s.data[(i*s.n+j)*s.n+k]
}

// Scalar returns the only entry of a size-1 state.
func (s State) Scalar() float64 {
	if s.n != 1 {
		panic(fmt.Sprintf("cube: Scalar on state of size %d", s.n))
	}
	return s.data[0]
}

// Values returns a copy of the flat entries.
func (s State) Values() []float64 {
	return slices.Clone(s.data)
}

// AppendValues appends the flat entries to dst. Used to fill network input rows
// without an intermediate copy.
func (s State) AppendValues(dst []float64) []float64 {
	return append(dst, s.data...)
}

// Matrices returns the state as size nested size×size matrices.
func (s State) Matrices() [][][]float64 {
	out := make([][][]float64, s.n)
	for i := range out {
		out[i] = make([][]float64, s.n)
		for j := range out[i] {
			off := (i*s.n + j) * s.n
			out[i][j] = slices.Clone(s.data[off : off+s.n])
		}
	}
	return out
}

// Equal reports whether two states have the same size and entries.
func (s State) Equal(o State) bool {
	return s.n == o.n && slices.Equal(s.data, o.data)
}

// Sum returns the sum of all entries.
func (s State) Sum() float64 {
	var t float64
	for _, v := range s.data {
		t += v
	}
	return t
}

func (s State) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cube(%d)", s.n)
	for i := 0; i < s.n; i++ {
		sb.WriteString("\n")
		for j := 0; j < s.n; j++ {
			sb.WriteString("  ")
			for k := 0; k < s.n; k++ {
				fmt.Fprintf(&sb, " %.4f", s.data[(i*s.n+j)*s.n+k])
			}
			if j < s.n-1 {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func (s State) checkIndex(i, j, k int) {
	if i < 0 || i >= s.n || j < 0 || j >= s.n || k < 0 || k >= s.n {
		panic(fmt.Sprintf("cube: index [%d,%d,%d] out of range for size %d", i, j, k, s.n))
	}
}
