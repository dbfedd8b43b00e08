package engine

import (
	"fmt"

	"ndp-engine/cube"
)

// Table holds one estimator per sub-problem size. Entry s evaluates states of size s;
// entries 0 and 1 are exact. The table only grows.
type Table struct {
	estimators []Estimator
}

// NewTable returns a table holding the two exact estimators.
func NewTable() *Table {
	return &Table{estimators: []Estimator{NewExact(0), NewExact(1)}}
}

// Len is the number of sizes covered, which is also the next size to be appended.
func (t *Table) Len() int { return len(t.estimators) }

// Covers reports whether states of the given size can be evaluated.
func (t *Table) Covers(size int) bool {
	return size >= 0 && size < len(t.estimators)
}

// Append adds the estimator for size Len().
func (t *Table) Append(e Estimator) {
	if e.Size() != len(t.estimators) {
		panic(fmt.Sprintf("engine: appending estimator of size %d to table of length %d", e.Size(), len(t.estimators)))
	}
	t.estimators = append(t.estimators, e)
}

// At returns the estimator for the given size.
func (t *Table) At(size int) Estimator {
	if !t.Covers(size) {
		panic(fmt.Sprintf("engine: no estimator for size %d (table covers 0..%d)", size, len(t.estimators)-1))
	}
	return t.estimators[size]
}

// Value evaluates a single state with the estimator of its own size.
func (t *Table) Value(s cube.State) float64 {
	return t.At(s.Size()).EvaluateBatch([]cube.State{s})[0]
}

// Learned returns the estimators at sizes >= 2 in increasing size order.
func (t *Table) Learned() []Estimator {
	out := make([]Estimator, 0, len(t.estimators)-2)
	return append(out, t.estimators[2:]...)
}
