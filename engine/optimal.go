package engine

import (
	"fmt"
	"math"
	"math/bits"

	"ndp-engine/cube"
)

// MaxOptimalSize bounds the exhaustive search in Optimal.
const MaxOptimalSize = 8

// Optimal returns the best total achievable on s by any elimination sequence, and the
// action sequence reaching it. It walks every (row set, column set) pair once, so it is
// only usable for small sizes; it serves as ground truth for the greedy policy.
func Optimal(s cube.State) (float64, []cube.Action, error) {
	n := s.Size()
	if n < 1 || n > MaxOptimalSize {
		return 0, nil, fmt.Errorf("engine: optimal search supports sizes 1..%d, got %d", MaxOptimalSize, n)
	}
	memo := make(map[uint32]float64)
	var best func(rows, cols uint32) float64
	best = func(rows, cols uint32) float64 {
		depth := bits.OnesCount32(rows)
		if depth == n {
			return 0
		}
		key := rows<<MaxOptimalSize | cols
		if v, ok := memo[key]; ok {
			return v
		}
		v := math.Inf(-1)
		for j := 0; j < n; j++ {
			if rows&(1<<j) != 0 {
				continue
			}
			for k := 0; k < n; k++ {
				if cols&(1<<k) != 0 {
					continue
				}
				if c := s.At(depth, j, k) + best(rows|1<<j, cols|1<<k); c > v {
					v = c
				}
			}
		}
		memo[key] = v
		return v
	}
	total := best(0, 0)

	// Replay the argmax, translating full-state indices into sub-state indices.
	path := make([]cube.Action, 0, n)
	var rows, cols uint32
	for depth := 0; depth < n; depth++ {
		target := best(rows, cols)
		found := false
		for j := 0; j < n && !found; j++ {
			if rows&(1<<j) != 0 {
				continue
			}
			for k := 0; k < n; k++ {
				if cols&(1<<k) != 0 {
					continue
				}
				if s.At(depth, j, k)+best(rows|1<<j, cols|1<<k) == target {
					path = append(path, cube.Action{Row: localIndex(rows, j), Col: localIndex(cols, k)})
					rows |= 1 << j
					cols |= 1 << k
					found = true
					break
				}
			}
		}
	}
	return total, path, nil
}

// localIndex is the position of full-state index i among the indices not in used.
func localIndex(used uint32, i int) int {
	return i - bits.OnesCount32(used&(1<<i-1))
}
