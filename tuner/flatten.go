// tuner/flatten.go
package tuner

// flatten concatenates the parameters of nets in order and returns the buffer together
// with a restore func writing a buffer of the same layout back into the networks.
func flatten(nets []*ValueNetwork) ([]float64, func([]float64)) {
	total := 0
	for _, v := range nets {
		total += v.NumParams()
	}
	buf := make([]float64, 0, total)
	for _, v := range nets {
		buf = append(buf, v.theta...)
	}
	restore := func(vals []float64) {
		off := 0
		for _, v := range nets {
			v.SetParams(vals[off : off+v.NumParams()])
			off += v.NumParams()
		}
	}
	return buf, restore
}

// gradSlices splits a joint gradient buffer into per-network views.
func gradSlices(nets []*ValueNetwork, grads []float64) [][]float64 {
	out := make([][]float64, len(nets))
	off := 0
	for i, v := range nets {
		out[i] = grads[off : off+v.NumParams()]
		off += v.NumParams()
	}
	return out
}
