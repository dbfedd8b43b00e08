package tuner

// DefaultLayerLRScale leaves every layer at the base learning rate.
func DefaultLayerLRScale() []float64 {
	return []float64{1, 1, 1}
}

// BuildLRScaleVector expands per-layer multipliers (input layer first) into a
// per-parameter vector matching the flatten order of nets. It returns nil when every
// multiplier is 1 so optimizers skip scaling.
func BuildLRScaleVector(nets []*ValueNetwork, layerScale []float64) []float64 {
	uniform := true
	for _, s := range layerScale {
		if s != 1 {
			uniform = false
		}
	}
	if uniform || len(layerScale) != numLayers {
		return nil
	}
	var scales []float64
	for _, v := range nets {
		for l := 0; l < numLayers; l++ {
			start, end := v.LayerRange(l)
			for i := start; i < end; i++ {
				scales = append(scales, layerScale[l])
			}
		}
	}
	return scales
}
