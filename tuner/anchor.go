package tuner

// anchor pulls fine-tuned parameters back toward a snapshot taken before fine-tuning.
type anchor struct {
	theta  []float64
	lambda float64
}

// newAnchor returns nil when lambda is not positive.
func newAnchor(theta []float64, lambda float64) *anchor {
	if lambda <= 0 {
		return nil
	}
	return &anchor{theta: append([]float64(nil), theta...), lambda: lambda}
}

func (a *anchor) apply(loss float64, theta, grads []float64) float64 {
	if a == nil {
		return loss
	}
	AnchoredL2Grad(grads, theta, a.theta, a.lambda)
	return AnchoredL2Loss(theta, a.theta, a.lambda, loss)
}
