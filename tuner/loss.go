package tuner

import "fmt"

// MSELoss returns the mean squared error between predictions and targets and its
// gradient with respect to each prediction, 2(p-t)/B.
func MSELoss(pred, target []float64) (float64, []float64) {
	if len(pred) != len(target) {
		panic(fmt.Sprintf("tuner: %d predictions for %d targets", len(pred), len(target)))
	}
	grad := make([]float64, len(pred))
	if len(pred) == 0 {
		return 0, grad
	}
	b := float64(len(pred))
	loss := 0.0
	for i := range pred {
		d := pred[i] - target[i]
		loss += d * d
		grad[i] = 2 * d / b
	}
	return loss / b, grad
}

// AnchoredL2Loss computes base loss + lambda * ||theta - anchor||^2.
func AnchoredL2Loss(theta, anchor []float64, lambda, baseLoss float64) float64 {
	penalty := 0.0
	for i := range theta {
		diff := theta[i] - anchor[i]
		penalty += diff * diff
	}
	return baseLoss + lambda*penalty
}

// AnchoredL2Grad adds the anchored L2 gradient to the existing gradient buffer.
func AnchoredL2Grad(grad, theta, anchor []float64, lambda float64) {
	for i := range grad {
		grad[i] += 2.0 * lambda * (theta[i] - anchor[i])
	}
}
