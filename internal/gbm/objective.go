package gbm

import "math"

// Objective is a twice-differentiable loss used to drive the Newton-style
// gradient boosting update (the XGBoost-style grad/hess formulation).
// ContextModelTrainer (§4.2) needs three of these: Poisson with a
// log-offset, squared error, and logistic — none of which appear as a
// ready-made third-party package anywhere in the example pack (checked
// other_examples/ for gradient-boosting libraries; the closest hit,
// ovechbot_go's internal/model/logistic.go, hand-rolls logistic
// regression by gradient descent rather than importing one), so this
// package is a deliberate standard-library build (see DESIGN.md).
type Objective interface {
	// Link maps a raw margin (sum of base margin + tree outputs) to the
	// natural-scale prediction.
	Link(margin float64) float64
	// GradHess returns the first and second derivative of the loss with
	// respect to the margin, for one sample.
	GradHess(margin, y float64) (grad, hess float64)
}

// PoissonObjective implements count:poisson with a log link, matching
// the RAS booster's log(pdras) base margin (§4.2).
type PoissonObjective struct{}

func (PoissonObjective) Link(margin float64) float64 { return math.Exp(margin) }

func (PoissonObjective) GradHess(margin, y float64) (float64, float64) {
	pred := math.Exp(margin)
	return pred - y, pred
}

// SquaredErrorObjective implements reg:squarederror with an identity
// link, used for the RSQ booster.
type SquaredErrorObjective struct{}

func (SquaredErrorObjective) Link(margin float64) float64 { return margin }

func (SquaredErrorObjective) GradHess(margin, y float64) (float64, float64) {
	return margin - y, 1
}

// LogisticObjective implements binary:logistic with a sigmoid link, used
// for the PSxG booster.
type LogisticObjective struct{}

func (LogisticObjective) Link(margin float64) float64 {
	return 1 / (1 + math.Exp(-margin))
}

func (LogisticObjective) GradHess(margin, y float64) (float64, float64) {
	p := 1 / (1 + math.Exp(-margin))
	h := p * (1 - p)
	if h < 1e-6 {
		h = 1e-6
	}
	return p - y, h
}
