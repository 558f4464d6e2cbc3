// Package rating implements RatingEstimator (§4.1): per-league,
// per-shot-type ridge regressions over a sparse lineup incidence matrix,
// solved with conjugate gradient on the normal equations so the dense
// P-by-P Gram matrix is never materialized.
package rating

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/venomio/vpfm/internal/vpferrors"
)

// sparseRow is one training row: nonzero indices paired with +1/-1
// offense/defense coefficients, plus the regression target and sample
// weight (minutes_played or shot_count per §4.1).
type sparseRow struct {
	idx    []int
	val    []float64
	target float64
	weight float64
}

func (r sparseRow) dot(beta []float64) float64 {
	var sum float64
	for k, i := range r.idx {
		sum += r.val[k] * beta[i]
	}
	return sum
}

func (r sparseRow) scatterAdd(dst []float64, scale float64) {
	for k, i := range r.idx {
		dst[i] += scale * r.val[k]
	}
}

// ridgeSolve fits beta minimizing sum(w_i * (row_i.beta - y_i)^2) + alpha*||beta||^2
// via conjugate gradient on A*beta = b where A = X^T W X + alpha*I.
func ridgeSolve(rows []sparseRow, dim int, alpha float64, maxIter int, tol float64) ([]float64, error) {
	if len(rows) == 0 || dim == 0 {
		return nil, vpferrors.New(vpferrors.Modeling, "rating.ridgeSolve", fmt.Errorf("empty design matrix"))
	}

	matvec := func(beta []float64) []float64 {
		out := make([]float64, dim)
		for _, row := range rows {
			v := row.dot(beta) * row.weight
			row.scatterAdd(out, v)
		}
		floats.AddScaled(out, alpha, beta)
		return out
	}

	b := make([]float64, dim)
	for _, row := range rows {
		row.scatterAdd(b, row.weight*row.target)
	}

	beta := make([]float64, dim)
	r := make([]float64, dim)
	copy(r, b) // residual = b - A*0

	p := make([]float64, dim)
	copy(p, r)

	rsOld := floats.Dot(r, r)
	if rsOld == 0 {
		return beta, nil
	}

	if maxIter <= 0 {
		maxIter = 2 * dim
		if maxIter > 500 {
			maxIter = 500
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		ap := matvec(p)
		denom := floats.Dot(p, ap)
		if denom == 0 {
			break
		}
		stepSize := rsOld / denom

		floats.AddScaled(beta, stepSize, p)
		floats.AddScaled(r, -stepSize, ap)

		rsNew := floats.Dot(r, r)
		if rsNew < tol*tol {
			break
		}

		growth := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + growth*p[i]
		}
		rsOld = rsNew
	}

	return beta, nil
}
