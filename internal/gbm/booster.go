package gbm

import "math/rand"

// Params controls a full boosting run, matching §4.2's "~300-400 rounds,
// max_depth 5-6, eta=0.05, subsample 0.8, col-subsample 0.8".
type Params struct {
	Rounds         int
	MaxDepth       int
	Eta            float64
	Subsample      float64
	ColSample      float64
	Lambda         float64
	Gamma          float64
	MinChildWeight float64
	Seed           int64
}

// DefaultParams returns the §4.2 hyperparameters.
func DefaultParams() Params {
	return Params{
		Rounds:         300,
		MaxDepth:       6,
		Eta:            0.05,
		Subsample:      0.8,
		ColSample:      0.8,
		Lambda:         1.0,
		Gamma:          0.0,
		MinChildWeight: 1.0,
		Seed:           1,
	}
}

// Booster is a trained additive ensemble: base margin plus a sequence
// of shrunk trees, stored with the ordered feature-column list it was
// trained on so prediction can reindex rows against it (§4.2).
type Booster struct {
	Columns    []string
	Trees      []Tree
	Eta        float64
	Objective  Objective
}

// Train fits a Booster via Newton-boosting: each round computes grad/hess
// from the objective at the current margin, grows one tree against those
// statistics, and adds eta*tree to the running margin.
func Train(ds Dataset, y []float64, baseMargin []float64, obj Objective, p Params) *Booster {
	n := ds.NumRows()
	margin := make([]float64, n)
	copy(margin, baseMargin)

	rng := rand.New(rand.NewSource(p.Seed))
	tp := TreeParams{
		MaxDepth:       p.MaxDepth,
		Lambda:         p.Lambda,
		Gamma:          p.Gamma,
		MinChildWeight: p.MinChildWeight,
		ColSample:      p.ColSample,
		Rand:           rng,
	}

	booster := &Booster{Columns: ds.Columns, Eta: p.Eta, Objective: obj}

	for round := 0; round < p.Rounds; round++ {
		grad := make([]float64, n)
		hess := make([]float64, n)
		for i := 0; i < n; i++ {
			grad[i], hess[i] = obj.GradHess(margin[i], y[i])
		}

		sampleX, sampleGrad, sampleHess := subsampleRows(ds.X, grad, hess, p.Subsample, rng)
		tree := growTree(sampleX, sampleGrad, sampleHess, tp)
		booster.Trees = append(booster.Trees, tree)

		for i := 0; i < n; i++ {
			margin[i] += p.Eta * tree.Predict(ds.X[i])
		}
	}

	return booster
}

func subsampleRows(x [][]float64, grad, hess []float64, fraction float64, rng *rand.Rand) ([][]float64, []float64, []float64) {
	if fraction <= 0 || fraction >= 1 {
		return x, grad, hess
	}
	n := len(x)
	k := int(float64(n) * fraction)
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(n)[:k]

	outX := make([][]float64, k)
	outGrad := make([]float64, k)
	outHess := make([]float64, k)
	for i, idx := range perm {
		outX[i] = x[idx]
		outGrad[i] = grad[idx]
		outHess[i] = hess[idx]
	}
	return outX, outGrad, outHess
}

// PredictMargin returns the raw additive margin (base margin + shrunk
// tree outputs) for rows already reindexed against b.Columns — used by
// the ctx_mult precomputation (contextmodel.BuildCtxMultTable), which needs the
// pre-link-function value (§4.7: "predicting ... raw=true then
// exponentiating").
func (b *Booster) PredictMargin(x []float64, baseMargin float64) float64 {
	margin := baseMargin
	for _, t := range b.Trees {
		margin += b.Eta * t.Predict(x)
	}
	return margin
}

// Predict returns the link-transformed prediction for one reindexed row.
func (b *Booster) Predict(x []float64, baseMargin float64) float64 {
	return b.Objective.Link(b.PredictMargin(x, baseMargin))
}

// PredictRows reindexes named-feature rows against b.Columns (missing
// columns filled 0, per §4.2) and predicts each.
func (b *Booster) PredictRows(rows []map[string]float64, baseMargins []float64) []float64 {
	ds := NewDataset(rows, b.Columns)
	out := make([]float64, ds.NumRows())
	for i := 0; i < ds.NumRows(); i++ {
		bm := 0.0
		if baseMargins != nil {
			bm = baseMargins[i]
		}
		out[i] = b.Predict(ds.X[i], bm)
	}
	return out
}
