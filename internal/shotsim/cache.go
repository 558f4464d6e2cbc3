package shotsim

import (
	"fmt"
	"math"

	"github.com/venomio/vpfm/internal/contextmodel"
	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
)

// roundKey rounds a float to 4 decimals before it becomes part of a
// cache key, per the Design Notes' "round numeric cache keys to 4
// decimals" rule — simulation draws the same shot geometry thousands of
// times a second and full float64 precision would never hit.
func roundKey(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// PredictionCache memoizes the RSQ and PSxG booster predictions keyed by
// their rounded numeric/categorical inputs, so a simulation run spends
// its time on cache hits instead of re-walking the boosted trees for
// shot geometries it has already seen (§5).
type PredictionCache struct {
	ras  *gbm.Booster
	rsq  *gbm.Booster
	psxg *gbm.Booster

	rsqCache  map[rsqKey]float64
	psxgCache map[psxgKey]float64
}

type rsqKey struct {
	totalPlsqa float64
	shooterSq  float64
	assisterSq float64
	state      domain.MatchState
	dif        domain.PlayerDif
}

type psxgKey struct {
	rsq      float64
	shooterA float64
	gkA      float64
	isHome   bool
}

// NewPredictionCache wires up the three context boosters trained by
// ContextModelTrainer (C2).
func NewPredictionCache(ras, rsq, psxg *gbm.Booster) *PredictionCache {
	return &PredictionCache{
		ras:       ras,
		rsq:       rsq,
		psxg:      psxg,
		rsqCache:  make(map[rsqKey]float64),
		psxgCache: make(map[psxgKey]float64),
	}
}

// RSQ returns the cached (or freshly predicted) shot quality for the
// given geometry, reusing contextmodel.RSQFeatureRow so the rebuild path
// matches RSQ's training-time encoding exactly.
func (c *PredictionCache) RSQ(totalPlsqa, shooterSq, assisterSq float64, state domain.MatchState, dif domain.PlayerDif) float64 {
	key := rsqKey{
		totalPlsqa: roundKey(totalPlsqa),
		shooterSq:  roundKey(shooterSq),
		assisterSq: roundKey(assisterSq),
		state:      state,
		dif:        dif,
	}
	if v, ok := c.rsqCache[key]; ok {
		return v
	}

	row := contextmodel.RSQFeatureRow(totalPlsqa, shooterSq, assisterSq, state, dif)
	ds := gbm.NewDataset([]map[string]float64{row}, c.rsq.Columns)
	v := c.rsq.Predict(ds.X[0], 0)
	c.rsqCache[key] = v
	return v
}

// PSxG returns the cached (or freshly predicted) post-shot expected goal
// value, reusing contextmodel.PSxGFeatureRow.
func (c *PredictionCache) PSxG(rsq, shooterA, gkA float64, mc contextmodel.MatchContext, isHome bool) float64 {
	key := psxgKey{
		rsq:      roundKey(rsq),
		shooterA: roundKey(shooterA),
		gkA:      roundKey(gkA),
		isHome:   isHome,
	}
	if v, ok := c.psxgCache[key]; ok {
		return v
	}

	row := contextmodel.PSxGFeatureRow(rsq, shooterA, gkA, mc, isHome)
	ds := gbm.NewDataset([]map[string]float64{row}, c.psxg.Columns)
	v := c.psxg.Predict(ds.X[0], 0)
	c.psxgCache[key] = v
	return v
}

// CtxMultFromTable looks up the precomputed 300-cell grid built once per
// simulated schedule (§4.7); the RAS booster itself is never walked
// per-shot.
func CtxMultFromTable(table map[contextmodel.CtxKey]float64, isHome bool, state domain.MatchState, segment int, dif domain.PlayerDif) (float64, error) {
	key := contextmodel.CtxKey{IsHome: isHome, State: state, Segment: segment, PlayerDif: dif}
	v, ok := table[key]
	if !ok {
		return 0, fmt.Errorf("ctx_mult table missing cell %+v", key)
	}
	return v, nil
}
