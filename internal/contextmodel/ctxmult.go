package contextmodel

import (
	"math"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
)

// CtxKey indexes the ctx_mult table: one cell per (state, segment,
// player_dif, is_home) combination, the Cartesian of 5 states x 6
// segments x 5 player-diffs x {home,away} from §4.7.
type CtxKey struct {
	IsHome    bool
	State     domain.MatchState
	Segment   int
	PlayerDif domain.PlayerDif
}

// BuildCtxMultTable precomputes exp(RAS_margin) for every context
// bucket of one fixture, predicting with total_ras=1 (base margin = 0,
// since log(1) = 0) so the result carries only the model's
// multiplicative context effect, per §4.5/§4.7/testable property #5.
func BuildCtxMultTable(ras *gbm.Booster, mc MatchContext) map[CtxKey]float64 {
	out := make(map[CtxKey]float64, len(allStates)*len(allSegments)*len(allDifs)*2)

	for _, isHome := range []bool{true, false} {
		for _, state := range allStates {
			for _, seg := range allSegments {
				for _, dif := range allDifs {
					row := rasFeatureRow(mc, isHome, state, seg, dif)
					x := reindexRow(row, ras.Columns)
					margin := ras.PredictMargin(x, 0)
					out[CtxKey{IsHome: isHome, State: state, Segment: seg, PlayerDif: dif}] = math.Exp(margin)
				}
			}
		}
	}
	return out
}

// reindexRow is the single-row counterpart to gbm.NewDataset's
// reindexing, used when the caller wants one prediction instead of a
// batch (avoids allocating a full Dataset per ctx_mult cell).
func reindexRow(row map[string]float64, columns []string) []float64 {
	x := make([]float64, len(columns))
	for i, c := range columns {
		if v, ok := row[c]; ok {
			x[i] = v
		}
	}
	return x
}
