// Package contextmodel implements ContextModelTrainer (C2): the RAS,
// RSQ, and PSxG gradient-boosted boosters, their exact feature encodings
// from §4.2, and the ctx_mult precomputation §4.5/§4.7 rely on.
package contextmodel

import (
	"fmt"
	"strconv"

	"github.com/venomio/vpfm/internal/domain"
)

// allStates/allSegments/allDifs enumerate the buckets the ctx_mult grid
// and the categorical one-hot encodings range over.
var allStates = []domain.MatchState{
	domain.StateTrailingBig, domain.StateTrailing, domain.StateLevel,
	domain.StateLeading, domain.StateLeadingBig,
}

var allSegments = []int{1, 2, 3, 4, 5, 6}

var allDifs = []domain.PlayerDif{
	domain.DifDownBig, domain.DifDown, domain.DifEven, domain.DifUp, domain.DifUpBig,
}

// matchTimeBucket buckets a kickoff hour into {aft, evening, night} per
// §4.2: 9-14 -> aft, 14-19 -> evening, else -> night.
func matchTimeBucket(hour int) string {
	switch {
	case hour >= 9 && hour < 14:
		return "aft"
	case hour >= 14 && hour < 19:
		return "evening"
	default:
		return "night"
	}
}

// stateOneHot keys a match_state one-hot column the way the RAS/RSQ
// encodings need it.
func stateOneHot(s domain.MatchState) string {
	return fmt.Sprintf("match_state=%s", strconv.FormatFloat(float64(s), 'f', -1, 64))
}

func segmentOneHot(seg int) string {
	return fmt.Sprintf("match_segment=%d", seg)
}

func playerDifOneHot(d domain.PlayerDif) string {
	return fmt.Sprintf("player_dif=%s", strconv.FormatFloat(float64(d), 'f', -1, 64))
}

func matchTimeOneHot(hour int) string {
	return fmt.Sprintf("match_time=%s", matchTimeBucket(hour))
}

// threeWayStateOneHot is the RSQ/PSxG encoding restricted to
// {Trailing, Level, Leading}, dummy_na=true (an absent category is
// simply omitted from the row; gbm.Dataset fills the missing one-hot
// column with 0 for every row, which reproduces dummy_na's "all zero"
// representation of a missing/"NaN" category).
func threeWayStateOneHot(s domain.MatchState) string {
	return fmt.Sprintf("match_state=%s", domain.Status(float64(s)))
}

// threeWayDifOneHot buckets player_dif into {Neg, Neu, Pos} for RSQ.
func threeWayDifOneHot(d domain.PlayerDif) string {
	return fmt.Sprintf("player_dif=%s", ThreeWayPlayerDifLabel(d))
}

// ThreeWayPlayerDifLabel buckets player_dif into {Neg, Neu, Pos}.
// Exported so ShotEventSampler's cache-miss RSQ rebuild (§4.5) can build
// rows matching this exact encoding without duplicating the bucketing.
func ThreeWayPlayerDifLabel(d domain.PlayerDif) string {
	switch {
	case d < 0:
		return "Neg"
	case d > 0:
		return "Pos"
	default:
		return "Neu"
	}
}

// RSQFeatureRow builds the RSQ feature row from its five scalar inputs,
// exported for ShotEventSampler's cache-miss rebuild path.
func RSQFeatureRow(totalPlsqa, shooterSq, assisterSq float64, state domain.MatchState, dif domain.PlayerDif) map[string]float64 {
	return map[string]float64{
		"total_plsqa":                       totalPlsqa,
		"shooter_sq":                        shooterSq,
		"assister_sq":                       assisterSq,
		threeWayStateOneHot(state):          1,
		threeWayDifOneHot(dif):              1,
	}
}

// PSxGFeatureRow builds the PSxG feature row from its scalar inputs and
// fixed match context, exported for ShotEventSampler's cache-miss
// rebuild path.
func PSxGFeatureRow(rsq, shooterA, gkA float64, mc MatchContext, isHome bool) map[string]float64 {
	row := map[string]float64{
		"RSQ":           rsq,
		"shooter_A":     shooterA,
		"GK_A":          gkA,
		"temperature_c": mc.TemperatureC,
		"is_raining":    boolFeature(mc.IsRaining),
		matchTimeOneHot(mc.KickoffHour): 1,
	}
	if isHome {
		row["team_is_home"] = 1
		row["team_elevation_dif"] = mc.HomeElevationDif
		row["team_travel"] = 0
		row["team_rest_days"] = float64(mc.HomeRestDays)
	} else {
		row["team_is_home"] = 0
		row["team_elevation_dif"] = mc.AwayElevationDif
		row["team_travel"] = mc.AwayTravelKm
		row["team_rest_days"] = float64(mc.AwayRestDays)
	}
	return row
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
