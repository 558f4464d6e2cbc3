package contextmodel

import (
	"context"
	"fmt"
	"math"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
	"github.com/venomio/vpfm/internal/store"
)

// MatchContext is the fixed-per-fixture numeric context RAS/PSxG feature
// rows and the ctx_mult precomputation both draw from.
type MatchContext struct {
	HomeElevationDif float64
	AwayElevationDif float64
	AwayTravelKm     float64
	HomeRestDays     int
	AwayRestDays     int
	TemperatureC     float64
	IsRaining        bool
	KickoffHour      int
}

// rasFeatureRow builds one RAS training/prediction row from a fixed
// match context plus the live (state, segment, player_dif, is_home)
// bucket, with elevation/travel/rest swapped for the away perspective
// per §4.2's "two training rows ... with signs flipped".
func rasFeatureRow(mc MatchContext, isHome bool, state domain.MatchState, segment int, dif domain.PlayerDif) map[string]float64 {
	row := map[string]float64{
		"is_raining":        boolFeature(mc.IsRaining),
		"temperature_c":     mc.TemperatureC,
		stateOneHot(state):  1,
		segmentOneHot(segment): 1,
		playerDifOneHot(dif):   1,
		matchTimeOneHot(mc.KickoffHour): 1,
	}

	if isHome {
		row["team_is_home"] = 1
		row["elevation_dif_team"] = mc.HomeElevationDif
		row["elevation_dif_opp"] = mc.AwayElevationDif
		row["travel_team"] = 0
		row["travel_opp"] = mc.AwayTravelKm
		row["rest_team"] = float64(mc.HomeRestDays)
		row["rest_opp"] = float64(mc.AwayRestDays)
	} else {
		row["team_is_home"] = 0
		row["elevation_dif_team"] = mc.AwayElevationDif
		row["elevation_dif_opp"] = mc.HomeElevationDif
		row["travel_team"] = mc.AwayTravelKm
		row["travel_opp"] = 0
		row["rest_team"] = float64(mc.AwayRestDays)
		row["rest_opp"] = float64(mc.HomeRestDays)
	}
	return row
}

// matchContextFrom extracts a MatchContext from a domain.Match.
func matchContextFrom(m domain.Match) MatchContext {
	return MatchContext{
		HomeElevationDif: m.HomeElevationDif,
		AwayElevationDif: m.AwayElevationDif,
		AwayTravelKm:     m.AwayTravelKm,
		HomeRestDays:     m.HomeRestDays,
		AwayRestDays:     m.AwayRestDays,
		TemperatureC:     m.TemperatureC,
		IsRaining:        m.IsRaining,
		KickoffHour:      m.Kickoff.Hour(),
	}
}

// flipState/flipDif mirror a bucket to the opposing team's perspective
// (the away row of a segment sees the negated state/player_dif).
func flipState(s domain.MatchState) domain.MatchState { return -s }
func flipDif(d domain.PlayerDif) domain.PlayerDif      { return -d }

// BuildRASTrainingSet gathers the two-rows-per-segment RAS training data
// (§4.2) for every active league in the store.
func BuildRASTrainingSet(ctx context.Context, s store.Store) ([]map[string]float64, []float64, []float64, error) {
	leagues, err := s.ActiveLeagues(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("active leagues: %w", err)
	}

	var rows []map[string]float64
	var targets []float64
	var baseMargins []float64

	for _, l := range leagues {
		segs, err := s.SegmentsByLeague(ctx, l.LeagueID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("segments by league %d: %w", l.LeagueID, err)
		}
		matchCache := map[int]domain.Match{}

		for _, seg := range segs {
			if seg.MinutesPlayed <= 0 {
				continue
			}
			m, ok := matchCache[seg.MatchID]
			if !ok {
				m, err = s.MatchByID(ctx, seg.MatchID)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("match by id %d: %w", seg.MatchID, err)
				}
				matchCache[seg.MatchID] = m
			}
			mc := matchContextFrom(m)
			minutes := float64(seg.MinutesPlayed)

			homeRow := rasFeatureRow(mc, true, seg.MatchState, seg.MatchSegment, seg.PlayerDif)
			homeTarget := float64(seg.HeadersA+seg.FootersA) / minutes
			homeBase := math.Log(math.Max(seg.PdrasA, 1e-6))
			rows = append(rows, homeRow)
			targets = append(targets, homeTarget)
			baseMargins = append(baseMargins, homeBase)

			awayRow := rasFeatureRow(mc, false, flipState(seg.MatchState), seg.MatchSegment, flipDif(seg.PlayerDif))
			awayTarget := float64(seg.HeadersB+seg.FootersB) / minutes
			awayBase := math.Log(math.Max(seg.PdrasB, 1e-6))
			rows = append(rows, awayRow)
			targets = append(targets, awayTarget)
			baseMargins = append(baseMargins, awayBase)
		}
	}

	return rows, targets, baseMargins, nil
}

// TrainRAS fits the RAS booster (count:poisson, log-offset base margin).
func TrainRAS(ctx context.Context, s store.Store, params gbm.Params) (*gbm.Booster, error) {
	rows, targets, baseMargins, err := BuildRASTrainingSet(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("RAS training set is empty")
	}
	columns := gbm.CollectColumns(rows)
	ds := gbm.NewDataset(rows, columns)
	return gbm.Train(ds, targets, baseMargins, gbm.PoissonObjective{}, params), nil
}
