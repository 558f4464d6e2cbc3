package contextmodel

import (
	"context"
	"fmt"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
	"github.com/venomio/vpfm/internal/store"
)

// psxgFeatureRow builds the PSxG row from a shot plus its match's fixed
// context: numeric RSQ/shooter_A/GK_A/elevation/travel/rest/temperature,
// boolean team_is_home/is_raining, categorical match_time.
func psxgFeatureRow(sh domain.Shot, m domain.Match) map[string]float64 {
	isHome := sh.TeamID == m.HomeTeamID
	return PSxGFeatureRow(sh.Rsq, sh.ShooterA, sh.GkA, matchContextFrom(m), isHome)
}

// BuildPSxGTrainingSet gathers every shot with its match context.
func BuildPSxGTrainingSet(ctx context.Context, s store.Store) ([]map[string]float64, []float64, error) {
	leagues, err := s.ActiveLeagues(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("active leagues: %w", err)
	}

	var rows []map[string]float64
	var targets []float64
	for _, l := range leagues {
		shots, err := s.ShotsByLeague(ctx, l.LeagueID)
		if err != nil {
			return nil, nil, fmt.Errorf("shots by league %d: %w", l.LeagueID, err)
		}
		matchCache := map[int]domain.Match{}
		for _, sh := range shots {
			m, ok := matchCache[sh.MatchID]
			if !ok {
				m, err = s.MatchByID(ctx, sh.MatchID)
				if err != nil {
					return nil, nil, fmt.Errorf("match by id %d: %w", sh.MatchID, err)
				}
				matchCache[sh.MatchID] = m
			}
			rows = append(rows, psxgFeatureRow(sh, m))
			targets = append(targets, float64(sh.Outcome))
		}
	}
	return rows, targets, nil
}

// TrainPSxG fits the PSxG booster (binary:logistic).
func TrainPSxG(ctx context.Context, s store.Store, params gbm.Params) (*gbm.Booster, error) {
	rows, targets, err := BuildPSxGTrainingSet(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("PSxG training set is empty")
	}
	columns := gbm.CollectColumns(rows)
	ds := gbm.NewDataset(rows, columns)
	baseMargins := make([]float64, len(rows))
	return gbm.Train(ds, targets, baseMargins, gbm.LogisticObjective{}, params), nil
}
