package contextmodel

import (
	"context"
	"fmt"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
	"github.com/venomio/vpfm/internal/store"
)

// rsqFeatureRow builds the RSQ row from a shot: numeric
// total_plsqa/shooter_sq/assister_sq, categorical match_state (3-way)
// and player_dif (3-way), both dummy_na.
func rsqFeatureRow(sh domain.Shot) map[string]float64 {
	return RSQFeatureRow(sh.TotalPlsqa, sh.ShooterSq, sh.AssisterSq, sh.MatchState, sh.PlayerDif)
}

// BuildRSQTrainingSet gathers every recorded shot across active leagues.
func BuildRSQTrainingSet(ctx context.Context, s store.Store) ([]map[string]float64, []float64, error) {
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
		for _, sh := range shots {
			rows = append(rows, rsqFeatureRow(sh))
			targets = append(targets, sh.Xg)
		}
	}
	return rows, targets, nil
}

// TrainRSQ fits the RSQ booster (reg:squarederror).
func TrainRSQ(ctx context.Context, s store.Store, params gbm.Params) (*gbm.Booster, error) {
	rows, targets, err := BuildRSQTrainingSet(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("RSQ training set is empty")
	}
	columns := gbm.CollectColumns(rows)
	ds := gbm.NewDataset(rows, columns)
	baseMargins := make([]float64, len(rows))
	return gbm.Train(ds, targets, baseMargins, gbm.SquaredErrorObjective{}, params), nil
}
