package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/store"
	"github.com/venomio/vpfm/internal/vpferrors"
)

// synthetic league where player X is always on offense and scores more
// shots than the rest of the pool (testable property #4): X's lineups
// shoot 6 per segment, while the same teammates without X shoot 2.
func seedRidgeLeague(mem *store.MemoryStore, leagueID int) {
	mem.AddLeague(domain.League{LeagueID: leagueID, Name: "Synthetic", Active: true})
	match := domain.Match{MatchID: 1, LeagueID: leagueID}
	mem.AddMatch(match)

	for i := 0; i < 10; i++ {
		seg := domain.MatchSegment{
			DetailID:      i + 1,
			MatchID:       1,
			TeamBPlayers:  []string{"opp1", "opp2", "opp3"},
			FootersB:      1,
			FxgB:          0.4,
			MinutesPlayed: 15,
		}
		if i%2 == 0 {
			seg.TeamAPlayers = []string{"X", "teammate1", "teammate2"}
			seg.FootersA, seg.FxgA = 6, 3.0
		} else {
			seg.TeamAPlayers = []string{"teammate1", "teammate2", "teammate3"}
			seg.FootersA, seg.FxgA = 2, 1.0
		}
		mem.AddSegment(seg)
	}
}

func TestRidgeSignProperty(t *testing.T) {
	mem := store.NewMemoryStore()
	seedRidgeLeague(mem, 1)

	est := NewEstimator(mem, 1.0)
	coef, err := est.FitLeague(context.Background(), 1, Footers)
	require.NoError(t, err)

	require.Greater(t, coef.OffShot["X"], 0.0)

	avg := (coef.OffShot["teammate1"] + coef.OffShot["teammate2"]) / 2
	require.Greater(t, coef.OffShot["X"], avg)
}

func TestFitLeagueEmptyDesignMatrixIsModelingError(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.AddLeague(domain.League{LeagueID: 2, Name: "Empty", Active: true})

	est := NewEstimator(mem, 1.0)
	_, err := est.FitLeague(context.Background(), 2, Headers)
	require.Error(t, err)
	require.True(t, vpferrors.Is(err, vpferrors.Modeling))
}
