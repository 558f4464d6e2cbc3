package contextmodel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
	"github.com/venomio/vpfm/internal/store"
)

func seedRASLeague(mem *store.MemoryStore) {
	mem.AddLeague(domain.League{LeagueID: 1, Name: "L", Active: true})
	kickoff := time.Date(2026, 5, 1, 16, 0, 0, 0, time.UTC)
	mem.AddMatch(domain.Match{
		MatchID: 1, LeagueID: 1, HomeTeamID: 1, AwayTeamID: 2, Kickoff: kickoff,
		HomeElevationDif: 100, AwayElevationDif: -100, AwayTravelKm: 500,
		HomeRestDays: 5, AwayRestDays: 3, TemperatureC: 18, IsRaining: false,
	})
	for i := 0; i < 8; i++ {
		mem.AddSegment(domain.MatchSegment{
			DetailID: i + 1, MatchID: 1,
			HeadersA: 1, FootersA: 5, HeadersB: 0, FootersB: 2,
			MinutesPlayed: 15, MatchState: domain.StateLevel, MatchSegment: (i % 6) + 1,
			PlayerDif: domain.DifEven, PdrasA: 0.4, PdrasB: 0.15,
		})
	}
}

func TestBuildCtxMultTableCoversFullGrid(t *testing.T) {
	mem := store.NewMemoryStore()
	seedRASLeague(mem)

	params := gbm.Params{Rounds: 5, MaxDepth: 2, Eta: 0.3, Subsample: 1, ColSample: 1, Lambda: 1, MinChildWeight: 0, Seed: 3}
	ras, err := TrainRAS(context.Background(), mem, params)
	require.NoError(t, err)

	mc := MatchContext{HomeElevationDif: 100, AwayElevationDif: -100, AwayTravelKm: 500, HomeRestDays: 5, AwayRestDays: 3, TemperatureC: 18, KickoffHour: 16}
	table := BuildCtxMultTable(ras, mc)

	require.Len(t, table, 5*6*5*2)
	for _, v := range table {
		require.Greater(t, v, 0.0)
	}
}

func TestMatchTimeBucket(t *testing.T) {
	require.Equal(t, "aft", matchTimeBucket(10))
	require.Equal(t, "evening", matchTimeBucket(15))
	require.Equal(t, "night", matchTimeBucket(21))
	require.Equal(t, "night", matchTimeBucket(3))
}
