package discipline

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venomio/vpfm/internal/domain"
)

func TestPerMinuteFoulRateClampsToMinimum(t *testing.T) {
	rate := PerMinuteFoulRate(0, 0, 0, true, domain.Level)
	require.Equal(t, 1e-6, rate)
}

func TestCardProbabilitiesRescaleWhenOverOne(t *testing.T) {
	p := PlayerFoulStats{FoulsCommitted: 1, YellowCards: 1, RedCards: 1}
	ref := domain.RefereeStats{Fouls: 1, YellowCards: 1, RedCards: 1}
	pYC, pRC := CardProbabilities(p, ref)
	require.LessOrEqual(t, pYC+pRC, 1.0+1e-9)
}

func TestChooseFoulerPicksFromWeightedPool(t *testing.T) {
	active := []PlayerFoulStats{
		{PlayerID: "a", MinutesPlayed: 90, FoulsCommitted: 10},
		{PlayerID: "b", MinutesPlayed: 90, FoulsCommitted: 0},
	}
	rng := rand.New(rand.NewSource(1))
	seenA := false
	for i := 0; i < 50; i++ {
		p, ok := ChooseFouler(active, rng)
		require.True(t, ok)
		if p.PlayerID == "a" {
			seenA = true
		}
	}
	require.True(t, seenA)
}

func TestSampleFoulCountNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		n := SampleFoulCount(0.3, rng)
		require.GreaterOrEqual(t, n, 0)
	}
}
