package lineup

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venomio/vpfm/internal/domain"
)

func TestSubDistributionProperty(t *testing.T) {
	effective := EffectiveSubs(3, 5)
	require.Equal(t, 3, effective)

	k := WindowCount(effective)
	require.Equal(t, 2, k)

	perWindow := DistributeEvenly(effective, k)
	require.Equal(t, []int{2, 1}, perWindow)
}

func TestTopSubMinutesOrdersByFrequencyThenMinute(t *testing.T) {
	history := map[int]int{60: 3, 70: 3, 80: 1, 10: 5}
	out := TopSubMinutes(history, 0, 2)
	require.Equal(t, []int{10, 60}, out)
}

func TestTopSubMinutesExcludesPastMinutes(t *testing.T) {
	history := map[int]int{10: 5, 70: 3}
	out := TopSubMinutes(history, 50, 2)
	require.Equal(t, []int{70}, out)
}

func TestRosterRedCardRemoval(t *testing.T) {
	r := &Roster{TeamID: 1, Active: []string{"a", "b", "c"}}
	r.RemoveActive("b")
	require.Equal(t, []string{"a", "c"}, r.Active)
}

func TestRosterSubMovesPlayers(t *testing.T) {
	r := &Roster{Active: []string{"a"}, Passive: []string{"b"}}
	r.MoveToPassive("a")
	r.MoveToActive("b")
	require.Equal(t, []string{"b"}, r.Active)
	require.Equal(t, []string{"a"}, r.Passive)
}

func TestPlanSwapSamplesDistinctPlayers(t *testing.T) {
	active := []PlayerMinutes{
		{PlayerID: "a1", MinutesPlayed: 80, OutStatus: domain.StatusCounts{Level: 10}},
		{PlayerID: "a2", MinutesPlayed: 10, OutStatus: domain.StatusCounts{Level: 10}},
		{PlayerID: "a3", MinutesPlayed: 40, OutStatus: domain.StatusCounts{Level: 10}},
	}
	passive := []PlayerMinutes{
		{PlayerID: "p1", MinutesPlayed: 5, InStatus: domain.StatusCounts{Level: 10}},
		{PlayerID: "p2", MinutesPlayed: 50, InStatus: domain.StatusCounts{Level: 10}},
	}

	rng := rand.New(rand.NewSource(1))
	out, in := PlanSwap(active, passive, domain.Level, 2, rng)

	require.Len(t, out, 2)
	require.Len(t, in, 2)
	require.NotEqual(t, out[0], out[1])
	require.NotEqual(t, in[0], in[1])
}

func TestNormalizeCollapsesSingleWeightOne(t *testing.T) {
	weights := []float64{1.0, 0.0, 0.0}
	out := normalize(weights, 2)
	require.InDelta(t, 0.99, out[0], 1e-9)
	require.InDelta(t, 0.005, out[1], 1e-9)
	require.InDelta(t, 0.005, out[2], 1e-9)
}

func TestNormalizeAllZeroFallsBackToUniform(t *testing.T) {
	out := normalize([]float64{0, 0, 0}, 1)
	for _, w := range out {
		require.InDelta(t, 1.0/3, w, 1e-9)
	}
}
