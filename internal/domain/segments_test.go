package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentBoundariesContiguousAndSorted(t *testing.T) {
	goals := []int{23, 67}
	reds := []int{80}
	subs := []int{46, 70}

	boundaries := SegmentBoundaries(90, goals, reds, subs)

	expected := []int{0, 15, 23, 30, 45, 46, 60, 67, 70, 75, 80, 90}
	assert.Equal(t, expected, boundaries)

	windows := BuildSegmentWindows(boundaries)
	require.NotEmpty(t, windows)
	for i, w := range windows {
		assert.Less(t, w.Start, w.End)
		if i > 0 {
			assert.Equal(t, windows[i-1].End, w.Start, "windows must be contiguous")
		}
	}
	assert.Equal(t, boundaries[0], windows[0].Start)
	assert.Equal(t, boundaries[len(boundaries)-1], windows[len(windows)-1].End)
}

func TestSegmentBoundariesDedup(t *testing.T) {
	boundaries := SegmentBoundaries(90, []int{15, 30}, nil, nil)
	assert.Equal(t, []int{0, 15, 30, 45, 60, 75, 90}, boundaries)
}

func TestMatchSegmentCapsAtSix(t *testing.T) {
	windows := BuildSegmentWindows([]int{80, 90})
	require.Len(t, windows, 1)
	assert.Equal(t, 6, windows[0].MatchSegment)
}

func TestGoalDiffToState(t *testing.T) {
	seq := []int{0, 1, 2, 3, 2, 1, 0, -1, -2}
	want := []MatchState{
		StateLevel, StateLeading, StateLeadingBig, StateLeadingBig, StateLeadingBig,
		StateLeading, StateLevel, StateTrailing, StateTrailingBig,
	}
	for i, diff := range seq {
		assert.Equal(t, want[i], GoalDiffToState(diff), "diff=%d", diff)
	}
}

func TestStatusBuckets(t *testing.T) {
	assert.Equal(t, Leading, Status(1.5))
	assert.Equal(t, Trailing, Status(-1))
	assert.Equal(t, Level, Status(0))
}

func TestGkAbilityClampsOnZeroDenominator(t *testing.T) {
	p := PlayerRating{GkGa: 2, GkPsxg: 0}
	assert.Equal(t, 0.0, p.GkAbility())

	p2 := PlayerRating{GkGa: 1, GkPsxg: 4}
	assert.Equal(t, 0.75, p2.GkAbility())
}

func TestShotQualityIsPerShotNotAbilityRatio(t *testing.T) {
	p := PlayerRating{Headers: 10, Footers: 20, Hxg: 2, Fxg: 6, KeyPasses: 5, KpHxg: 1, KpFxg: 2.5}
	assert.Equal(t, 0.2, p.HeaderShotQuality())
	assert.Equal(t, 0.3, p.FooterShotQuality())
	assert.Equal(t, 0.2, p.AssisterHeaderShotQuality())
	assert.Equal(t, 0.5, p.AssisterFooterShotQuality())
}

func TestRefereeStatsPerMatchDividesByMatchesPlayed(t *testing.T) {
	r := RefereeStats{Fouls: 53, YellowCards: 7.6, RedCards: 0.28, MatchesPlayed: 2}
	pm := r.PerMatch()
	assert.Equal(t, 26.5, pm.Fouls)
	assert.Equal(t, 3.8, pm.YellowCards)
	assert.Equal(t, 0.14, pm.RedCards)

	zero := RefereeStats{Fouls: 10, MatchesPlayed: 0}
	assert.Equal(t, 10.0, zero.PerMatch().Fouls)
}
