// Package discipline implements DisciplineSampler (C6): per-minute foul
// and card sampling, blending player and referee priors with shrinkage.
package discipline

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/venomio/vpfm/internal/domain"
)

// TeamFactor and StatusFactor are the fixed multipliers from §4.6.
var TeamFactor = map[bool]float64{true: 0.95, false: 1.05} // keyed by is_home

var StatusFactor = map[domain.GoalStatus]float64{
	domain.Leading:  0.88,
	domain.Level:    1.0,
	domain.Trailing: 1.11,
}

// PlayerFoulStats is the subset of PlayerRating the fouler/card draws
// need.
type PlayerFoulStats struct {
	PlayerID       string
	MinutesPlayed  int
	FoulsCommitted int
	FoulsDrawn     int
	YellowCards    int
	RedCards       int
}

func per90(count, minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return float64(count) * 90 / float64(minutes)
}

// teamF90Committed averages per-90 fouls-committed across active players.
func teamF90Committed(active []PlayerFoulStats) float64 {
	if len(active) == 0 {
		return 0
	}
	var sum float64
	for _, p := range active {
		sum += per90(p.FoulsCommitted, p.MinutesPlayed)
	}
	return sum / float64(len(active))
}

// teamF90Drawn averages per-90 fouls-drawn across the opposing roster.
func teamF90Drawn(opponents []PlayerFoulStats) float64 {
	if len(opponents) == 0 {
		return 0
	}
	var sum float64
	for _, p := range opponents {
		sum += per90(p.FoulsDrawn, p.MinutesPlayed)
	}
	return sum / float64(len(opponents))
}

// TeamF90 is the combined team foul rate per §4.6 step 1.
func TeamF90(active, opponents []PlayerFoulStats) float64 {
	return (teamF90Committed(active) + teamF90Drawn(opponents)) / 2
}

// PerMinuteFoulRate implements §4.6 steps 2-3, clamped to >= 1e-6.
func PerMinuteFoulRate(teamF90, oppF90, refFoulsPerMatch float64, isHome bool, status domain.GoalStatus) float64 {
	denom := (teamF90 + oppF90 + refFoulsPerMatch) / 2
	adjust := 1.0
	if denom != 0 {
		adjust = teamF90 / denom
	}
	rate := (teamF90 / 90) * adjust * TeamFactor[isHome] * StatusFactor[status]
	if rate < 1e-6 {
		rate = 1e-6
	}
	return rate
}

// SampleFoulCount draws N ~ Poisson(rate) via gonum/stat/distuv.
func SampleFoulCount(rate float64, rng *rand.Rand) int {
	if rate < 0 {
		rate = 0
	}
	dist := distuv.Poisson{Lambda: rate, Src: rng}
	return int(dist.Rand())
}

// ChooseFouler picks a fouler weighted by fouls_committed/minutes_played.
func ChooseFouler(active []PlayerFoulStats, rng *rand.Rand) (PlayerFoulStats, bool) {
	if len(active) == 0 {
		return PlayerFoulStats{}, false
	}
	weights := make([]float64, len(active))
	var sum float64
	for i, p := range active {
		w := 0.0
		if p.MinutesPlayed > 0 {
			w = float64(p.FoulsCommitted) / float64(p.MinutesPlayed)
		}
		weights[i] = w
		sum += w
	}
	if sum == 0 {
		return active[rng.Intn(len(active))], true
	}
	r := rng.Float64() * sum
	var cum float64
	for i, w := range weights {
		cum += w
		if r <= cum {
			return active[i], true
		}
	}
	return active[len(active)-1], true
}

// CardProbabilities implements §4.6 step 6's shrinkage mix (k=10
// pseudo-fouls), rescaling if p_yc+p_rc exceeds 1.
func CardProbabilities(p PlayerFoulStats, ref domain.RefereeStats) (pYC, pRC float64) {
	const k = 10.0

	refYCPerFoul := safeDiv(ref.YellowCards, ref.Fouls)
	refRCPerFoul := safeDiv(ref.RedCards, ref.Fouls)

	fouls := float64(p.FoulsCommitted)
	pYC = 0.5*((float64(p.YellowCards)+k*refYCPerFoul)/(fouls+k)) + 0.5*refYCPerFoul
	pRC = 0.5*((float64(p.RedCards)+k*refRCPerFoul)/(fouls+k)) + 0.5*refRCPerFoul

	if total := pYC + pRC; total > 1 {
		pYC /= total
		pRC /= total
	}
	return pYC, pRC
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// SampleCard draws {YC, RC, NONE} from the card probabilities.
func SampleCard(pYC, pRC float64, rng *rand.Rand) domain.CardType {
	r := rng.Float64()
	switch {
	case r < pYC:
		return domain.CardYellow
	case r < pYC+pRC:
		return domain.CardRed
	default:
		return domain.CardNone
	}
}
