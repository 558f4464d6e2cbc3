package shotsim

import (
	"math/rand"

	"github.com/venomio/vpfm/internal/domain"
)

// weightedChoice samples one index from weights, falling back to
// uniform choice when every weight is zero.
func weightedChoice(weights []float64, rng *rand.Rand) int {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return rng.Intn(len(weights))
	}
	r := rng.Float64() * sum
	var cum float64
	for i, w := range weights {
		cum += w
		if r <= cum {
			return i
		}
	}
	return len(weights) - 1
}

// SampleShooter builds the per-body-part categorical from
// (headers|footers)/minutes_played across active players and draws one
// (§4.5 step 3b).
func SampleShooter(active []domain.PlayerRating, bodyPart domain.ShotType, rng *rand.Rand) string {
	weights := make([]float64, len(active))
	for i, p := range active {
		if p.MinutesPlayed <= 0 {
			continue
		}
		var count int
		if bodyPart == domain.ShotHead {
			count = p.Headers
		} else {
			count = p.Footers
		}
		weights[i] = float64(count) / float64(p.MinutesPlayed)
	}
	return active[weightedChoice(weights, rng)].PlayerID
}

// SampleAssister implements §4.5 step 3c: footed shots include a None
// option weighted by non_assisted_footers/minutes_played; headed shots
// never have a None option. All other active players are weighted by
// key_passes/minutes_played.
func SampleAssister(active []domain.PlayerRating, bodyPart domain.ShotType, rng *rand.Rand) *string {
	n := len(active)
	offset := 0
	size := n
	if bodyPart == domain.ShotFoot {
		offset = 1
		size = n + 1
	}

	weights := make([]float64, size)
	if bodyPart == domain.ShotFoot {
		var noneWeight float64
		var totalMinutes int
		for _, p := range active {
			totalMinutes += p.MinutesPlayed
		}
		if totalMinutes > 0 {
			var totalNonAssisted int
			for _, p := range active {
				totalNonAssisted += p.NonAssistedFooters
			}
			noneWeight = float64(totalNonAssisted) / float64(totalMinutes)
		}
		weights[0] = noneWeight
	}

	for i, p := range active {
		if p.MinutesPlayed <= 0 {
			continue
		}
		weights[offset+i] = float64(p.KeyPasses) / float64(p.MinutesPlayed)
	}

	idx := weightedChoice(weights, rng)
	if bodyPart == domain.ShotFoot && idx == 0 {
		return nil
	}
	playerIdx := idx - offset
	id := active[playerIdx].PlayerID
	return &id
}
