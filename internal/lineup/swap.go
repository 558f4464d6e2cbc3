package lineup

import (
	"math/rand"

	"github.com/venomio/vpfm/internal/domain"
)

// PlayerMinutes supplies the per-player inputs the out/in weight
// formulas need.
type PlayerMinutes struct {
	PlayerID      string
	MinutesPlayed int
	InStatus      domain.StatusCounts
	OutStatus     domain.StatusCounts
}

// outWeights computes the unnormalized out-weight for each active
// player: (1 - minutes_played/sum_active) * out_status_prob[status].
func outWeights(active []PlayerMinutes, status domain.GoalStatus) []float64 {
	var sum int
	for _, p := range active {
		sum += p.MinutesPlayed
	}
	weights := make([]float64, len(active))
	for i, p := range active {
		frac := 0.0
		if sum > 0 {
			frac = 1 - float64(p.MinutesPlayed)/float64(sum)
		}
		prob := p.OutStatus.Prob()[status]
		weights[i] = frac * prob
	}
	return weights
}

// inWeights computes the unnormalized in-weight for each passive
// player: (minutes_played/sum_passive) * in_status_prob[status].
func inWeights(passive []PlayerMinutes, status domain.GoalStatus) []float64 {
	var sum int
	for _, p := range passive {
		sum += p.MinutesPlayed
	}
	weights := make([]float64, len(passive))
	for i, p := range passive {
		frac := 0.0
		if sum > 0 {
			frac = float64(p.MinutesPlayed) / float64(sum)
		}
		prob := p.InStatus.Prob()[status]
		weights[i] = frac * prob
	}
	return weights
}

// normalize applies §4.4's weight-vector rules: normalize to sum 1; if
// all-zero, use uniform; if a single weight is 1.0 and s>1, collapse it
// to 0.99 and spread 0.01 uniformly among the rest.
func normalize(weights []float64, s int) []float64 {
	n := len(weights)
	if n == 0 {
		return weights
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}

	out := make([]float64, n)
	if sum == 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}

	for i, w := range weights {
		out[i] = w / sum
	}

	if n > 1 && s > 1 {
		for i, w := range out {
			if w == 1.0 {
				out[i] = 0.99
				share := 0.01 / float64(n-1)
				for j := range out {
					if j != i {
						out[j] = share
					}
				}
				break
			}
		}
	}
	return out
}

// sampleWithoutReplacement draws k distinct indices from weights using
// weighted sampling without replacement: draw one, zero its weight,
// renormalize, repeat.
func sampleWithoutReplacement(weights []float64, k int, rng *rand.Rand) []int {
	n := len(weights)
	if k > n {
		k = n
	}
	remaining := append([]float64(nil), weights...)
	chosen := make([]int, 0, k)
	taken := make(map[int]bool, k)

	for len(chosen) < k {
		var sum float64
		for i, w := range remaining {
			if taken[i] {
				continue
			}
			sum += w
		}
		if sum == 0 {
			for i := 0; i < n && len(chosen) < k; i++ {
				if !taken[i] {
					taken[i] = true
					chosen = append(chosen, i)
				}
			}
			break
		}

		r := rng.Float64() * sum
		var cum float64
		for i, w := range remaining {
			if taken[i] {
				continue
			}
			cum += w
			if r <= cum {
				taken[i] = true
				chosen = append(chosen, i)
				break
			}
		}
	}
	return chosen
}

// PlanSwap selects the s out-players and s in-players for one
// substitution event at game status `status` (§4.4).
func PlanSwap(active, passive []PlayerMinutes, status domain.GoalStatus, s int, rng *rand.Rand) (outIDs, inIDs []string) {
	if s <= 0 || len(active) == 0 || len(passive) == 0 {
		return nil, nil
	}
	if s > len(active) {
		s = len(active)
	}
	if s > len(passive) {
		s = len(passive)
	}

	outW := normalize(outWeights(active, status), s)
	inW := normalize(inWeights(passive, status), s)

	outIdx := sampleWithoutReplacement(outW, s, rng)
	inIdx := sampleWithoutReplacement(inW, s, rng)

	for _, i := range outIdx {
		outIDs = append(outIDs, active[i].PlayerID)
	}
	for _, i := range inIdx {
		inIDs = append(inIDs, passive[i].PlayerID)
	}
	return outIDs, inIDs
}
