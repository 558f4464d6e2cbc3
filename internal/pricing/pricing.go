// Package pricing adapts the teacher pack's gonum-driven driver-pricing
// model onto player ratings: instead of F1 driver career stats, the raw
// inputs are PlayerRating's per-90 production figures, and the output is
// a market-facing price signal rather than a trading P&L helper. It is
// supplementary to the forecasting core, not one of its components.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/venomio/vpfm/internal/domain"
)

// Component weights (positive = good, negative = penalty), same shape
// and rough magnitude as the teacher's wPPR/wWIN/... table, repointed
// at football production metrics instead of race results.
const (
	wFinish  = 0.22
	wCreate  = 0.16
	wOffense = 0.18
	wDefense = 0.12
	wGk      = 0.10
	wDiscip  = -0.08
	wMinutes = 0.06
	wConsist = 0.05

	biasConst = 0.15
)

// Profile is one player's priced market snapshot: raw per-90 rates, the
// grid z-scores built from them, and the resulting price.
type Profile struct {
	PlayerID string
	Team     int

	FinishRaw, CreateRaw, DisciplineRaw, MinutesRaw float64
	OffenseRaw, DefenseRaw, GkRaw                   float64

	FinishZ, CreateZ, DisciplineZ, MinutesZ float64
	OffenseZ, DefenseZ, GkZ                 float64

	RawScore       float64
	Strength       float64
	ScaledStrength float64
	Price          float64
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func per90(total float64, minutes int) float64 {
	if minutes == 0 {
		return 0
	}
	return total * 90 / float64(minutes)
}

// BuildProfiles derives each player's raw per-90 production rates from
// their PlayerRating, the same "shell before z-scoring" step as the
// teacher's NewDriver.
func BuildProfiles(ratings []domain.PlayerRating) []*Profile {
	out := make([]*Profile, 0, len(ratings))
	for _, r := range ratings {
		p := &Profile{PlayerID: r.PlayerID, Team: r.CurrentTeam}
		p.FinishRaw = per90(r.Hxg+r.Fxg, r.MinutesPlayed)
		p.CreateRaw = per90(float64(r.KeyPasses), r.MinutesPlayed)
		p.OffenseRaw = r.OffShCoef
		p.DefenseRaw = r.DefShCoef
		p.GkRaw = r.GkAbility()
		p.DisciplineRaw = per90(float64(r.FoulsCommitted-r.FoulsDrawn), r.MinutesPlayed)
		p.MinutesRaw = float64(r.MinutesPlayed)
		out = append(out, p)
	}
	return out
}

// zScore standardizes one raw metric across the pool in place, clamped
// to ±3 the way every z-helper in the teacher model is.
func zScore(vals []float64, set func(i int, z float64)) {
	if len(vals) == 0 {
		return
	}
	mu := stat.Mean(vals, nil)
	sd := stat.StdDev(vals, nil)
	for i, v := range vals {
		z := 0.0
		if sd > 0 {
			z = clamp((v-mu)/sd, -3, 3)
		}
		set(i, z)
	}
}

// ComputeZScores standardizes every raw metric across the full player
// pool, mirroring PopulateDriverStats's batch z-score passes.
func ComputeZScores(profiles []*Profile) {
	extract := func(get func(*Profile) float64) []float64 {
		vals := make([]float64, len(profiles))
		for i, p := range profiles {
			vals[i] = get(p)
		}
		return vals
	}

	zScore(extract(func(p *Profile) float64 { return p.FinishRaw }), func(i int, z float64) { profiles[i].FinishZ = z })
	zScore(extract(func(p *Profile) float64 { return p.CreateRaw }), func(i int, z float64) { profiles[i].CreateZ = z })
	zScore(extract(func(p *Profile) float64 { return p.OffenseRaw }), func(i int, z float64) { profiles[i].OffenseZ = z })
	zScore(extract(func(p *Profile) float64 { return p.DefenseRaw }), func(i int, z float64) { profiles[i].DefenseZ = z })
	zScore(extract(func(p *Profile) float64 { return p.GkRaw }), func(i int, z float64) { profiles[i].GkZ = z })
	zScore(extract(func(p *Profile) float64 { return p.DisciplineRaw }), func(i int, z float64) { profiles[i].DisciplineZ = z })
	zScore(extract(func(p *Profile) float64 { return p.MinutesRaw }), func(i int, z float64) { profiles[i].MinutesZ = z })
}

func rawScore(p *Profile) float64 {
	return biasConst +
		wFinish*p.FinishZ + wCreate*p.CreateZ +
		wOffense*p.OffenseZ + wDefense*p.DefenseZ + wGk*p.GkZ +
		wDiscip*p.DisciplineZ + wMinutes*p.MinutesZ
}

func logistic(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// solveBand picks a [pMin, pMax] price band that spends roughly tau of
// cap across roster slots, the same dynamic-band solve the teacher
// model runs for its 50M/2-driver grid, now sized to a squad's wage cap.
func solveBand(profiles []*Profile, cap float64, roster int) (pMin, pMax float64) {
	const (
		tau  = 0.90
		mMin = 0.40
		mMax = 1.35
	)
	if roster <= 0 {
		roster = len(profiles)
	}
	if roster == 0 {
		return 0, 0
	}
	slot := cap / float64(roster)
	target := tau * cap

	strengths := make([]float64, len(profiles))
	for i, p := range profiles {
		strengths[i] = p.Strength
	}
	sMin := floats.Min(strengths)
	sMax := floats.Max(strengths)
	sumS := floats.Sum(strengths)
	n := float64(len(profiles))

	pMin = mMin * slot
	pMax = mMax * slot

	var sumNorm float64
	if sMax > sMin+1e-9 {
		sumNorm = (sumS - n*sMin) / (sMax - sMin)
	}
	spend := n*pMin + (pMax-pMin)*sumNorm

	if spend < target {
		if sMax > sMin+1e-9 {
			b := (pMax - pMin) / (sMax - sMin)
			pMin = (target - b*sumS) / n
			if pMin < mMin*slot {
				pMin = mMin * slot
			}
			pMax = pMin + b*(sMax-sMin)
		} else {
			pMin = target / n
			if pMin < mMin*slot {
				pMin = mMin * slot
			}
			pMax = mMax * slot
		}
	}
	return pMin, pMax
}

// charm rounds to the nearest half-unit ceiling, the teacher's
// psychological-pricing step.
func charm(x float64) float64 { return math.Ceil(x*2) / 2 }

// PriceMarket runs the full pipeline — build, z-score, rawScore,
// logistic strength, band solve, charm round — against one pool of
// players (typically one league or one squad) and returns each
// player's priced Profile. previousPrices lets a price move only part
// way toward the freshly computed base, the same "first run vs.
// re-price" distinction PriceDrivers makes via Price==0.
func PriceMarket(ratings []domain.PlayerRating, cap float64, roster int, previousPrices map[string]float64) []*Profile {
	profiles := BuildProfiles(ratings)
	if len(profiles) == 0 {
		return profiles
	}

	ComputeZScores(profiles)

	scores := make([]float64, len(profiles))
	for i, p := range profiles {
		p.RawScore = rawScore(p)
		p.Strength = logistic(p.RawScore)
		scores[i] = p.Strength
	}

	min := floats.Min(scores)
	max := floats.Max(scores)
	for i, p := range profiles {
		if max > min {
			p.ScaledStrength = (scores[i] - min) / (max - min)
		}
	}

	pMin, pMax := solveBand(profiles, cap, roster)

	for _, p := range profiles {
		base := charm(pMin + (pMax-pMin)*p.ScaledStrength)

		elast := 0.45 + 0.10*math.Max(0, p.DisciplineZ) + 0.10*math.Max(0, -p.MinutesZ)
		elast = clamp(elast, 0, 1)

		prev, hasPrev := previousPrices[p.PlayerID]
		if !hasPrev || prev == 0 {
			p.Price = base
		} else {
			p.Price = prev + elast*(base-prev)
		}
	}

	return profiles
}
