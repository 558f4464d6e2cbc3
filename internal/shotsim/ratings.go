// Package shotsim implements ShotEventSampler (C5): per-minute shot
// count, body part, shooter, assister, and outcome sampling driven by
// the precomputed ctx_mult table and the RSQ/PSxG booster caches.
package shotsim

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/venomio/vpfm/internal/domain"
)

// TeamRatingSums are the five team-level aggregates §4.5 recomputes
// only when the active roster or context bucket changes.
type TeamRatingSums struct {
	RAS    float64 // combined shots/minute coefficient
	RAHS   float64 // headers rate coefficient
	RAFS   float64 // footers rate coefficient
	PLHSQA float64 // header shot-quality adjustment
	PLFSQA float64 // footer shot-quality adjustment
}

// ComputeTeamRatingSums aggregates the attacking side's offensive
// coefficients against the defending side's defensive coefficients, per
// §4.1's "team-rate = ΣoffA − ΣdefB".
func ComputeTeamRatingSums(attackers, defenders []domain.PlayerRating) TeamRatingSums {
	var offSh, offH, offF, offHxg, offFxg float64
	for _, p := range attackers {
		offSh += p.OffShCoef
		offH += p.OffHeadersCoef
		offF += p.OffFootersCoef
		offHxg += p.OffHxgCoef
		offFxg += p.OffFxgCoef
	}
	var defSh, defH, defF, defHxg, defFxg float64
	for _, p := range defenders {
		defSh += p.DefShCoef
		defH += p.DefHeadersCoef
		defF += p.DefFootersCoef
		defHxg += p.DefHxgCoef
		defFxg += p.DefFxgCoef
	}
	return TeamRatingSums{
		RAS:    offSh - defSh,
		RAHS:   offH - defH,
		RAFS:   offF - defF,
		PLHSQA: offHxg - defHxg,
		PLFSQA: offFxg - defFxg,
	}
}

// ExpectedShots is step 2 of §4.5: max(0, team_RAS) * ctx_mult.
func ExpectedShots(sums TeamRatingSums, ctxMult float64) float64 {
	ras := sums.RAS
	if ras < 0 {
		ras = 0
	}
	return ras * ctxMult
}

// SampleShotCount draws N ~ Poisson(lambda).
func SampleShotCount(lambda float64, rng *rand.Rand) int {
	if lambda < 0 {
		lambda = 0
	}
	dist := distuv.Poisson{Lambda: lambda, Src: rng}
	return int(dist.Rand())
}

// SampleBodyPart implements §4.5 step 3a.
func SampleBodyPart(sums TeamRatingSums, rng *rand.Rand) domain.ShotType {
	h := sums.RAHS
	if h < 0 {
		h = 0
	}
	f := sums.RAFS
	if f < 0 {
		f = 0
	}

	total := h + f
	pHead := 0.5
	if total > 0 {
		pHead = h / total
	}

	if rng.Float64() < pHead {
		return domain.ShotHead
	}
	return domain.ShotFoot
}
