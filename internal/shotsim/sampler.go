package shotsim

import (
	"math/rand"

	"github.com/venomio/vpfm/internal/contextmodel"
	"github.com/venomio/vpfm/internal/domain"
)

// Event is one simulated shot produced by SampleMinute, carrying every
// rating-derived field shots_data persists (§4.5/§6).
type Event struct {
	TeamID     int
	ShooterID  string
	AssisterID *string
	GkID       string
	ShotType   domain.ShotType
	TotalPlsqa float64
	ShooterSq  float64
	AssisterSq float64
	ShooterA   float64
	GkA        float64
	Rsq        float64
	Psxg       float64
	Goal       bool
}

func findByID(players []domain.PlayerRating, id string) domain.PlayerRating {
	for _, p := range players {
		if p.PlayerID == id {
			return p
		}
	}
	return domain.PlayerRating{}
}

// SampleMinute runs §4.5 steps 1-3 for one team in one minute: draws a
// Poisson shot count from the precomputed ctx_mult cell, then samples
// body part, shooter, assister, and goal outcome for each shot.
func SampleMinute(
	cache *PredictionCache,
	active []domain.PlayerRating,
	opposingGK domain.PlayerRating,
	sums TeamRatingSums,
	ctxMult float64,
	mc contextmodel.MatchContext,
	isHome bool,
	teamID int,
	state domain.MatchState,
	dif domain.PlayerDif,
	rng *rand.Rand,
) []Event {
	lambda := ExpectedShots(sums, ctxMult)
	n := SampleShotCount(lambda, rng)
	if n == 0 {
		return nil
	}

	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		body := SampleBodyPart(sums, rng)
		shooterID := SampleShooter(active, body, rng)
		shooter := findByID(active, shooterID)

		assisterID := SampleAssister(active, body, rng)
		var assisterSq float64
		if assisterID != nil {
			assister := findByID(active, *assisterID)
			if body == domain.ShotHead {
				assisterSq = assister.AssisterHeaderShotQuality()
			} else {
				assisterSq = assister.AssisterFooterShotQuality()
			}
		}

		var totalPlsqa, shooterSq, shooterA float64
		if body == domain.ShotHead {
			totalPlsqa = sums.PLHSQA
			shooterSq = shooter.HeaderShotQuality()
			shooterA = shooter.HeaderShooterAbility()
		} else {
			totalPlsqa = sums.PLFSQA
			shooterSq = shooter.FooterShotQuality()
			shooterA = shooter.FooterShooterAbility()
		}
		gkA := opposingGK.GkAbility()

		rsq := cache.RSQ(totalPlsqa, shooterSq, assisterSq, state, dif)
		psxg := cache.PSxG(rsq, shooterA, gkA, mc, isHome)
		goal := rng.Float64() < psxg

		events = append(events, Event{
			TeamID:     teamID,
			ShooterID:  shooterID,
			AssisterID: assisterID,
			GkID:       opposingGK.PlayerID,
			ShotType:   body,
			TotalPlsqa: totalPlsqa,
			ShooterSq:  shooterSq,
			AssisterSq: assisterSq,
			ShooterA:   shooterA,
			GkA:        gkA,
			Rsq:        rsq,
			Psxg:       psxg,
			Goal:       goal,
		})
	}
	return events
}
