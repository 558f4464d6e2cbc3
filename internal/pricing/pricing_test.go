package pricing

import (
	"math"
	"testing"

	"github.com/venomio/vpfm/internal/domain"
)

func samplePool() []domain.PlayerRating {
	return []domain.PlayerRating{
		{PlayerID: "star", MinutesPlayed: 900, Hxg: 3, Fxg: 8, KeyPasses: 20, OffShCoef: 4, DefShCoef: 1, FoulsCommitted: 5, FoulsDrawn: 10},
		{PlayerID: "average", MinutesPlayed: 900, Hxg: 1, Fxg: 2, KeyPasses: 8, OffShCoef: 1, DefShCoef: 1, FoulsCommitted: 10, FoulsDrawn: 8},
		{PlayerID: "fringe", MinutesPlayed: 180, Hxg: 0.2, Fxg: 0.3, KeyPasses: 1, OffShCoef: 0.1, DefShCoef: 0.5, FoulsCommitted: 4, FoulsDrawn: 1},
	}
}

func TestBuildProfilesComputesPer90Rates(t *testing.T) {
	profiles := BuildProfiles(samplePool())
	star := profiles[0]
	if star.FinishRaw <= 0 {
		t.Fatalf("expected a positive finishing rate, got %v", star.FinishRaw)
	}
	if star.CreateRaw <= 0 {
		t.Fatalf("expected a positive creativity rate, got %v", star.CreateRaw)
	}
}

func TestComputeZScoresAreClampedAndCentered(t *testing.T) {
	profiles := BuildProfiles(samplePool())
	ComputeZScores(profiles)
	var sum float64
	for _, p := range profiles {
		if p.FinishZ < -3 || p.FinishZ > 3 {
			t.Fatalf("FinishZ out of clamp range: %v", p.FinishZ)
		}
		sum += p.FinishZ
	}
	if math.Abs(sum) > 1e-9 {
		t.Fatalf("FinishZ not centered: sum = %v", sum)
	}
}

func TestPriceMarketRanksStrongerPlayerHigher(t *testing.T) {
	profiles := PriceMarket(samplePool(), 100, 3, nil)

	byID := map[string]*Profile{}
	for _, p := range profiles {
		byID[p.PlayerID] = p
	}

	if byID["star"].Price <= byID["average"].Price {
		t.Fatalf("expected star price (%v) > average price (%v)", byID["star"].Price, byID["average"].Price)
	}
	if byID["average"].Price <= byID["fringe"].Price {
		t.Fatalf("expected average price (%v) > fringe price (%v)", byID["average"].Price, byID["fringe"].Price)
	}
}

func TestPriceMarketMovesPartwayFromPreviousPrice(t *testing.T) {
	pool := samplePool()
	prev := map[string]float64{"star": 10, "average": 10, "fringe": 10}

	profiles := PriceMarket(pool, 100, 3, prev)
	for _, p := range profiles {
		if p.Price == 10 && p.ScaledStrength != 0 {
			t.Fatalf("expected %s's price to move away from its previous value, got unchanged 10", p.PlayerID)
		}
	}
}

func TestPriceMarketEmptyPoolReturnsEmpty(t *testing.T) {
	if got := PriceMarket(nil, 100, 3, nil); len(got) != 0 {
		t.Fatalf("expected no profiles for an empty pool, got %d", len(got))
	}
}
