package simulate

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/venomio/vpfm/internal/contextmodel"
	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/gbm"
	"github.com/venomio/vpfm/internal/lineup"
	"github.com/venomio/vpfm/internal/shotsim"
)

func TestNSimsLadder(t *testing.T) {
	cases := []struct {
		minute int
		want   int
	}{
		{0, 20000},
		{30, 8000},
		{44, 8000},
		{60, 2000},
		{90, 2000},
	}
	for _, c := range cases {
		if got := NSims(c.minute); got != c.want {
			t.Fatalf("NSims(%d) = %d, want %d", c.minute, got, c.want)
		}
	}
}

func tinyBooster(obj gbm.Objective) *gbm.Booster {
	rows := []map[string]float64{{"x": 0}, {"x": 1}}
	y := []float64{0, 1}
	columns := gbm.CollectColumns(rows)
	ds := gbm.NewDataset(rows, columns)
	base := make([]float64, len(rows))
	params := gbm.Params{Rounds: 2, MaxDepth: 2, Eta: 0.3, Subsample: 1, ColSample: 1, Lambda: 1, Seed: 11}
	return gbm.Train(ds, y, base, obj, params)
}

func testFixture(offA, offB float64) Fixture {
	starterA := domain.PlayerRating{PlayerID: "A1", CurrentTeam: 1, MinutesPlayed: 90, Footers: 5, KeyPasses: 2, NonAssistedFooters: 3, OffShCoef: offA, OffFootersCoef: offA, FoulsCommitted: 1}
	starterB := domain.PlayerRating{PlayerID: "B1", CurrentTeam: 2, MinutesPlayed: 90, Footers: 5, KeyPasses: 2, NonAssistedFooters: 3, OffShCoef: offB, OffFootersCoef: offB, FoulsCommitted: 1}
	benchA := domain.PlayerRating{PlayerID: "A2", CurrentTeam: 1, MinutesPlayed: 45}
	benchB := domain.PlayerRating{PlayerID: "B2", CurrentTeam: 2, MinutesPlayed: 45}
	gkA := domain.PlayerRating{PlayerID: "GKA", CurrentTeam: 1, GkPsxg: 1, GkGa: 0.3}
	gkB := domain.PlayerRating{PlayerID: "GKB", CurrentTeam: 2, GkPsxg: 1, GkGa: 0.3}

	return Fixture{
		ScheduleID:  1,
		Context:     contextmodel.MatchContext{},
		StartMinute: 88,
		Referee:     domain.DefaultRefereeStats,
		Home: TeamFixtureState{
			TeamID:   1,
			GK:       gkA,
			Starters: []domain.PlayerRating{starterA},
			Bench:    []domain.PlayerRating{benchA},
		},
		Away: TeamFixtureState{
			TeamID:   2,
			GK:       gkB,
			Starters: []domain.PlayerRating{starterB},
			Bench:    []domain.PlayerRating{benchB},
		},
	}
}

func testCache() *shotsim.PredictionCache {
	ras := tinyBooster(gbm.PoissonObjective{})
	rsq := tinyBooster(gbm.SquaredErrorObjective{})
	psxg := tinyBooster(gbm.LogisticObjective{})
	return shotsim.NewPredictionCache(ras, rsq, psxg)
}

func TestRunSimulationIsDeterministicForAFixedSeed(t *testing.T) {
	f := testFixture(2, 1)
	cache := testCache()
	ctxTable := contextmodel.BuildCtxMultTable(tinyBooster(gbm.PoissonObjective{}), f.Context)

	r1 := runSimulation(f, cache, ctxTable, rand.New(rand.NewSource(42)))
	r2 := runSimulation(f, cache, ctxTable, rand.New(rand.NewSource(42)))

	if !reflect.DeepEqual(r1, r2) {
		t.Fatalf("expected identical results from the same seed:\n%+v\n%+v", r1, r2)
	}
}

func TestRemoveActivePlayerStopsGeneratingEvents(t *testing.T) {
	f := testFixture(2, 1)
	home := newTeamSimState(f.Home, 0)

	home.roster.RemoveActive("A1")
	for _, p := range home.active() {
		if p.PlayerID == "A1" {
			t.Fatalf("A1 still appears in the active roster after removal")
		}
	}

	cache := testCache()
	ctxTable := contextmodel.BuildCtxMultTable(tinyBooster(gbm.PoissonObjective{}), f.Context)
	away := newTeamSimState(f.Away, 0)
	var result simResult
	simulateTeamMinute(&result, f, cache, ctxTable, home, away, true, domain.StateLevel, domain.DifEven, 1, 89, rand.New(rand.NewSource(1)))
	for _, s := range result.Shots {
		if s.ShooterID == "A1" {
			t.Fatalf("removed player A1 produced a shot event: %+v", s)
		}
	}
}

func TestAwayPerspectiveFlipsStateAndDif(t *testing.T) {
	home := domain.GoalDiffToState(2)
	away := domain.GoalDiffToState(-2)
	if -home != away {
		t.Fatalf("home/away state flip mismatch: home=%v away=%v", home, away)
	}

	homeDif := domain.RedCardDiffToPlayerDif(0, 1)
	awayDif := domain.RedCardDiffToPlayerDif(1, 0)
	if -homeDif != awayDif {
		t.Fatalf("home/away player_dif flip mismatch: home=%v away=%v", homeDif, awayDif)
	}
}

// TestStrongerAttackScoresMoreOnAverage exercises SampleMinute directly
// (runSimulation's per-minute building block) across many draws: the
// team with the larger off_sh_coef should out-score the other on
// average, holding everything else equal.
func TestStrongerAttackScoresMoreOnAverage(t *testing.T) {
	cache := testCache()
	ctxTable := contextmodel.BuildCtxMultTable(tinyBooster(gbm.PoissonObjective{}), contextmodel.MatchContext{})
	ctxMult, err := shotsim.CtxMultFromTable(ctxTable, true, domain.StateLevel, 1, domain.DifEven)
	if err != nil {
		t.Fatalf("ctx_mult lookup: %v", err)
	}

	strong := []domain.PlayerRating{{PlayerID: "S", MinutesPlayed: 90, Footers: 10, OffShCoef: 5, OffFootersCoef: 5}}
	weak := []domain.PlayerRating{{PlayerID: "W", MinutesPlayed: 90, Footers: 10, OffShCoef: 0.2, OffFootersCoef: 0.2}}
	gk := domain.PlayerRating{PlayerID: "GK", GkPsxg: 1, GkGa: 0.3}

	rng := rand.New(rand.NewSource(7))
	var strongGoals, weakGoals int
	for i := 0; i < 2000; i++ {
		sumsStrong := shotsim.ComputeTeamRatingSums(strong, weak)
		for _, e := range shotsim.SampleMinute(cache, strong, gk, sumsStrong, ctxMult, contextmodel.MatchContext{}, true, 1, domain.StateLevel, domain.DifEven, rng) {
			if e.Goal {
				strongGoals++
			}
		}
		sumsWeak := shotsim.ComputeTeamRatingSums(weak, strong)
		for _, e := range shotsim.SampleMinute(cache, weak, gk, sumsWeak, ctxMult, contextmodel.MatchContext{}, false, 2, domain.StateLevel, domain.DifEven, rng) {
			if e.Goal {
				weakGoals++
			}
		}
	}

	if strongGoals <= weakGoals {
		t.Fatalf("expected the higher-rated attack to score more on average, got strong=%d weak=%d", strongGoals, weakGoals)
	}
}

func TestApplySubWindowMovesPlayersBetweenActiveAndPassive(t *testing.T) {
	f := testFixture(1, 1)
	home := newTeamSimState(f.Home, 0)
	away := newTeamSimState(f.Away, 0)
	home.subPlan = lineup.SubPlan{Windows: []int{70}, PerWindow: []int{1}}

	applySubWindow(home, away, 70, rand.New(rand.NewSource(5)))

	if len(home.roster.Active) != 1 || home.roster.Active[0] != "A2" {
		t.Fatalf("expected A2 to replace A1 in the active roster, got %+v", home.roster.Active)
	}
	if len(home.roster.Passive) != 1 || home.roster.Passive[0] != "A1" {
		t.Fatalf("expected A1 to move to the passive roster, got %+v", home.roster.Passive)
	}
}
