package simulate

import (
	"math/rand"

	"github.com/venomio/vpfm/internal/contextmodel"
	"github.com/venomio/vpfm/internal/discipline"
	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/lineup"
	"github.com/venomio/vpfm/internal/shotsim"
)

// simResult is one worker's output: the shot and card rows for a single
// simulation, still missing their sim_id (the driver stamps that in
// once results are aggregated).
type simResult struct {
	Shots []domain.SimShot
	Cards []domain.SimCard
}

// teamSimState is one team's mutable per-simulation state: the fixed
// base ratings never change, but the active/passive roster and the
// yellow-card tally do, so each worker gets its own copy reset from the
// Fixture's base TeamFixtureState at the start of every simulation
// (Design Notes' "reset, don't deep-copy the whole dict" guidance).
type teamSimState struct {
	teamID      int
	gk          domain.PlayerRating
	roster      lineup.Roster
	byID        map[string]domain.PlayerRating
	yellows     map[string]int
	subPlan     lineup.SubPlan
	subsDone    int
	goals       int
	redCards    int
}

func newTeamSimState(t TeamFixtureState, initialRedCards int) *teamSimState {
	byID := make(map[string]domain.PlayerRating, len(t.Starters)+len(t.Bench))
	active := make([]string, 0, len(t.Starters))
	passive := make([]string, 0, len(t.Bench))
	for _, p := range t.Starters {
		byID[p.PlayerID] = p
		active = append(active, p.PlayerID)
	}
	for _, p := range t.Bench {
		byID[p.PlayerID] = p
		passive = append(passive, p.PlayerID)
	}

	return &teamSimState{
		teamID:   t.TeamID,
		gk:       t.GK,
		roster:   lineup.Roster{TeamID: t.TeamID, Active: active, Passive: passive},
		byID:     byID,
		yellows:  make(map[string]int),
		redCards: initialRedCards,
	}
}

// active returns the live PlayerRating set for the team's current
// active roster, in Roster order.
func (s *teamSimState) active() []domain.PlayerRating {
	out := make([]domain.PlayerRating, 0, len(s.roster.Active))
	for _, id := range s.roster.Active {
		out = append(out, s.byID[id])
	}
	return out
}

func (s *teamSimState) foulStats() []discipline.PlayerFoulStats {
	out := make([]discipline.PlayerFoulStats, 0, len(s.roster.Active))
	for _, id := range s.roster.Active {
		p := s.byID[id]
		out = append(out, discipline.PlayerFoulStats{
			PlayerID:       p.PlayerID,
			MinutesPlayed:  p.MinutesPlayed,
			FoulsCommitted: p.FoulsCommitted,
			FoulsDrawn:     p.FoulsDrawn,
			YellowCards:    p.YellowCards,
			RedCards:       p.RedCards,
		})
	}
	return out
}

func playerMinutesFor(ids []string, byID map[string]domain.PlayerRating) []lineup.PlayerMinutes {
	out := make([]lineup.PlayerMinutes, 0, len(ids))
	for _, id := range ids {
		p := byID[id]
		out = append(out, lineup.PlayerMinutes{
			PlayerID:      p.PlayerID,
			MinutesPlayed: p.MinutesPlayed,
			InStatus:      p.InStatus,
			OutStatus:     p.OutStatus,
		})
	}
	return out
}

// runSimulation executes §4.5-§4.6's per-minute loop once, from
// f.StartMinute to the final whistle, for both teams, using rng as the
// simulation's sole source of randomness (fixing rng's seed reproduces
// byte-identical output, per testable property #8).
func runSimulation(f Fixture, cache *shotsim.PredictionCache, ctxTable map[contextmodel.CtxKey]float64, rng *rand.Rand) simResult {
	home := newTeamSimState(f.Home, f.HomeRedCards)
	away := newTeamSimState(f.Away, f.AwayRedCards)
	home.goals, away.goals = f.HomeGoals, f.AwayGoals

	home.subPlan = lineup.PlanSubstitutions(f.Home.HistoricalAvgSubs, len(home.roster.Passive), f.Home.SubMinuteHistory, f.StartMinute)
	away.subPlan = lineup.PlanSubstitutions(f.Away.HistoricalAvgSubs, len(away.roster.Passive), f.Away.SubMinuteHistory, f.StartMinute)

	var result simResult
	total := f.totalMinutes()

	for minute := f.StartMinute; minute < total; minute++ {
		applySubWindow(home, away, minute, rng)
		applySubWindow(away, home, minute, rng)

		segment := domain.TimeSegment(minute)
		homeState := domain.GoalDiffToState(home.goals - away.goals)
		homeDif := domain.RedCardDiffToPlayerDif(away.redCards, home.redCards)

		simulateTeamMinute(&result, f, cache, ctxTable, home, away, true, homeState, homeDif, segment, minute, rng)
		simulateTeamMinute(&result, f, cache, ctxTable, away, home, false, -homeState, -homeDif, segment, minute, rng)

		simulateDiscipline(&result, f, home, away, true, minute, rng)
		simulateDiscipline(&result, f, away, home, false, minute, rng)
	}

	return result
}

// applySubWindow executes any substitution window scheduled for this
// minute (§4.4's per-sub swap), sampling out/in players weighted by
// historical minutes and status-conditioned sub probabilities.
func applySubWindow(team, opponent *teamSimState, minute int, rng *rand.Rand) {
	for i, windowMinute := range team.subPlan.Windows {
		if windowMinute != minute {
			continue
		}
		s := team.subPlan.PerWindow[i]
		if s <= 0 || len(team.roster.Passive) == 0 || len(team.roster.Active) == 0 {
			continue
		}

		status := domain.Status(float64(team.goals - opponent.goals))
		active := playerMinutesFor(team.roster.Active, team.byID)
		passive := playerMinutesFor(team.roster.Passive, team.byID)
		outIDs, inIDs := lineup.PlanSwap(active, passive, status, s, rng)
		for _, id := range outIDs {
			team.roster.MoveToPassive(id)
		}
		for _, id := range inIDs {
			team.roster.MoveToActive(id)
		}
	}
}

// simulateTeamMinute draws this team's shot events for one minute and
// folds any goals back into the live score.
func simulateTeamMinute(
	result *simResult,
	f Fixture,
	cache *shotsim.PredictionCache,
	ctxTable map[contextmodel.CtxKey]float64,
	team, opponent *teamSimState,
	isHome bool,
	state domain.MatchState,
	dif domain.PlayerDif,
	segment int,
	minute int,
	rng *rand.Rand,
) {
	active := team.active()
	if len(active) == 0 {
		return
	}
	opponentActive := opponent.active()

	ctxMult, err := shotsim.CtxMultFromTable(ctxTable, isHome, state, segment, dif)
	if err != nil {
		return
	}

	sums := shotsim.ComputeTeamRatingSums(active, opponentActive)
	events := shotsim.SampleMinute(cache, active, opponent.gk, sums, ctxMult, f.Context, isHome, team.teamID, state, dif, rng)

	for _, e := range events {
		if e.Goal {
			team.goals++
		}
		result.Shots = append(result.Shots, domain.SimShot{
			ScheduleID: f.ScheduleID,
			Minute:     minute,
			ShooterID:  e.ShooterID,
			TeamID:     e.TeamID,
			Outcome:    boolToOutcome(e.Goal),
			BodyPart:   e.ShotType,
			AssisterID: e.AssisterID,
		})
	}
}

func boolToOutcome(goal bool) int {
	if goal {
		return 1
	}
	return 0
}

// simulateDiscipline draws this team's foul/card events for one minute,
// applying yellow/red removals to the live roster immediately (§4.6
// step 7).
func simulateDiscipline(result *simResult, f Fixture, team, opponent *teamSimState, isHome bool, minute int, rng *rand.Rand) {
	active := team.foulStats()
	if len(active) == 0 {
		return
	}
	opponentStats := opponent.foulStats()

	status := domain.Status(float64(team.goals - opponent.goals))
	teamF90 := discipline.TeamF90(active, opponentStats)
	oppF90 := discipline.TeamF90(opponentStats, active)
	refPerMatch := f.Referee.PerMatch()
	rate := discipline.PerMinuteFoulRate(teamF90, oppF90, refPerMatch.Fouls, isHome, status)
	count := discipline.SampleFoulCount(rate, rng)

	for i := 0; i < count; i++ {
		fouler, ok := discipline.ChooseFouler(active, rng)
		if !ok {
			return
		}
		pYC, pRC := discipline.CardProbabilities(fouler, refPerMatch)
		card := discipline.SampleCard(pYC, pRC, rng)
		if card == domain.CardNone {
			continue
		}

		result.Cards = append(result.Cards, domain.SimCard{
			ScheduleID: f.ScheduleID,
			Minute:     minute,
			PlayerID:   fouler.PlayerID,
			TeamID:     team.teamID,
			CardType:   card,
		})

		switch card {
		case domain.CardRed:
			team.roster.RemoveActive(fouler.PlayerID)
			team.redCards++
			active = team.foulStats()
		case domain.CardYellow:
			team.yellows[fouler.PlayerID]++
			if team.yellows[fouler.PlayerID] >= 2 {
				team.roster.RemoveActive(fouler.PlayerID)
				team.redCards++
				active = team.foulStats()
			}
		}
		if len(active) == 0 {
			return
		}
	}
}
