package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/venomio/vpfm/internal/contextmodel"
	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/simulate"
	"github.com/venomio/vpfm/internal/store"
)

// scenarioFile is the JSON shape a `simulate` invocation reads its live
// match state and rosters from — flags alone can't carry two elevens
// plus bench lists, so it plays the role driver_data.json plays for the
// teacher's pricing tool.
type scenarioFile struct {
	ScheduleID   int            `json:"schedule_id"`
	MatchID      int            `json:"match_id"`
	StartMinute  int            `json:"start_minute"`
	TotalMinutes int            `json:"total_minutes"`
	HomeGoals    int            `json:"home_goals"`
	AwayGoals    int            `json:"away_goals"`
	HomeRedCards int            `json:"home_red_cards"`
	AwayRedCards int            `json:"away_red_cards"`
	HomeTeamID   int            `json:"home_team_id"`
	AwayTeamID   int            `json:"away_team_id"`
	HomeGK       string         `json:"home_gk"`
	AwayGK       string         `json:"away_gk"`
	HomeStarters []string       `json:"home_starters"`
	HomeBench    []string       `json:"home_bench"`
	AwayStarters []string       `json:"away_starters"`
	AwayBench    []string       `json:"away_bench"`
	HomeAvgSubs  float64        `json:"home_avg_subs"`
	AwayAvgSubs  float64        `json:"away_avg_subs"`
	HomeSubMins  map[string]int `json:"home_sub_minute_history"`
	AwaySubMins  map[string]int `json:"away_sub_minute_history"`
}

func newSimulateCmd() *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a fixture's remaining minutes and persist the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarioPath == "" {
				return fmt.Errorf("--scenario is required")
			}
			st, _, err := loadStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			return runSimulate(cmd.Context(), newLogger(cmd), st, scenarioPath)
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "path to a scenario JSON file describing the live match state and rosters")
	return cmd
}

func loadScenario(path string) (scenarioFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("read scenario: %w", err)
	}
	var sc scenarioFile
	if err := json.Unmarshal(raw, &sc); err != nil {
		return scenarioFile{}, fmt.Errorf("parse scenario: %w", err)
	}
	return sc, nil
}

// runSimulate carries out a `simulate` invocation's actual work, shared by
// the cobra RunE path and the interactive fallback menu — neither needs a
// *cobra.Command to load a scenario and run it.
func runSimulate(ctx context.Context, logger *log.Logger, st *store.SQLStore, scenarioPath string) error {
	sc, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	match, err := st.MatchByID(ctx, sc.MatchID)
	if err != nil {
		return fmt.Errorf("match %d: %w", sc.MatchID, err)
	}

	referee, ok, err := st.RefereeStatsByName(ctx, match.RefereeName)
	if err != nil {
		return fmt.Errorf("referee stats: %w", err)
	}
	if !ok {
		referee = domain.DefaultRefereeStats
	}

	home, err := buildTeamFixture(ctx, st, sc.HomeTeamID, sc.HomeGK, sc.HomeStarters, sc.HomeBench, sc.HomeAvgSubs, sc.HomeSubMins)
	if err != nil {
		return fmt.Errorf("home roster: %w", err)
	}
	away, err := buildTeamFixture(ctx, st, sc.AwayTeamID, sc.AwayGK, sc.AwayStarters, sc.AwayBench, sc.AwayAvgSubs, sc.AwaySubMins)
	if err != nil {
		return fmt.Errorf("away roster: %w", err)
	}

	fixture := simulate.Fixture{
		ScheduleID:   sc.ScheduleID,
		StartMinute:  sc.StartMinute,
		TotalMinutes: sc.TotalMinutes,
		HomeGoals:    sc.HomeGoals,
		AwayGoals:    sc.AwayGoals,
		HomeRedCards: sc.HomeRedCards,
		AwayRedCards: sc.AwayRedCards,
		Referee:      referee,
		Home:         home,
		Away:         away,
		Context: contextmodel.MatchContext{
			HomeElevationDif: match.HomeElevationDif,
			AwayElevationDif: match.AwayElevationDif,
			AwayTravelKm:     match.AwayTravelKm,
			HomeRestDays:     match.HomeRestDays,
			AwayRestDays:     match.AwayRestDays,
			TemperatureC:     match.TemperatureC,
			IsRaining:        match.IsRaining,
			KickoffHour:      match.Kickoff.Hour(),
		},
	}

	trainer := contextmodel.NewTrainer(st)
	boosters, err := trainer.TrainAll(ctx)
	if err != nil {
		return fmt.Errorf("train context boosters: %w", err)
	}

	driver := simulate.NewDriver(st, logger)
	if err := driver.SimulateSchedule(ctx, fixture, boosters); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	fmt.Printf("simulated schedule %d (%d sims)\n", sc.ScheduleID, simulate.NSims(sc.StartMinute))
	return nil
}

// buildTeamFixture resolves one side's GK, starters, and bench ratings
// from the store and assembles the TeamFixtureState runSimulate needs.
func buildTeamFixture(ctx context.Context, st *store.SQLStore, teamID int, gkID string, starterIDs, benchIDs []string, avgSubs float64, subMinsByPlayer map[string]int) (simulate.TeamFixtureState, error) {
	ids := append([]string{gkID}, append(append([]string{}, starterIDs...), benchIDs...)...)
	ratings, err := st.PlayerRatingsByIDs(ctx, ids)
	if err != nil {
		return simulate.TeamFixtureState{}, fmt.Errorf("player ratings: %w", err)
	}

	gk, ok := ratings[gkID]
	if !ok {
		return simulate.TeamFixtureState{}, fmt.Errorf("goalkeeper %q not found", gkID)
	}

	starters := make([]domain.PlayerRating, 0, len(starterIDs))
	for _, id := range starterIDs {
		p, ok := ratings[id]
		if !ok {
			return simulate.TeamFixtureState{}, fmt.Errorf("starter %q not found", id)
		}
		starters = append(starters, p)
	}
	bench := make([]domain.PlayerRating, 0, len(benchIDs))
	for _, id := range benchIDs {
		p, ok := ratings[id]
		if !ok {
			return simulate.TeamFixtureState{}, fmt.Errorf("bench player %q not found", id)
		}
		bench = append(bench, p)
	}

	// subMinsByPlayer maps a player ID to their historical sub-in minute;
	// fold that into the frequency histogram LineupEngine's TopSubMinutes
	// expects, same shape as PlayerRating.SubIn rolled up across matches.
	history := map[int]int{}
	minutes := make([]int, 0, len(subMinsByPlayer))
	for _, m := range subMinsByPlayer {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)
	for _, m := range minutes {
		history[m]++
	}

	return simulate.TeamFixtureState{
		TeamID:            teamID,
		GK:                gk,
		Starters:          starters,
		Bench:             bench,
		HistoricalAvgSubs: avgSubs,
		SubMinuteHistory:  history,
	}, nil
}
