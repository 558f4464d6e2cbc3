package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/venomio/vpfm/internal/contextmodel"
	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/rating"
	"github.com/venomio/vpfm/internal/shotsim"
	"github.com/venomio/vpfm/internal/store"
)

// Driver runs both of SimulationDriver's public operations:
// TrainAndExtract and SimulateSchedule (§6).
type Driver struct {
	Store  store.Store
	Logger *log.Logger
	Seed   int64
}

// NewDriver wires a Driver against a Store with the teacher's pattern
// of an injected, leveled logger instead of package-global output.
func NewDriver(s store.Store, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{Store: s, Logger: logger, Seed: 1}
}

// TrainAndExtract runs RatingEstimator and ContextModelTrainer end to
// end and persists the resulting player ratings: truncate, refit every
// active league (skipping, not aborting, on a Modeling-kind error per
// §7), aggregate headers/footers coefficients per player, and upsert.
// uptoDate is written to the training log only: the fit reads every row
// the store holds, and no row is filtered by date.
func (d *Driver) TrainAndExtract(ctx context.Context, uptoDate string) error {
	d.Logger.Info("training started", "upto_date", uptoDate)

	estimator := rating.NewEstimator(d.Store, 1.0)
	coefByLeague, skipped := estimator.FitActiveLeagues(ctx)
	for _, err := range skipped {
		d.Logger.Warn("league skipped during rating fit", "err", err)
	}

	leagues, err := d.Store.ActiveLeagues(ctx)
	if err != nil {
		return fmt.Errorf("active leagues: %w", err)
	}

	// Base (non-coefficient) fields come from match_breakdown, not from
	// players_data — read them before the truncate below empties the
	// table this pass is about to rebuild.
	basesByLeague := make(map[int][]domain.PlayerRating, len(leagues))
	for _, l := range leagues {
		bases, err := d.Store.BaseRatingsByLeague(ctx, l.LeagueID)
		if err != nil {
			return fmt.Errorf("base ratings for league %d: %w", l.LeagueID, err)
		}
		basesByLeague[l.LeagueID] = bases
	}

	if err := d.Store.TruncatePlayers(ctx); err != nil {
		return fmt.Errorf("truncate players: %w", err)
	}

	for _, l := range leagues {
		pair, ok := coefByLeague[l.LeagueID]
		if !ok {
			continue
		}
		bases := basesByLeague[l.LeagueID]
		byID := make(map[string]*domain.PlayerRating, len(bases))
		for i := range bases {
			byID[bases[i].PlayerID] = &bases[i]
		}
		rating.AggregatePlayerRatings(byID, pair[0], pair[1])
		for _, p := range byID {
			if err := d.Store.UpsertPlayerRating(ctx, *p); err != nil {
				return fmt.Errorf("upsert player rating %s: %w", p.PlayerID, err)
			}
		}
	}

	trainer := contextmodel.NewTrainer(d.Store)
	if _, err := trainer.TrainAll(ctx); err != nil {
		return fmt.Errorf("train context boosters: %w", err)
	}

	d.Logger.Info("training complete")
	return nil
}

// SimulateSchedule is SimulationDriver's second public operation: take
// the caller's trained context boosters, precompute the fixture's ctx_mult
// grid, run NSims(fixture.StartMinute) independent simulations across a
// worker pool, and replace this schedule's simulation_data wholesale.
func (d *Driver) SimulateSchedule(ctx context.Context, f Fixture, boosters contextmodel.Boosters) error {
	n := NSims(f.StartMinute)
	d.Logger.Info("simulating schedule", "schedule_id", f.ScheduleID, "n_sims", n, "start_minute", f.StartMinute)

	ctxTable := contextmodel.BuildCtxMultTable(boosters.RAS, f.Context)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	results := make([]simResult, n)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			cache := shotsim.NewPredictionCache(boosters.RAS, boosters.RSQ, boosters.PSxG)
			rng := rand.New(rand.NewSource(d.Seed + int64(i)))
			results[i] = runSimulation(f, cache, ctxTable, rng)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation worker pool: %w", err)
	}

	var shots []domain.SimShot
	var cards []domain.SimCard
	for _, r := range results {
		simID := uuid.NewString()
		for _, s := range r.Shots {
			s.SimID = simID
			shots = append(shots, s)
		}
		for _, c := range r.Cards {
			c.SimID = simID
			cards = append(cards, c)
		}
	}

	if err := d.Store.ReplaceSimulationData(ctx, f.ScheduleID, shots, cards, 200); err != nil {
		return fmt.Errorf("replace simulation data: %w", err)
	}

	d.Logger.Info("simulation complete", "schedule_id", f.ScheduleID, "shot_rows", len(shots), "card_rows", len(cards))
	return nil
}
