package contextmodel

import (
	"context"
	"fmt"

	"github.com/venomio/vpfm/internal/gbm"
	"github.com/venomio/vpfm/internal/store"
)

// Boosters bundles the three trained models ContextModelTrainer produces.
type Boosters struct {
	RAS  *gbm.Booster
	RSQ  *gbm.Booster
	PSxG *gbm.Booster
}

// Trainer runs ContextModelTrainer (C2) against a Store.
type Trainer struct {
	Store  store.Store
	Params gbm.Params
}

// NewTrainer returns a Trainer with the §4.2 default hyperparameters.
func NewTrainer(s store.Store) *Trainer {
	return &Trainer{Store: s, Params: gbm.DefaultParams()}
}

// TrainAll fits RAS, RSQ, and PSxG in sequence (RSQ must precede PSxG
// in a real pipeline only insofar as PSxG's own shots already carry a
// precomputed RSQ value from the historical record; no cross-booster
// dependency exists at training time here).
func (t *Trainer) TrainAll(ctx context.Context) (Boosters, error) {
	ras, err := TrainRAS(ctx, t.Store, t.Params)
	if err != nil {
		return Boosters{}, fmt.Errorf("train RAS: %w", err)
	}
	rsq, err := TrainRSQ(ctx, t.Store, t.Params)
	if err != nil {
		return Boosters{}, fmt.Errorf("train RSQ: %w", err)
	}
	psxg, err := TrainPSxG(ctx, t.Store, t.Params)
	if err != nil {
		return Boosters{}, fmt.Errorf("train PSxG: %w", err)
	}
	return Boosters{RAS: ras, RSQ: rsq, PSxG: psxg}, nil
}
