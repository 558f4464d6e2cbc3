package gbm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoissonBoosterLearnsMonotoneFeature(t *testing.T) {
	rows := make([]map[string]float64, 0, 50)
	y := make([]float64, 0, 50)
	for i := 0; i < 50; i++ {
		v := float64(i) / 10
		rows = append(rows, map[string]float64{"x": v})
		y = append(y, math.Exp(0.4*v))
	}
	columns := CollectColumns(rows)
	ds := NewDataset(rows, columns)

	baseMargin := make([]float64, len(y))
	params := Params{Rounds: 40, MaxDepth: 3, Eta: 0.2, Subsample: 1, ColSample: 1, Lambda: 1, MinChildWeight: 1, Seed: 7}
	b := Train(ds, y, baseMargin, PoissonObjective{}, params)

	low := b.Predict([]float64{0.0}, 0)
	high := b.Predict([]float64{4.0}, 0)
	require.Greater(t, high, low)
}

func TestPredictRowsReindexesMissingColumnsToZero(t *testing.T) {
	columns := []string{"a", "b"}
	b := &Booster{Columns: columns, Eta: 1, Objective: SquaredErrorObjective{}}
	// Split on column "b": a row without "b" reindexes it to 0 and takes
	// the left leaf.
	b.Trees = []Tree{{nodes: []treeNode{
		{featureIdx: 1, threshold: 0.5, left: 1, right: 2},
		{isLeaf: true, leafValue: 2.5},
		{isLeaf: true, leafValue: -1},
	}}}

	out := b.PredictRows([]map[string]float64{{"a": 1}}, nil)
	require.Len(t, out, 1)
	require.InDelta(t, 2.5, out[0], 1e-9)
}
