package gbm

import "sort"

// Dataset is a dense, column-ordered training (or prediction) matrix
// built from rows of named features. Missing features in a row are
// filled with 0, matching §4.2's "prediction reindexes input rows
// against that list, missing columns filled 0" rule — applied here at
// both train and predict time for a single reindexing code path.
type Dataset struct {
	Columns []string
	X       [][]float64 // X[row][col]
	colIdx  map[string]int
}

// NewDataset reindexes rows (map of feature name to value) against the
// given ordered column list.
func NewDataset(rows []map[string]float64, columns []string) Dataset {
	colIdx := make(map[string]int, len(columns))
	for i, c := range columns {
		colIdx[c] = i
	}

	x := make([][]float64, len(rows))
	for r, row := range rows {
		vec := make([]float64, len(columns))
		for name, v := range row {
			if i, ok := colIdx[name]; ok {
				vec[i] = v
			}
		}
		x[r] = vec
	}

	return Dataset{Columns: columns, X: x, colIdx: colIdx}
}

// CollectColumns returns the sorted union of all keys across rows, the
// column list a fresh training pass derives before calling NewDataset.
func CollectColumns(rows []map[string]float64) []string {
	seen := map[string]struct{}{}
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (d Dataset) NumRows() int { return len(d.X) }
func (d Dataset) NumCols() int { return len(d.Columns) }
