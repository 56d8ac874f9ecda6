package crosssim

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Diagnostics summarizes how observations spread over rows and columns.
// Per-row and per-column figures only consider nonempty rows and columns.
type Diagnostics struct {
	R int `json:"R"`
	C int `json:"C"`
	N int `json:"N"`

	NonemptyRows    int `json:"nonempty_rows"`
	NonemptyColumns int `json:"nonempty_columns"`

	MinPerRow     int     `json:"min_per_row"`
	MaxPerRow     int     `json:"max_per_row"`
	MeanPerRow    float64 `json:"mean_per_row"`
	MinPerColumn  int     `json:"min_per_column"`
	MaxPerColumn  int     `json:"max_per_column"`
	MeanPerColumn float64 `json:"mean_per_column"`

	MeanY           float64 `json:"mean_y"`
	VarianceY       float64 `json:"variance_y"`
	ImpliedVariance float64 `json:"implied_variance"`
}

// Summarize computes the diagnostics of ds.
func Summarize(ds *SimulatedDataset) Diagnostics {
	d := Diagnostics{
		R:               ds.R,
		C:               ds.C,
		N:               ds.N,
		ImpliedVariance: ds.Config.RowVariance + ds.Config.ColumnVariance + ds.Config.NoiseVariance,
	}

	rowCounts := countNonempty(ds.RowIndex, ds.R)
	colCounts := countNonempty(ds.ColIndex, ds.C)
	d.NonemptyRows = len(rowCounts)
	d.NonemptyColumns = len(colCounts)
	d.MinPerRow, d.MaxPerRow, d.MeanPerRow = spread(rowCounts)
	d.MinPerColumn, d.MaxPerColumn, d.MeanPerColumn = spread(colCounts)

	switch {
	case ds.N >= 2:
		d.MeanY, d.VarianceY = stat.MeanVariance(ds.Value, nil)
	case ds.N == 1:
		d.MeanY = ds.Value[0]
	}
	return d
}

// countNonempty returns the observation count of every index in [1, size]
// that occurs at least once, in index order.
func countNonempty(index []int, size int) stats.Float64Data {
	counts := make([]int, size+1)
	for _, i := range index {
		counts[i]++
	}
	out := make(stats.Float64Data, 0, size)
	for _, c := range counts[1:] {
		if c > 0 {
			out = append(out, float64(c))
		}
	}
	return out
}

func spread(counts stats.Float64Data) (lo, hi int, mean float64) {
	if counts.Len() == 0 {
		return 0, 0, 0
	}
	// Errors only signal empty input, handled above.
	minC, _ := counts.Min()
	maxC, _ := counts.Max()
	mean, _ = counts.Mean()
	return int(minC), int(maxC), mean
}
