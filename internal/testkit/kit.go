package testkit

import (
	"math"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"simcross/internal/crosssim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BaselineConfig is the n=100 subjects × items design used across tests.
func BaselineConfig() crosssim.SimulationConfig {
	return crosssim.SimulationConfig{
		ObservationCount: 100,
		RowExponent:      0.88,
		ColumnExponent:   0.57,
		RowVariance:      1,
		ColumnVariance:   1,
		NoiseVariance:    1,
		Intercept:        0,
		Seed:             42,
	}
}

// SparseConfig returns a design with few observations per column and
// R = C = n, so empty columns are common.
func SparseConfig(n int, seed int64) crosssim.SimulationConfig {
	cfg := BaselineConfig()
	cfg.ObservationCount = n
	cfg.RowExponent = 1
	cfg.ColumnExponent = 1
	cfg.Seed = seed
	return cfg
}

// CountingSource wraps a PCG source and counts the values it hands out.
type CountingSource struct {
	src   rand.Source
	draws atomic.Int64
}

// NewCountingSource creates a counting source for seed.
func NewCountingSource(seed int64) *CountingSource {
	return &CountingSource{src: rand.NewPCG(uint64(seed), 1)}
}

func (c *CountingSource) Uint64() uint64 {
	c.draws.Add(1)
	return c.src.Uint64()
}

// Draws returns how many values have been consumed.
func (c *CountingSource) Draws() int64 {
	return c.draws.Load()
}

// Stream adapts the source to a crosssim.StreamFunc, ignoring the seed.
func (c *CountingSource) Stream(int64) *rand.Rand {
	return rand.New(c)
}

// AssertDatasetInvariants checks the structural guarantees every simulated
// dataset carries: aligned sequences, index bounds, ascending rows and no
// repeated (row, column) pair.
func AssertDatasetInvariants(t testing.TB, ds *crosssim.SimulatedDataset) {
	t.Helper()
	require.NotNil(t, ds)
	require.Len(t, ds.RowIndex, ds.N)
	require.Len(t, ds.ColIndex, ds.N)
	require.Len(t, ds.Value, ds.N)

	seen := make(map[[2]int]struct{}, ds.N)
	for n := 0; n < ds.N; n++ {
		row, col := ds.RowIndex[n], ds.ColIndex[n]
		assert.GreaterOrEqual(t, row, 1, "row index at %d", n)
		assert.LessOrEqual(t, row, ds.R, "row index at %d", n)
		assert.GreaterOrEqual(t, col, 1, "column index at %d", n)
		assert.LessOrEqual(t, col, ds.C, "column index at %d", n)
		assert.False(t, math.IsNaN(ds.Value[n]), "value at %d", n)

		if n > 0 {
			assert.LessOrEqual(t, ds.RowIndex[n-1], row, "rows out of order at %d", n)
		}
		pair := [2]int{row, col}
		_, dup := seen[pair]
		assert.False(t, dup, "row %d repeated in column %d", row, col)
		seen[pair] = struct{}{}
	}
}
