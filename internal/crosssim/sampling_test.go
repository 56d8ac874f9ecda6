package crosssim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawColumnSizes_SumsToTotal(t *testing.T) {
	rng := NewStream(7)
	for _, tc := range []struct{ n, c int }{{1, 1}, {5, 5}, {100, 14}, {10000, 3}, {3, 50}} {
		sizes := drawColumnSizes(rng, tc.n, tc.c)
		require.Len(t, sizes, tc.c)

		total := 0
		for _, s := range sizes {
			assert.GreaterOrEqual(t, s, 0)
			total += s
		}
		assert.Equal(t, tc.n, total, "n=%d c=%d", tc.n, tc.c)
	}
}

func TestDrawColumnSizes_RoughlyUniform(t *testing.T) {
	sizes := drawColumnSizes(NewStream(11), 100000, 4)
	for j, s := range sizes {
		assert.InDelta(t, 25000, s, 1000, "column %d", j)
	}
}

func TestSampleDistinct(t *testing.T) {
	rng := NewStream(3)
	for _, tc := range []struct{ population, k int }{
		{10, 10},
		{10, 6},
		{1000, 5},
		{1 << 30, 50},
		{1, 1},
	} {
		got := sampleDistinct(rng, tc.population, tc.k, nil)
		require.Len(t, got, tc.k)

		seen := make(map[int]bool, tc.k)
		for _, v := range got {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, tc.population)
			assert.False(t, seen[v], "duplicate %d", v)
			seen[v] = true
		}
	}
}

func TestSampleDistinct_ReusesBuffer(t *testing.T) {
	buf := make([]int, 0, 8)
	got := sampleDistinct(NewStream(1), 100, 8, buf[:0])
	assert.Len(t, got, 8)
	assert.Same(t, &buf[:1][0], &got[0])

	assert.Empty(t, sampleDistinct(NewStream(1), 100, 0, nil))
}

func TestSampleDistinct_Uniform(t *testing.T) {
	rng := NewStream(99)
	counts := make([]int, 20)
	const trials = 20000
	for i := 0; i < trials; i++ {
		for _, v := range sampleDistinct(rng, 20, 3, nil) {
			counts[v]++
		}
	}
	// each value is picked with probability 3/20
	for v, c := range counts {
		assert.InDelta(t, trials*3/20, c, 250, "value %d", v)
	}
}

func TestEmptyColumnsContributeNoRows(t *testing.T) {
	sawEmpty := false
	for seed := int64(1); seed <= 50; seed++ {
		cfg := SimulationConfig{
			ObservationCount: 5,
			RowExponent:      1,
			ColumnExponent:   1,
			RowVariance:      1,
			ColumnVariance:   1,
			NoiseVariance:    1,
			Seed:             seed,
		}
		// column sizes are the first draws on the stream
		sizes := drawColumnSizes(NewStream(seed), 5, 5)

		ds, err := Simulate(cfg)
		require.NoError(t, err)
		require.Equal(t, 5, ds.C)

		perColumn := make([]int, ds.C+1)
		for _, j := range ds.ColIndex {
			perColumn[j]++
		}
		for j, size := range sizes {
			assert.Equal(t, size, perColumn[j+1], "seed %d column %d", seed, j+1)
			if size == 0 {
				sawEmpty = true
				assert.NotContains(t, ds.ColIndex, j+1)
			}
		}
	}
	assert.True(t, sawEmpty, "expected at least one empty column across seeds")
}

func TestSortByRow_Stable(t *testing.T) {
	rows, cols, vals := sortByRow(3,
		[]int{2, 1, 2, 3, 1},
		[]int{1, 1, 2, 2, 3},
		[]float64{10, 20, 30, 40, 50},
	)
	assert.Equal(t, []int{1, 1, 2, 2, 3}, rows)
	assert.Equal(t, []int{1, 3, 1, 2, 2}, cols)
	assert.Equal(t, []float64{20, 50, 10, 30, 40}, vals)
}

func TestDeriveSeed(t *testing.T) {
	assert.Equal(t, DeriveSeed(42, 1), DeriveSeed(42, 1))
	assert.NotEqual(t, DeriveSeed(42, 1), DeriveSeed(42, 2))
	assert.NotEqual(t, DeriveSeed(42, 1), DeriveSeed(43, 1))
}
