package crosssim

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"simcross/internal/errors"
)

// SimulatedDataset is a long-format crossed design: observation n belongs
// to row RowIndex[n] and column ColIndex[n] and has outcome Value[n].
// Indices are 1-based. Observations are ordered by ascending RowIndex,
// ties kept in generation order.
type SimulatedDataset struct {
	Config   SimulationConfig `json:"config"`
	N        int              `json:"N"`
	R        int              `json:"R"`
	C        int              `json:"C"`
	RowIndex []int            `json:"ii"`
	ColIndex []int            `json:"jj"`
	Value    []float64        `json:"y"`
}

// StreamFunc builds the random stream for a seed.
type StreamFunc func(seed int64) *rand.Rand

// Simulator runs simulations on streams produced by NewStream. The zero
// value is ready to use.
type Simulator struct {
	NewStream StreamFunc
}

// NewSimulator creates a simulator using the default PCG stream.
func NewSimulator() *Simulator {
	return &Simulator{NewStream: NewStream}
}

// Simulate runs one simulation. ctx is only consulted before any draw; a
// started simulation runs to completion.
func (s *Simulator) Simulate(ctx context.Context, cfg SimulationConfig) (*SimulatedDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, cols, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	newStream := s.NewStream
	if newStream == nil {
		newStream = NewStream
	}
	return generate(cfg, rows, cols, newStream(cfg.Seed))
}

// Simulate validates cfg and generates its dataset on a fresh stream seeded
// with cfg.Seed. Identical configs give identical datasets.
func Simulate(cfg SimulationConfig) (*SimulatedDataset, error) {
	rows, cols, err := cfg.validate()
	if err != nil {
		return nil, err
	}
	return generate(cfg, rows, cols, NewStream(cfg.Seed))
}

// generate consumes rng in a fixed order: column sizes, row effects,
// column effects, then per column its rows followed by its noise.
func generate(cfg SimulationConfig, rows, cols int, rng *rand.Rand) (*SimulatedDataset, error) {
	n := cfg.ObservationCount

	colSizes := drawColumnSizes(rng, n, cols)

	rowEffects := make([]float64, rows)
	drawNormals(rng, math.Sqrt(cfg.RowVariance), rowEffects)
	colEffects := make([]float64, cols)
	drawNormals(rng, math.Sqrt(cfg.ColumnVariance), colEffects)

	noiseSD := math.Sqrt(cfg.NoiseVariance)
	genRows := make([]int, 0, n)
	genCols := make([]int, 0, n)
	genValues := make([]float64, 0, n)

	var picked []int
	var noise []float64
	for j, size := range colSizes {
		if size == 0 {
			continue
		}
		if size > rows {
			return nil, errors.CapacityExceeded(fmt.Sprintf(
				"column %d drew %d observations but only %d distinct rows exist", j+1, size, rows))
		}

		picked = sampleDistinct(rng, rows, size, picked[:0])
		if cap(noise) < size {
			noise = make([]float64, size)
		}
		noise = noise[:size]
		drawNormals(rng, noiseSD, noise)

		for k, row := range picked {
			genRows = append(genRows, row+1)
			genCols = append(genCols, j+1)
			genValues = append(genValues, cfg.Intercept+rowEffects[row]+colEffects[j]+noise[k])
		}
	}

	ds := &SimulatedDataset{
		Config: cfg,
		N:      len(genRows),
		R:      rows,
		C:      cols,
	}
	ds.RowIndex, ds.ColIndex, ds.Value = sortByRow(rows, genRows, genCols, genValues)
	return ds, nil
}

// sortByRow reorders the three sequences by ascending row with a counting
// sort, which keeps generation order within a row.
func sortByRow(rows int, rowIdx, colIdx []int, values []float64) ([]int, []int, []float64) {
	offsets := make([]int, rows+2)
	for _, r := range rowIdx {
		offsets[r+1]++
	}
	for r := 1; r < len(offsets); r++ {
		offsets[r] += offsets[r-1]
	}

	outRows := make([]int, len(rowIdx))
	outCols := make([]int, len(rowIdx))
	outValues := make([]float64, len(rowIdx))
	for i, r := range rowIdx {
		pos := offsets[r]
		offsets[r]++
		outRows[pos] = r
		outCols[pos] = colIdx[i]
		outValues[pos] = values[i]
	}
	return outRows, outCols, outValues
}
