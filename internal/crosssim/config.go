package crosssim

import (
	"math"

	"simcross/internal/errors"
)

// SimulationConfig configures one crossed random-effects dataset.
//
// Row and column counts scale as powers of ObservationCount:
// R = ceil(n^RowExponent), C = ceil(n^ColumnExponent). Exponents below 1
// make R and C grow sub-linearly so rows and columns are revisited.
type SimulationConfig struct {
	ObservationCount int     `json:"observation_count" yaml:"observation_count"`
	RowExponent      float64 `json:"row_exponent" yaml:"row_exponent"`
	ColumnExponent   float64 `json:"column_exponent" yaml:"column_exponent"`
	RowVariance      float64 `json:"row_variance" yaml:"row_variance"`
	ColumnVariance   float64 `json:"column_variance" yaml:"column_variance"`
	NoiseVariance    float64 `json:"noise_variance" yaml:"noise_variance"`
	Intercept        float64 `json:"intercept" yaml:"intercept"`
	Seed             int64   `json:"seed" yaml:"seed"`
}

// DefaultConfig returns the baseline subjects × items design.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
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

// Dimensions returns the row count R and column count C implied by the
// config. Only the fields that determine R and C are checked.
func (c SimulationConfig) Dimensions() (rows, cols int, err error) {
	if c.ObservationCount < 1 {
		return 0, 0, errors.InvalidConfiguration("observation_count", "must be >= 1, got %d", c.ObservationCount)
	}
	if err := checkExponent("row_exponent", c.RowExponent); err != nil {
		return 0, 0, err
	}
	if err := checkExponent("column_exponent", c.ColumnExponent); err != nil {
		return 0, 0, err
	}

	rows = ceilPow(c.ObservationCount, c.RowExponent)
	cols = ceilPow(c.ObservationCount, c.ColumnExponent)
	if rows < 1 {
		return 0, 0, errors.InvalidConfiguration("row_exponent", "derived row count %d is < 1", rows)
	}
	if cols < 1 {
		return 0, 0, errors.InvalidConfiguration("column_exponent", "derived column count %d is < 1", cols)
	}
	return rows, cols, nil
}

// Validate checks every precondition of Simulate without drawing anything.
func (c SimulationConfig) Validate() error {
	_, _, err := c.validate()
	return err
}

func (c SimulationConfig) validate() (rows, cols int, err error) {
	rows, cols, err = c.Dimensions()
	if err != nil {
		return 0, 0, err
	}

	for _, v := range []struct {
		field string
		value float64
	}{
		{"row_variance", c.RowVariance},
		{"column_variance", c.ColumnVariance},
		{"noise_variance", c.NoiseVariance},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return 0, 0, errors.InvalidConfiguration(v.field, "must be finite, got %v", v.value)
		}
		if v.value < 0 {
			return 0, 0, errors.InvalidConfiguration(v.field, "must be >= 0, got %g", v.value)
		}
	}
	if math.IsNaN(c.Intercept) || math.IsInf(c.Intercept, 0) {
		return 0, 0, errors.InvalidConfiguration("intercept", "must be finite, got %v", c.Intercept)
	}

	// Each column holds distinct rows, so n observations need n <= R*C.
	if (c.ObservationCount+cols-1)/cols > rows {
		return 0, 0, errors.InvalidConfiguration("observation_count",
			"%d observations cannot fit %d rows x %d columns without repeating a row in a column",
			c.ObservationCount, rows, cols)
	}
	return rows, cols, nil
}

func checkExponent(field string, e float64) error {
	if math.IsNaN(e) || e <= 0 || e > 1 {
		return errors.InvalidConfiguration(field, "must be in (0, 1], got %v", e)
	}
	return nil
}

func ceilPow(n int, exponent float64) int {
	return int(math.Ceil(math.Pow(float64(n), exponent)))
}
