// Package sweep runs one simulation design across a range of observation
// counts to show how the row and column dimensions scale.
package sweep

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"simcross/internal"
	"simcross/internal/crosssim"
	"simcross/internal/errors"
	"simcross/ports"

	"golang.org/x/sync/errgroup"
)

// Options controls a sweep.
type Options struct {
	// Simulate runs the full simulation at every point, not just the
	// dimension formula.
	Simulate bool
	// Concurrency caps simultaneous simulations; values < 1 mean 1.
	Concurrency int
	// Logger receives per-point progress at debug level. May be nil.
	Logger *internal.Logger
}

// Point is one observation count of a sweep.
type Point struct {
	ObservationCount int     `json:"observation_count"`
	Seed             int64   `json:"seed"`
	R                int     `json:"R"`
	C                int     `json:"C"`
	RowGrowth        float64 `json:"row_growth,omitempty"`
	ColumnGrowth     float64 `json:"column_growth,omitempty"`

	Diagnostics *crosssim.Diagnostics `json:"diagnostics,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// Run evaluates base at every count. Points come back in input order; the
// growth ratios compare each point with the one before it. A point whose
// simulation runs out of distinct rows records the failure and the sweep
// continues; any other error stops the sweep.
func Run(ctx context.Context, sim ports.SimulatorPort, base crosssim.SimulationConfig, counts []int, opts Options) ([]Point, error) {
	if len(counts) == 0 {
		return nil, errors.InvalidInput("sweep needs at least one observation count")
	}

	points := make([]Point, len(counts))
	configs := make([]crosssim.SimulationConfig, len(counts))
	for i, n := range counts {
		cfg := base
		cfg.ObservationCount = n
		cfg.Seed = crosssim.DeriveSeed(base.Seed, uint64(i))

		r, c, err := cfg.Dimensions()
		if err != nil {
			return nil, errors.Wrapf(err, "sweep point %d (n=%d)", i+1, n)
		}
		points[i] = Point{ObservationCount: n, Seed: cfg.Seed, R: r, C: c}
		if i > 0 {
			points[i].RowGrowth = float64(r) / float64(points[i-1].R)
			points[i].ColumnGrowth = float64(c) / float64(points[i-1].C)
		}
		configs[i] = cfg
	}

	if !opts.Simulate {
		return points, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for i := range configs {
		g.Go(func() error {
			ds, err := sim.Simulate(ctx, configs[i])
			switch {
			case err == nil:
				d := crosssim.Summarize(ds)
				points[i].Diagnostics = &d
				opts.Logger.Debug("sweep point n=%d: %d nonempty rows, %d nonempty columns",
					configs[i].ObservationCount, d.NonemptyRows, d.NonemptyColumns)
			case errors.IsCode(err, errors.CodeCapacityExceeded), errors.IsCode(err, errors.CodeInvalidConfiguration):
				points[i].Error = err.Error()
				opts.Logger.Warn("sweep point n=%d: %v", configs[i].ObservationCount, err)
			default:
				return errors.Wrapf(err, "sweep point %d (n=%d)", i+1, configs[i].ObservationCount)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Geometric returns steps counts starting at start, each factor times the
// previous one (rounded to the nearest integer).
func Geometric(start int, factor float64, steps int) ([]int, error) {
	if start < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("start must be >= 1, got %d", start))
	}
	if !(factor > 1) || math.IsInf(factor, 0) {
		return nil, errors.InvalidInput(fmt.Sprintf("factor must be > 1, got %v", factor))
	}
	if steps < 1 {
		return nil, errors.InvalidInput(fmt.Sprintf("steps must be >= 1, got %d", steps))
	}

	counts := make([]int, steps)
	v := float64(start)
	for i := range counts {
		if v >= math.MaxInt64 {
			return nil, errors.InvalidInput(fmt.Sprintf("count overflows at step %d", i+1))
		}
		counts[i] = int(math.Round(v))
		v *= factor
	}
	return counts, nil
}

// ParseCounts parses a comma separated list such as "100,400,1600".
func ParseCounts(s string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 {
			return nil, errors.InvalidInput(fmt.Sprintf("invalid observation count %q", field))
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, errors.InvalidInput("no observation counts given")
	}
	return counts, nil
}
