package ports

import (
	"context"

	"simcross/internal/crosssim"
)

// SimulatorPort generates crossed random-effects datasets.
type SimulatorPort interface {
	Simulate(ctx context.Context, cfg crosssim.SimulationConfig) (*crosssim.SimulatedDataset, error)
}

var _ SimulatorPort = (*crosssim.Simulator)(nil)
