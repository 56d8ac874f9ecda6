package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"simcross/internal/crosssim"
	"simcross/internal/scenario"
)

// configFlags binds every SimulationConfig field to a flag. Values from a
// scenario file are the base; flags given explicitly override them.
type configFlags struct {
	cfg          crosssim.SimulationConfig
	scenarioPath string
	scenarioName string
}

func addConfigFlags(cmd *cobra.Command) *configFlags {
	f := &configFlags{cfg: crosssim.DefaultConfig()}
	fs := cmd.Flags()
	fs.IntVarP(&f.cfg.ObservationCount, "observations", "n", f.cfg.ObservationCount, "number of observations")
	fs.Float64Var(&f.cfg.RowExponent, "row-exponent", f.cfg.RowExponent, "R = ceil(n^row-exponent)")
	fs.Float64Var(&f.cfg.ColumnExponent, "column-exponent", f.cfg.ColumnExponent, "C = ceil(n^column-exponent)")
	fs.Float64Var(&f.cfg.RowVariance, "row-variance", f.cfg.RowVariance, "variance of the row effects")
	fs.Float64Var(&f.cfg.ColumnVariance, "column-variance", f.cfg.ColumnVariance, "variance of the column effects")
	fs.Float64Var(&f.cfg.NoiseVariance, "noise-variance", f.cfg.NoiseVariance, "residual variance")
	fs.Float64Var(&f.cfg.Intercept, "intercept", f.cfg.Intercept, "global mean")
	fs.Int64Var(&f.cfg.Seed, "seed", f.cfg.Seed, "random seed")
	fs.StringVar(&f.scenarioPath, "scenario", "", "YAML scenario file")
	fs.StringVar(&f.scenarioName, "name", "", "scenario to use from --scenario (default: first)")
	return f
}

// resolve returns the effective config for cmd.
func (f *configFlags) resolve(fs *pflag.FlagSet) (crosssim.SimulationConfig, error) {
	if f.scenarioPath == "" {
		return f.cfg, nil
	}

	file, err := scenario.Load(f.scenarioPath)
	if err != nil {
		return crosssim.SimulationConfig{}, err
	}
	s := file.Scenarios[0]
	if f.scenarioName != "" {
		if s, err = file.Find(f.scenarioName); err != nil {
			return crosssim.SimulationConfig{}, err
		}
	}

	cfg := s.SimulationConfig
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "observations":
			cfg.ObservationCount = f.cfg.ObservationCount
		case "row-exponent":
			cfg.RowExponent = f.cfg.RowExponent
		case "column-exponent":
			cfg.ColumnExponent = f.cfg.ColumnExponent
		case "row-variance":
			cfg.RowVariance = f.cfg.RowVariance
		case "column-variance":
			cfg.ColumnVariance = f.cfg.ColumnVariance
		case "noise-variance":
			cfg.NoiseVariance = f.cfg.NoiseVariance
		case "intercept":
			cfg.Intercept = f.cfg.Intercept
		case "seed":
			cfg.Seed = f.cfg.Seed
		}
	})
	return cfg, nil
}
