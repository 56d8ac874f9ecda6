package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"simcross/internal/config"
	"simcross/internal/crosssim"
	"simcross/internal/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd(appConfig *config.Config) *cobra.Command {
	var (
		counts      string
		start       int
		factor      float64
		steps       int
		simulate    bool
		concurrency int
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Show how R and C scale across observation counts",
		Example: `  simcross sweep --row-exponent 0.5 --column-exponent 0.5 --start 100 --factor 4 --steps 5
  simcross sweep --counts 1000,10000,100000 --simulate`,
		Args: cobra.NoArgs,
	}
	flags := addConfigFlags(cmd)
	cmd.Flags().StringVar(&counts, "counts", "", "comma separated observation counts")
	cmd.Flags().IntVar(&start, "start", 100, "first observation count when --counts is not given")
	cmd.Flags().Float64Var(&factor, "factor", 4, "growth factor between counts")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of counts")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "run the simulation at every count")
	cmd.Flags().IntVar(&concurrency, "concurrency", appConfig.Limits.SweepConcurrency, "simultaneous simulations")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print points as JSON")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		base, err := flags.resolve(cmd.Flags())
		if err != nil {
			return err
		}

		var ns []int
		if counts != "" {
			ns, err = sweep.ParseCounts(counts)
		} else {
			ns, err = sweep.Geometric(start, factor, steps)
		}
		if err != nil {
			return err
		}

		points, err := sweep.Run(cmd.Context(), crosssim.NewSimulator(), base, ns, sweep.Options{
			Simulate:    simulate,
			Concurrency: concurrency,
			Logger:      appConfig.Logger(cmd.ErrOrStderr()),
		})
		if err != nil {
			return err
		}

		if jsonOut {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(points)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "n\tR\tC\tR growth\tC growth\tnonempty rows\tnonempty cols\tnote")
		for _, p := range points {
			rows, cols, note := "-", "-", p.Error
			if p.Diagnostics != nil {
				rows = fmt.Sprint(p.Diagnostics.NonemptyRows)
				cols = fmt.Sprint(p.Diagnostics.NonemptyColumns)
			}
			fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
				p.ObservationCount, p.R, p.C, growth(p.RowGrowth), growth(p.ColumnGrowth), rows, cols, note)
		}
		return tw.Flush()
	}
	return cmd
}

func growth(g float64) string {
	if g == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3fx", g)
}
