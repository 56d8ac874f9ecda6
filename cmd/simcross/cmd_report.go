package main

import (
	"fmt"

	"simcross/internal/crosssim"
	"simcross/internal/report"

	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var html bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Simulate a dataset and print its diagnostics as markdown or HTML",
		Args:  cobra.NoArgs,
	}
	flags := addConfigFlags(cmd)
	cmd.Flags().BoolVar(&html, "html", false, "render HTML instead of markdown")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		ds, err := crosssim.NewSimulator().Simulate(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		diag := crosssim.Summarize(ds)
		if html {
			_, err = cmd.OutOrStdout().Write(report.HTML(cfg, diag))
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), report.Markdown(cfg, diag))
		return err
	}
	return cmd
}
