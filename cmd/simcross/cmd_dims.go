package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDimsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dims",
		Short: "Print the row and column counts a config implies",
		Args:  cobra.NoArgs,
	}
	flags := addConfigFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.resolve(cmd.Flags())
		if err != nil {
			return err
		}
		rows, cols, err := cfg.Dimensions()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "n=%d R=%d C=%d\n", cfg.ObservationCount, rows, cols)
		return nil
	}
	return cmd
}
