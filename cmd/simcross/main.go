package main

import (
	"fmt"
	"log"
	"os"

	"simcross/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := newRootCmd(appConfig).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(appConfig *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simcross",
		Short: "Simulate crossed random-effects datasets",
		Long: `simcross generates synthetic rows x columns datasets with crossed random
effects and writes them as data files for an external model-fitting tool.

Rows and columns scale as R = ceil(n^row_exponent), C = ceil(n^column_exponent).`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSimulateCmd(appConfig),
		newDimsCmd(),
		newSweepCmd(appConfig),
		newReportCmd(),
	)
	return rootCmd
}
