package main

import (
	"fmt"
	"path/filepath"

	"simcross/adapters/excel"
	"simcross/adapters/payload"
	"simcross/internal/config"
	"simcross/internal/crosssim"
	"simcross/internal/report"

	"github.com/spf13/cobra"
)

func newSimulateCmd(appConfig *config.Config) *cobra.Command {
	var (
		out     string
		format  string
		xlsxOut string
		csvOut  string
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a dataset and write its data file",
		Example: `  simcross simulate -n 5000 --seed 7 --out crossed.json
  simcross simulate --scenario scenarios.yaml --name large --out large.data.R`,
		Args: cobra.NoArgs,
	}
	flags := addConfigFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "payload path (default <SIMCROSS_OUTPUT_DIR>/crossed.<format>)")
	cmd.Flags().StringVar(&format, "format", "", "payload format: json or rdump (default from --out, else SIMCROSS_FORMAT)")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "also export the long table and diagnostics to this XLSX file")
	cmd.Flags().StringVar(&csvOut, "csv", "", "also export the long table to this CSV file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print diagnostics")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.resolve(cmd.Flags())
		if err != nil {
			return err
		}

		f, path, err := payloadTarget(appConfig, out, format)
		if err != nil {
			return err
		}

		ds, err := crosssim.NewSimulator().Simulate(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		diag := crosssim.Summarize(ds)

		if err := payload.WriteFile(path, f, payload.FromDataset(ds)); err != nil {
			return err
		}
		appConfig.Logger(cmd.ErrOrStderr()).Info("wrote %s payload to %s (N=%d)", f, path, ds.N)

		if xlsxOut != "" {
			if err := excel.WriteXLSX(xlsxOut, ds, diag); err != nil {
				return fmt.Errorf("export xlsx: %w", err)
			}
		}
		if csvOut != "" {
			if err := excel.WriteCSV(csvOut, ds); err != nil {
				return fmt.Errorf("export csv: %w", err)
			}
		}

		if quiet {
			return nil
		}
		return report.Text(cmd.OutOrStdout(), diag)
	}
	return cmd
}

// payloadTarget settles the format and path of the payload file. An explicit
// --format wins, then the --out extension, then SIMCROSS_FORMAT.
func payloadTarget(appConfig *config.Config, out, format string) (payload.Format, string, error) {
	var f payload.Format
	var err error
	switch {
	case format != "":
		f, err = payload.ParseFormat(format)
	case out != "":
		f = payload.FormatForPath(out)
	default:
		f, err = payload.ParseFormat(appConfig.Output.Format)
	}
	if err != nil {
		return "", "", err
	}

	if out == "" {
		ext := ".json"
		if f == payload.FormatRDump {
			ext = ".data.R"
		}
		out = filepath.Join(appConfig.Output.Dir, "crossed"+ext)
	}
	return f, out, nil
}
