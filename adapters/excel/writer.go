package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"simcross/internal/crosssim"
	"simcross/internal/errors"

	"github.com/xuri/excelize/v2"
)

const (
	ObservationsSheet = "observations"
	DiagnosticsSheet  = "diagnostics"

	// maxSheetRows is the XLSX row limit, header included.
	maxSheetRows = 1048576
)

// Header is the long-format header shared by the XLSX and CSV exports.
var Header = []string{"row", "col", "y"}

// WriteXLSX writes ds as a long table on the observations sheet and the
// diagnostics as key/value rows on a second sheet.
func WriteXLSX(path string, ds *crosssim.SimulatedDataset, diag crosssim.Diagnostics) error {
	if ds.N+1 > maxSheetRows {
		return errors.CapacityExceeded(fmt.Sprintf(
			"%d observations exceed the XLSX limit of %d rows", ds.N, maxSheetRows-1))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ObservationsSheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(ObservationsSheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []interface{}{Header[0], Header[1], Header[2]}); err != nil {
		return err
	}
	for n := 0; n < ds.N; n++ {
		cell, _ := excelize.CoordinatesToCellName(1, n+2)
		if err := sw.SetRow(cell, []interface{}{ds.RowIndex[n], ds.ColIndex[n], ds.Value[n]}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if _, err := f.NewSheet(DiagnosticsSheet); err != nil {
		return err
	}
	for i, kv := range diagnosticRows(ds.Config, diag) {
		keyCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(DiagnosticsSheet, keyCell, kv.key); err != nil {
			return err
		}
		if err := f.SetCellValue(DiagnosticsSheet, valueCell, kv.value); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

// WriteCSV writes ds as a long table with the row,col,y header.
func WriteCSV(path string, ds *crosssim.SimulatedDataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return err
	}
	record := make([]string, 3)
	for n := 0; n < ds.N; n++ {
		record[0] = strconv.Itoa(ds.RowIndex[n])
		record[1] = strconv.Itoa(ds.ColIndex[n])
		record[2] = strconv.FormatFloat(ds.Value[n], 'g', -1, 64)
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

type keyValue struct {
	key   string
	value interface{}
}

func diagnosticRows(cfg crosssim.SimulationConfig, d crosssim.Diagnostics) []keyValue {
	return []keyValue{
		{"observation_count", cfg.ObservationCount},
		{"row_exponent", cfg.RowExponent},
		{"column_exponent", cfg.ColumnExponent},
		{"row_variance", cfg.RowVariance},
		{"column_variance", cfg.ColumnVariance},
		{"noise_variance", cfg.NoiseVariance},
		{"intercept", cfg.Intercept},
		{"seed", cfg.Seed},
		{"R", d.R},
		{"C", d.C},
		{"N", d.N},
		{"nonempty_rows", d.NonemptyRows},
		{"nonempty_columns", d.NonemptyColumns},
		{"min_per_row", d.MinPerRow},
		{"max_per_row", d.MaxPerRow},
		{"min_per_column", d.MinPerColumn},
		{"max_per_column", d.MaxPerColumn},
		{"mean_y", d.MeanY},
		{"variance_y", d.VarianceY},
	}
}
