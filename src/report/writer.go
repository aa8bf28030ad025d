// writer.go
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"QueueInsight/src/processor"
)

// WriteViewCSV writes one view as <dir>/<view name>.csv: header row of
// column names, then data rows, every value already text.
//
// Written with encoding/csv rather than gota: WriteCSV re-infers column
// types and reformats numerics, which would break the fixed text
// contract downstream report generators rely on.
func WriteViewCSV(v processor.View, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, v.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(v.Columns); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, row := range v.Rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}

// WriteCleanedCSV exports the full cleaned table for model training.
func WriteCleanedCSV(t *processor.Table, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, "cleaned.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	df := t.DataFrame()
	if df.Err != nil {
		return "", fmt.Errorf("render cleaned table: %w", df.Err)
	}
	if err := df.WriteCSV(f, dataframe.WriteHeader(true)); err != nil {
		return "", fmt.Errorf("write cleaned table: %w", err)
	}
	return path, nil
}

// WriteWorkbook bundles the views into one xlsx report, a sheet per view.
func WriteWorkbook(views []processor.View, path string) error {
	if len(views) == 0 {
		return fmt.Errorf("no views to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, v := range views {
		sheet := v.Name
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		for col, name := range v.Columns {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, name)
		}
		for rowIdx, row := range v.Rows {
			for colIdx, val := range row {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(sheet, cell, val)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
