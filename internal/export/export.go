// Package export writes portal listings to .xlsx workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/wara-ops/dataportal/internal/portal"
)

// Sheet is the worksheet listings are written to.
const Sheet = "Sheet1"

var (
	datasetHeader = []any{"DatasetID", "DatasetName", "CreateDate", "Category", "Organization"}
	fileHeader    = []any{"FileID", "FileName", "OriginName", "StartDate", "StopDate", "FileSize", "MetricEntries", "MetricType", "Extra"}
)

// Datasets writes one row per dataset below a bold header.
func Datasets(path string, datasets []portal.Dataset) error {
	rows := make([][]any, len(datasets))
	for i, d := range datasets {
		rows[i] = []any{d.DatasetID, d.DatasetName, d.CreateDate, d.Category, d.Organization}
	}
	return write(path, datasetHeader, rows)
}

// Files writes one row per file. Values the portal left out become empty
// cells.
func Files(path string, files []portal.File) error {
	rows := make([][]any, len(files))
	for i, f := range files {
		rows[i] = []any{
			f.FileID, f.MFileName, f.OriginName,
			deref(f.StartDate), deref(f.StopDate),
			f.FileSize, deref(f.MetricEntries), deref(f.MetricType),
			yesNo(f.IsExtra()),
		}
	}
	return write(path, fileHeader, rows)
}

func write(path string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export style: %w", err)
	}

	if err := f.SetSheetRow(Sheet, "A1", &header); err != nil {
		return fmt.Errorf("export header: %w", err)
	}
	if err := f.SetRowStyle(Sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("export header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			return fmt.Errorf("export row %d: %w", i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(Sheet, "A", last, 20); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// deref returns the pointed-to value, or nil so the cell stays empty.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
