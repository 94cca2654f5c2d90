// Package export serializes the current grid view to a downloadable
// spreadsheet. It operates on the full filtered-and-sorted view last computed
// by the engine, not just the page the client happens to be looking at.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/asaidimu/go-gridview/core/grid"
	"github.com/asaidimu/go-gridview/core/table"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SheetName is the single sheet every export carries.
const SheetName = "Report"

// EmptyExportError signals that an export was requested with nothing to
// export: either no query has run yet or the current view is empty. It is a
// no-op signal, not a failure; no file is produced.
type EmptyExportError struct {
	Report string
}

func (e *EmptyExportError) Error() string {
	if e.Report == "" {
		return "nothing to export: no query has been run"
	}
	return fmt.Sprintf("nothing to export for report %q", e.Report)
}

// Exporter writes views to xlsx workbooks.
type Exporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates an exporter. A nil logger substitutes a no-op logger.
func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger, now: time.Now}
}

// Export serializes a view into a one-sheet workbook: header row of column
// names, then every view row in view order. The returned filename embeds the
// report kind and a minute-resolution timestamp so repeated exports do not
// collide. A nil or empty view yields an *EmptyExportError and no file.
func (x *Exporter) Export(report string, view *grid.View) (string, []byte, error) {
	if view == nil || view.Len() == 0 {
		x.logger.Info("Export requested with no data", zap.String("report", report))
		return "", nil, &EmptyExportError{Report: report}
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return "", nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := view.Columns()
	header := make([]any, len(columns))
	for i, name := range columns {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for r := 0; r < view.Len(); r++ {
		row := make([]any, len(columns))
		for c, name := range columns {
			cell, _ := view.Cell(r, name)
			row[c] = cellValue(cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return "", nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return "", nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := Filename(report, x.now())
	x.logger.Info("Export written",
		zap.String("report", report),
		zap.String("filename", filename),
		zap.Int("rows", view.Len()))
	return filename, bytes.Clone(buf.Bytes()), nil
}

// Filename builds the timestamped export filename for a report kind.
func Filename(report string, at time.Time) string {
	return fmt.Sprintf("%s_report_%s.xlsx", strings.ToLower(report), at.Format("20060102_1504"))
}

// cellValue maps a tagged cell to what the workbook stores. Timestamps export
// in their canonical ISO form so spreadsheet sort matches the grid.
func cellValue(cell table.Value) any {
	if cell.Kind() == table.KindTime {
		return cell.String()
	}
	return cell.Native()
}
