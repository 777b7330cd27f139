// Package report exports reconciliation outcomes as Excel workbooks for
// the purchasing team.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

const sheetName = "Deviations"

var headers = []string{
	"Result ID", "Order ID", "Confirmation ID", "Reconciled At",
	"Status", "Deviation Types", "Qty Deviation", "Qty Deviation %",
	"Price Deviation", "Price Deviation %", "Within Qty Tolerance",
	"Within Price Tolerance", "Justification",
}

// ExcelExporter writes deviation reports as xlsx workbooks.
type ExcelExporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(outputDir string, logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{outputDir: outputDir, logger: logger}
}

// Export writes one workbook listing the given results and returns its
// path. Rows keep the store ordering.
func (e *ExcelExporter) Export(results []*entity.ReconciliationResult) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Warn("Failed to drop default sheet", zap.Error(err))
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		e.setCell(f, cell, header)
	}

	for i, r := range results {
		row := i + 2
		e.setRow(f, row, []interface{}{
			r.ID,
			r.OrderID,
			r.ConfirmationID,
			r.ReconciledAt.Format("2006-01-02"),
			r.Status,
			typesLabel(r.DeviationTypes),
			floatCell(r.QuantityDeviation),
			floatCell(r.QuantityDeviationPercent),
			floatCell(r.PriceDeviation),
			floatCell(r.PriceDeviationPercent),
			r.WithinQuantityTolerance,
			r.WithinPriceTolerance,
			r.Justification,
		})
	}

	path := filepath.Join(e.outputDir,
		fmt.Sprintf("deviation_report_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	e.logger.Info("Deviation report written",
		zap.String("path", path),
		zap.Int("rows", len(results)))

	return path, nil
}

func (e *ExcelExporter) setRow(f *excelize.File, row int, values []interface{}) {
	for col, value := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		e.setCell(f, cell, value)
	}
}

func (e *ExcelExporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func typesLabel(types []entity.DeviationType) string {
	label := ""
	for i, t := range types {
		if i > 0 {
			label += ", "
		}
		label += string(t)
	}
	return label
}

// floatCell keeps absent values as empty cells instead of zeros.
func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
