package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"fieldaudit/internal/modules/report/domain"
	reportout "fieldaudit/internal/modules/report/port/out"
)

const FormatXLSX = "xlsx"

type XLSXWriter struct{}

func NewXLSXWriter() reportout.Writer {
	return XLSXWriter{}
}

func (XLSXWriter) Format() string { return FormatXLSX }

func (XLSXWriter) Write(_ context.Context, dir string, report domain.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := domain.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(report.Table.Headers))
	for i, h := range report.Table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return "", fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return "", fmt.Errorf("apply header style: %w", err)
	}

	for i, row := range report.Table.Rows {
		values := []any{row.ID, row.AreaCode, row.TypeLabel, domain.FormatRate(row.QualityRate), domain.FormatRate(row.ProblemRate)}
		for _, n := range row.Counts {
			values = append(values, n)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	path := filepath.Join(dir, report.FileName+".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
