// Package export renders dashboard summaries as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"staybook/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary  = "Summary"
	SheetCheckIns = "Check-ins"
)

// WriteSummary writes a workbook with the headline metrics and the daily
// check-in series.
func WriteSummary(w io.Writer, res models.SummaryResult, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	if err := writeMetrics(f, res, generatedAt); err != nil {
		return err
	}
	if err := writeSeries(f, res.Summary); err != nil {
		return err
	}

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeMetrics(f *excelize.File, res models.SummaryResult, generatedAt time.Time) error {
	_ = f.SetCellValue(SheetSummary, "A1", fmt.Sprintf("Generated %s", generatedAt.Format("2006-01-02 15:04")))
	_ = f.MergeCell(SheetSummary, "A1", "B1")

	rows := [][2]any{
		{"Metric", "Value"},
		{"Bookings today", res.TotalToday},
		{"Revenue", res.Revenue},
		{"Available rooms", res.AvailableRooms},
		{"Pending", res.Pending},
		{"Source", res.Source},
	}
	if len(res.Degraded) > 0 {
		rows = append(rows, [2]any{"Unavailable collections", strings.Join(res.Degraded, ", ")})
	}
	for i, row := range rows {
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", i+2), &[]any{row[0], row[1]}); err != nil {
			return fmt.Errorf("error writing metrics: %w", err)
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(SheetSummary, "A2", "B2", style)
	_ = f.SetColWidth(SheetSummary, "A", "A", 25)
	_ = f.SetColWidth(SheetSummary, "B", "B", 20)
	return nil
}

func writeSeries(f *excelize.File, s models.Summary) error {
	if _, err := f.NewSheet(SheetCheckIns); err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}

	_ = f.SetSheetRow(SheetCheckIns, "A1", &[]any{"Day", "Check-ins"})
	for i, label := range s.ChartLabels {
		var count int64
		if i < len(s.ChartData) {
			count = s.ChartData[i]
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetCheckIns, cell, &[]any{label, count}); err != nil {
			return fmt.Errorf("error writing series: %w", err)
		}
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(SheetCheckIns, "A1", "B1", style)
	_ = f.SetColWidth(SheetCheckIns, "A", "B", 15)
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}
