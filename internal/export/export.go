// Package export renders local snapshots of gateway collections. These are
// built from already-fetched data; the server-side report files stay a
// backend concern reached through the download passthrough.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"smartcopro-dashboard/internal/upstream"
)

// BuildReadingsXLSX renders the readings log as a spreadsheet.
func BuildReadingsXLSX(readings []upstream.Reading) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "readings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Meter", "Value", "Logged At", "Comment"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, header)
	}
	for row, reading := range readings {
		values := []any{reading.ID, reading.MeterReference, reading.Value, reading.Timestamp, reading.Comment}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildAlertsPDF renders the detected-alerts list as a PDF.
func BuildAlertsPDF(alerts []upstream.Alert) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Consumption Alerts")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Exported: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Alerts: %d", len(alerts)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 6, "Meter", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Detected", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Handled", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, alert := range alerts {
		handled := "no"
		if alert.Handled {
			handled = "yes"
		}
		pdf.CellFormat(30, 6, alert.MeterReference, "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, alert.ThresholdType, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, alert.DetectionDate, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, handled, "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 6, truncate(alert.Description, 40), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate shortens on rune boundaries; byte slicing would split accented
// characters in the French descriptions.
func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
