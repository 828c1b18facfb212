package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter renders report rows into a downloadable file.
type ReportExporter interface {
	ExportActivities(format string, rows []ActivityReportRow) ([]byte, string, string, error)
	ExportRoster(format string, activity ActivityReportRow, rows []RosterReportRow) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

//// ============================
/// ACTIVITY TABLE EXPORTS
//// ============================

var activityHeaders = []string{
	"ID", "Title", "Category", "Host", "Location", "Start", "End",
	"Participants", "Capacity", "Status",
}

func activityCells(row ActivityReportRow) []string {
	end := ""
	if row.EndDateTime != nil {
		end = formatTime(*row.EndDateTime)
	}
	return []string{
		row.ID,
		row.Title,
		row.Category,
		row.HostName,
		row.LocationName,
		formatTime(row.StartDateTime),
		end,
		strconv.Itoa(row.CurrentParticipants),
		strconv.Itoa(row.MaxParticipants),
		row.Status,
	}
}

func (e *reportExporter) ExportActivities(format string, rows []ActivityReportRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatCSV:
		data, err := exportCSV(activityHeaders, rows, activityCells)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("activities_%s.csv", timestamp), "text/csv", nil

	case FormatExcel:
		data, err := exportExcel("Activities", activityHeaders, rows, activityCells)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("activities_%s.xlsx", timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		widths := []float64{42, 45, 22, 28, 35, 26, 26, 18, 15, 16}
		data, err := exportPDF("Activities Report", widths, activityHeaders, rows, activityCells)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("activities_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

//// ============================
/// ROSTER EXPORTS
//// ============================

var rosterHeaders = []string{"User ID", "Name", "Email", "University", "Role"}

func rosterCells(row RosterReportRow) []string {
	role := "participant"
	if row.IsHost {
		role = "host"
	}
	return []string{row.UserID, row.Name, row.Email, row.University, role}
}

func (e *reportExporter) ExportRoster(format string, activity ActivityReportRow, rows []RosterReportRow) ([]byte, string, string, error) {
	timestamp := time.Now().Format("20060102_150405")

	switch format {
	case FormatCSV:
		data, err := exportCSV(rosterHeaders, rows, rosterCells)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("roster_%s_%s.csv", activity.ID, timestamp), "text/csv", nil

	case FormatExcel:
		data, err := exportExcel("Roster", rosterHeaders, rows, rosterCells)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("roster_%s_%s.xlsx", activity.ID, timestamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		widths := []float64{60, 40, 60, 60, 25}
		title := fmt.Sprintf("Roster - %s", activity.Title)
		data, err := exportPDF(title, widths, rosterHeaders, rows, rosterCells)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("roster_%s_%s.pdf", activity.ID, timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

//// ============================
/// FORMAT BACKENDS
//// ============================

func exportCSV[T any](headers []string, rows []T, cells func(T) []string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(cells(row)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel[T any](sheet string, headers []string, rows []T, cells func(T) []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range cells(row) {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF[T any](title string, widths []float64, headers []string, rows []T, cells func(T) []string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for i, value := range cells(row) {
			pdf.CellFormat(widths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
