package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/realtyaura/aura/pkg/scoring"
)

// Format is an export file format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
)

const sheetName = "Lead Scores"

var headers = []string{
	"Contact ID", "Name", "Email", "Phone", "Lead Status", "Source", "Score",
	"Lead Status Points", "Source Points", "Recency Points", "Engagement Points", "Intent Points",
	"Priority", "Recommendation",
}

var factorOrder = []string{
	scoring.FactorLeadStatus, scoring.FactorSource, scoring.FactorRecency,
	scoring.FactorEngagement, scoring.FactorIntent,
}

// ParseFormat maps a query value to a Format, defaulting to CSV
func ParseFormat(v string) (Format, error) {
	switch v {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatExcel, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", v)
	}
}

// ContentType returns the MIME type served for f
func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename returns the download name for f
func (f Format) Filename() string {
	return "lead_scores." + string(f)
}

// LeadScores renders scores in the requested format
func LeadScores(scores []scoring.LeadScore, f Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatExcel:
		err = WriteExcel(&buf, scores)
	default:
		err = WriteCSV(&buf, scores)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(s scoring.LeadScore) []string {
	out := []string{
		strconv.FormatInt(s.ContactID, 10), s.Name, s.Email, s.Phone, s.LeadStatus, s.Source,
		strconv.FormatFloat(s.Score, 'f', 1, 64),
	}
	for _, k := range factorOrder {
		out = append(out, strconv.FormatFloat(s.Breakdown[k], 'f', 1, 64))
	}
	return append(out, s.PriorityLevel, s.Recommendation)
}

// WriteCSV writes scores as CSV with a header row
func WriteCSV(w io.Writer, scores []scoring.LeadScore) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range scores {
		if err := writer.Write(row(s)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteExcel writes scores as a single-sheet workbook
func WriteExcel(w io.Writer, scores []scoring.LeadScore) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, s := range scores {
		r := i + 2
		values := []any{s.ContactID, s.Name, s.Email, s.Phone, s.LeadStatus, s.Source, s.Score}
		for _, k := range factorOrder {
			values = append(values, s.Breakdown[k])
		}
		values = append(values, s.PriorityLevel, s.Recommendation)

		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "A", last, 16)
	f.SetActiveSheet(index)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
