package fileio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xavierca1/seller-console/internal/entity"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// FileName is the download name, e.g. leads.csv.
func (f Format) FileName(collection string) string {
	return collection + "." + string(f)
}

var (
	leadHeader        = []string{"ID", "Name", "Company", "Email", "Source", "Score", "Status", "Created At"}
	opportunityHeader = []string{"ID", "Name", "Stage", "Amount", "Account Name", "Lead ID", "Created At"}
)

func leadRow(l entity.Lead) []string {
	return []string{
		l.ID,
		l.Name,
		l.Company,
		l.Email,
		l.Source,
		strconv.Itoa(l.Score),
		string(l.Status),
		l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func opportunityRow(o entity.Opportunity) []string {
	amount := ""
	if o.Amount != nil {
		amount = strconv.FormatFloat(*o.Amount, 'f', -1, 64)
	}
	return []string{
		o.ID,
		o.Name,
		string(o.Stage),
		amount,
		o.AccountName,
		o.LeadID,
		o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ExportLeads(w io.Writer, leads []entity.Lead, format Format) error {
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, leadRow(l))
	}
	return write(w, format, "Leads", leadHeader, rows, nonNil(leads))
}

func ExportOpportunities(w io.Writer, opps []entity.Opportunity, format Format) error {
	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, opportunityRow(o))
	}
	return write(w, format, "Opportunities", opportunityHeader, rows, nonNil(opps))
}

func write(w io.Writer, format Format, sheet string, header []string, rows [][]string, payload any) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, header, rows)
	case FormatXLSX:
		return writeExcel(w, sheet, header, rows)
	case FormatJSON:
		return writeJSON(w, payload)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

func writeExcel(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(header))
	f.SetColWidth(sheet, "A", last, 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
