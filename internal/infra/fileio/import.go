package fileio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/seller-console/internal/entity"
)

var (
	ErrUnsupportedFormat = errors.New("Unsupported file format. Please use CSV or JSON files.")
	ErrTooFewLines       = errors.New("CSV file must contain at least a header row and one data row")
	ErrNotAnArray        = errors.New("JSON file must contain an array of lead objects")
)

// requiredColumns must all be present in a CSV header, in any order.
var requiredColumns = []string{"name", "company", "email", "source", "score", "status"}

// ImportResult mirrors what the console shows after an upload. Errors holds
// the top-level failure or one "Row N: ..." line per rejected row.
type ImportResult struct {
	Success       bool          `json:"success"`
	Data          []entity.Lead `json:"data"`
	Errors        []string      `json:"errors"`
	ImportedCount int           `json:"importedCount"`
}

// ParseLeads picks the parser from the file extension. Every lead returned
// carries a fresh id; ids in the file are ignored.
func ParseLeads(filename string, content []byte, now time.Time) ImportResult {
	var (
		leads   []entity.Lead
		rowErrs []string
		err     error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		leads, rowErrs, err = ParseLeadsCSV(content, now)
	case ".json":
		leads, err = ParseLeadsJSON(content, now)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return ImportResult{Data: []entity.Lead{}, Errors: []string{err.Error()}}
	}

	if leads == nil {
		leads = []entity.Lead{}
	}
	if rowErrs == nil {
		rowErrs = []string{}
	}
	return ImportResult{
		Success:       true,
		Data:          leads,
		Errors:        rowErrs,
		ImportedCount: len(leads),
	}
}

// ParseLeadsCSV returns the valid rows and one message per invalid row.
// Row numbers count the header as row 1.
func ParseLeadsCSV(content []byte, now time.Time) ([]entity.Lead, []string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimSpace(content)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, ErrTooFewLines
	}

	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	var (
		leads   []entity.Lead
		rowErrs []string
	)
	for i, rec := range records[1:] {
		row := i + 2
		if len(rec) != len(records[0]) {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: Column count mismatch", row))
			continue
		}
		field := func(name string) string { return strings.TrimSpace(rec[index[name]]) }

		name, company, email := field("name"), field("company"), field("email")
		if name == "" || company == "" || email == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: Missing required fields", row))
			continue
		}

		score, err := strconv.Atoi(field("score"))
		if err != nil || score < 0 || score > 100 {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: Invalid score value", row))
			continue
		}

		status := entity.LeadStatusNew
		if raw := field("status"); raw != "" {
			if status, err = entity.ParseLeadStatus(raw); err != nil {
				rowErrs = append(rowErrs, fmt.Sprintf("Row %d: Invalid status value", row))
				continue
			}
		}

		leads = append(leads, entity.Lead{
			ID:        uuid.New().String(),
			Name:      name,
			Company:   company,
			Email:     email,
			Source:    field("source"),
			Score:     score,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return leads, rowErrs, nil
}

// jsonLead is the lenient shape accepted on import.
type jsonLead struct {
	Name      string     `json:"name"`
	Company   string     `json:"company"`
	Email     string     `json:"email"`
	Source    string     `json:"source"`
	Score     *int       `json:"score"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// ParseLeadsJSON accepts an array of lead objects. Any invalid item rejects
// the whole file.
func ParseLeadsJSON(content []byte, now time.Time) ([]entity.Lead, error) {
	leads, err := parseJSON(content, now)
	if err != nil {
		return nil, fmt.Errorf("Invalid JSON format: %w", err)
	}
	return leads, nil
}

func parseJSON(content []byte, now time.Time) ([]entity.Lead, error) {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotAnArray
	}

	var items []jsonLead
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after array")
	}

	leads := make([]entity.Lead, 0, len(items))
	for i, it := range items {
		item := i + 1
		if strings.TrimSpace(it.Name) == "" || strings.TrimSpace(it.Company) == "" || strings.TrimSpace(it.Email) == "" {
			return nil, fmt.Errorf("Item %d: Missing required fields", item)
		}

		lead := entity.Lead{
			ID:        uuid.New().String(),
			Name:      it.Name,
			Company:   it.Company,
			Email:     it.Email,
			Source:    it.Source,
			Status:    entity.LeadStatusNew,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if lead.Source == "" {
			lead.Source = "Unknown"
		}
		if it.Score != nil {
			if *it.Score < 0 || *it.Score > 100 {
				return nil, fmt.Errorf("Item %d: Invalid score value", item)
			}
			lead.Score = *it.Score
		}
		if it.Status != "" {
			st, err := entity.ParseLeadStatus(it.Status)
			if err != nil {
				return nil, fmt.Errorf("Item %d: Invalid status value", item)
			}
			lead.Status = st
		}
		if it.CreatedAt != nil {
			lead.CreatedAt = it.CreatedAt.UTC()
		}
		if it.UpdatedAt != nil {
			lead.UpdatedAt = it.UpdatedAt.UTC()
		}
		leads = append(leads, lead)
	}
	return leads, nil
}
