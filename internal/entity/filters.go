package entity

import (
	"fmt"
	"strings"
)

// AllValues is the filter sentinel matching every status or stage.
const AllValues = "all"

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func ParseSortDirection(s string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(s)) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", s)
}

func (d SortDirection) Reverse() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortConfig names a record field and a direction.
type SortConfig struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

var (
	DefaultLeadSort        = SortConfig{Field: "score", Direction: SortDesc}
	DefaultOpportunitySort = SortConfig{Field: "createdAt", Direction: SortDesc}
)

// LeadFilters: Status is a LeadStatus value or "all". Search is never persisted.
type LeadFilters struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

func DefaultLeadFilters() LeadFilters {
	return LeadFilters{Status: AllValues}
}

// OpportunityFilters: Stage is an OpportunityStage value or "all".
type OpportunityFilters struct {
	Search string `json:"search"`
	Stage  string `json:"stage"`
}

func DefaultOpportunityFilters() OpportunityFilters {
	return OpportunityFilters{Stage: AllValues}
}

// NormalizeStatusFilter accepts "all" or a valid status, case-insensitively.
func NormalizeStatusFilter(s string) (string, error) {
	if s == "" || strings.EqualFold(s, AllValues) {
		return AllValues, nil
	}
	st, err := ParseLeadStatus(s)
	if err != nil {
		return "", err
	}
	return string(st), nil
}

func NormalizeStageFilter(s string) (string, error) {
	if s == "" || strings.EqualFold(s, AllValues) {
		return AllValues, nil
	}
	st, err := ParseOpportunityStage(s)
	if err != nil {
		return "", err
	}
	return string(st), nil
}
