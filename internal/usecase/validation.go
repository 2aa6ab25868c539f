package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/xavierca1/seller-console/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LeadInput is the lead form. Score and Status are optional.
type LeadInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Source  string `json:"source"`
	Score   *int   `json:"score,omitempty"`
	Status  string `json:"status,omitempty"`
}

// OpportunityInput is the conversion form. An empty stage means prospecting.
type OpportunityInput struct {
	Name        string   `json:"name"`
	Stage       string   `json:"stage,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	AccountName string   `json:"accountName"`
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func ValidateLead(in LeadInput) []ValidationError {
	var errs []ValidationError

	if blank(in.Name) {
		errs = append(errs, ValidationError{"name", "Name is required"})
	}
	if blank(in.Company) {
		errs = append(errs, ValidationError{"company", "Company is required"})
	}
	if blank(in.Email) {
		errs = append(errs, ValidationError{"email", "Email is required"})
	} else if !emailPattern.MatchString(in.Email) {
		errs = append(errs, ValidationError{"email", "Please enter a valid email address"})
	}
	if blank(in.Source) {
		errs = append(errs, ValidationError{"source", "Source is required"})
	}
	if in.Score != nil && !validScore(*in.Score) {
		errs = append(errs, ValidationError{"score", "Score must be an integer between 0 and 100"})
	}
	if in.Status != "" {
		if _, err := entity.ParseLeadStatus(in.Status); err != nil {
			errs = append(errs, ValidationError{"status", "Status must be one of new, contacted, qualified, unqualified, converted"})
		}
	}
	return errs
}

func ValidateOpportunity(in OpportunityInput) []ValidationError {
	var errs []ValidationError

	if blank(in.Name) {
		errs = append(errs, ValidationError{"name", "Name is required"})
	}
	if blank(in.AccountName) {
		errs = append(errs, ValidationError{"accountName", "Account name is required"})
	}
	if in.Amount != nil && !validAmount(*in.Amount) {
		errs = append(errs, ValidationError{"amount", "Amount must be a positive number"})
	}
	if in.Stage != "" {
		if _, err := entity.ParseOpportunityStage(in.Stage); err != nil {
			errs = append(errs, ValidationError{"stage", "Stage must be one of prospecting, qualification, proposal, negotiation, closed_won, closed_lost"})
		}
	}
	return errs
}

// ValidateLeadPatch applies the lead rules to the fields present in p.
func ValidateLeadPatch(p entity.LeadPatch) []ValidationError {
	var errs []ValidationError
	if p.Name != nil && blank(*p.Name) {
		errs = append(errs, ValidationError{"name", "Name is required"})
	}
	if p.Company != nil && blank(*p.Company) {
		errs = append(errs, ValidationError{"company", "Company is required"})
	}
	if p.Email != nil {
		if blank(*p.Email) {
			errs = append(errs, ValidationError{"email", "Email is required"})
		} else if !emailPattern.MatchString(*p.Email) {
			errs = append(errs, ValidationError{"email", "Please enter a valid email address"})
		}
	}
	if p.Source != nil && blank(*p.Source) {
		errs = append(errs, ValidationError{"source", "Source is required"})
	}
	if p.Score != nil && !validScore(*p.Score) {
		errs = append(errs, ValidationError{"score", "Score must be an integer between 0 and 100"})
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, ValidationError{"status", "Status must be one of new, contacted, qualified, unqualified, converted"})
	}
	return errs
}

func ValidateOpportunityPatch(p entity.OpportunityPatch) []ValidationError {
	var errs []ValidationError
	if p.Name != nil && blank(*p.Name) {
		errs = append(errs, ValidationError{"name", "Name is required"})
	}
	if p.AccountName != nil && blank(*p.AccountName) {
		errs = append(errs, ValidationError{"accountName", "Account name is required"})
	}
	if p.Amount != nil && !validAmount(*p.Amount) {
		errs = append(errs, ValidationError{"amount", "Amount must be a positive number"})
	}
	if p.Stage != nil && !p.Stage.Valid() {
		errs = append(errs, ValidationError{"stage", "Stage must be one of prospecting, qualification, proposal, negotiation, closed_won, closed_lost"})
	}
	return errs
}

// ErrorsToMap keeps the last message per field.
func ErrorsToMap(errs []ValidationError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}

func validScore(score int) bool {
	return score >= 0 && score <= 100
}

func validAmount(amount float64) bool {
	return amount >= 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}
