package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the closed set of pipeline positions a lead can be in.
type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusUnqualified LeadStatus = "unqualified"
	LeadStatusConverted   LeadStatus = "converted"
)

// LeadStatuses lists every status in display order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusUnqualified,
	LeadStatusConverted,
}

func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(strings.ToLower(strings.TrimSpace(s))) {
	case LeadStatusNew:
		return LeadStatusNew, nil
	case LeadStatusContacted:
		return LeadStatusContacted, nil
	case LeadStatusQualified:
		return LeadStatusQualified, nil
	case LeadStatusUnqualified:
		return LeadStatusUnqualified, nil
	case LeadStatusConverted:
		return LeadStatusConverted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

func (s LeadStatus) Valid() bool {
	_, err := ParseLeadStatus(string(s))
	return err == nil
}

func (s LeadStatus) Label() string {
	switch s {
	case LeadStatusNew:
		return "New"
	case LeadStatusContacted:
		return "Contacted"
	case LeadStatusQualified:
		return "Qualified"
	case LeadStatusUnqualified:
		return "Unqualified"
	case LeadStatusConverted:
		return "Converted"
	}
	panic(fmt.Sprintf("entity: unhandled lead status %q", string(s)))
}

// Color returns the palette color of the status badge.
func (s LeadStatus) Color() Color {
	switch s {
	case LeadStatusNew:
		return ColorBlue
	case LeadStatusContacted:
		return ColorYellow
	case LeadStatusQualified:
		return ColorGreen
	case LeadStatusUnqualified:
		return ColorRed
	case LeadStatusConverted:
		return ColorPurple
	}
	panic(fmt.Sprintf("entity: unhandled lead status %q", string(s)))
}

// Lead is a prospective customer record prior to conversion.
type Lead struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Company   string     `json:"company"`
	Email     string     `json:"email"`
	Source    string     `json:"source"`
	Score     int        `json:"score"`
	Status    LeadStatus `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// NewLead stamps a fresh id and timestamps. Validation lives in the usecase layer.
func NewLead(name, company, email, source string, score int, status LeadStatus) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Company:   company,
		Email:     email,
		Source:    source,
		Score:     score,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LeadPatch carries a partial update. Nil fields are left untouched.
type LeadPatch struct {
	Name    *string     `json:"name,omitempty"`
	Company *string     `json:"company,omitempty"`
	Email   *string     `json:"email,omitempty"`
	Source  *string     `json:"source,omitempty"`
	Score   *int        `json:"score,omitempty"`
	Status  *LeadStatus `json:"status,omitempty"`
}

func (p LeadPatch) IsEmpty() bool {
	return p.Name == nil && p.Company == nil && p.Email == nil &&
		p.Source == nil && p.Score == nil && p.Status == nil
}

// Apply returns a copy of l merged with the patch and updatedAt set to now.
func (p LeadPatch) Apply(l Lead, now time.Time) Lead {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Score != nil {
		l.Score = *p.Score
	}
	if p.Status != nil {
		// stored statuses are always the canonical lowercase value
		if st, err := ParseLeadStatus(string(*p.Status)); err == nil {
			l.Status = st
		}
	}
	l.UpdatedAt = now
	return l
}
