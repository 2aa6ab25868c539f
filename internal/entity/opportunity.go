package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OpportunityStage is the closed set of sales pipeline stages.
type OpportunityStage string

const (
	StageProspecting   OpportunityStage = "prospecting"
	StageQualification OpportunityStage = "qualification"
	StageProposal      OpportunityStage = "proposal"
	StageNegotiation   OpportunityStage = "negotiation"
	StageClosedWon     OpportunityStage = "closed_won"
	StageClosedLost    OpportunityStage = "closed_lost"
)

var OpportunityStages = []OpportunityStage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

func ParseOpportunityStage(s string) (OpportunityStage, error) {
	switch OpportunityStage(strings.ToLower(strings.TrimSpace(s))) {
	case StageProspecting:
		return StageProspecting, nil
	case StageQualification:
		return StageQualification, nil
	case StageProposal:
		return StageProposal, nil
	case StageNegotiation:
		return StageNegotiation, nil
	case StageClosedWon:
		return StageClosedWon, nil
	case StageClosedLost:
		return StageClosedLost, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
}

func (s OpportunityStage) Valid() bool {
	_, err := ParseOpportunityStage(string(s))
	return err == nil
}

func (s OpportunityStage) Label() string {
	switch s {
	case StageProspecting:
		return "Prospecting"
	case StageQualification:
		return "Qualification"
	case StageProposal:
		return "Proposal"
	case StageNegotiation:
		return "Negotiation"
	case StageClosedWon:
		return "Closed Won"
	case StageClosedLost:
		return "Closed Lost"
	}
	panic(fmt.Sprintf("entity: unhandled opportunity stage %q", string(s)))
}

func (s OpportunityStage) Color() Color {
	switch s {
	case StageProspecting:
		return ColorBlue
	case StageQualification:
		return ColorYellow
	case StageProposal:
		return ColorOrange
	case StageNegotiation:
		return ColorPurple
	case StageClosedWon:
		return ColorGreen
	case StageClosedLost:
		return ColorRed
	}
	panic(fmt.Sprintf("entity: unhandled opportunity stage %q", string(s)))
}

// Opportunity is a sales pipeline record created from a converted lead.
type Opportunity struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Stage       OpportunityStage `json:"stage"`
	Amount      *float64         `json:"amount,omitempty"`
	AccountName string           `json:"accountName"`
	LeadID      string           `json:"leadId"` // reference to the originating lead, not ownership
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// NewOpportunityFromLead links a new opportunity to the lead it came from.
func NewOpportunityFromLead(leadID, name string, stage OpportunityStage, amount *float64, accountName string) *Opportunity {
	now := time.Now().UTC()
	return &Opportunity{
		ID:          uuid.New().String(),
		Name:        name,
		Stage:       stage,
		Amount:      copyFloat(amount),
		AccountName: accountName,
		LeadID:      leadID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// OpportunityPatch carries a partial update. ClearAmount removes the amount.
type OpportunityPatch struct {
	Name        *string           `json:"name,omitempty"`
	Stage       *OpportunityStage `json:"stage,omitempty"`
	Amount      *float64          `json:"amount,omitempty"`
	ClearAmount bool              `json:"clearAmount,omitempty"`
	AccountName *string           `json:"accountName,omitempty"`
}

func (p OpportunityPatch) IsEmpty() bool {
	return p.Name == nil && p.Stage == nil && p.Amount == nil && !p.ClearAmount && p.AccountName == nil
}

func (p OpportunityPatch) Apply(o Opportunity, now time.Time) Opportunity {
	o.Amount = copyFloat(o.Amount)
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Stage != nil {
		if st, err := ParseOpportunityStage(string(*p.Stage)); err == nil {
			o.Stage = st
		}
	}
	if p.ClearAmount {
		o.Amount = nil
	}
	if p.Amount != nil {
		o.Amount = copyFloat(p.Amount)
	}
	if p.AccountName != nil {
		o.AccountName = *p.AccountName
	}
	o.UpdatedAt = now
	return o
}

// Clone deep-copies the optional amount so snapshots never alias.
func (o Opportunity) Clone() Opportunity {
	o.Amount = copyFloat(o.Amount)
	return o
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
