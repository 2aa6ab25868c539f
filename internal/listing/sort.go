package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/xavierca1/seller-console/internal/entity"
)

var LeadSortFields = []string{"id", "name", "company", "email", "source", "score", "status", "createdAt", "updatedAt"}

var OpportunitySortFields = []string{"id", "name", "stage", "amount", "accountName", "leadId", "createdAt", "updatedAt"}

func IsLeadSortField(field string) bool {
	return slices.Contains(LeadSortFields, field)
}

func IsOpportunitySortField(field string) bool {
	return slices.Contains(OpportunitySortFields, field)
}

// SortLeads returns a stably sorted copy. Unknown fields compare equal so the
// input order is kept.
func SortLeads(leads []entity.Lead, sc entity.SortConfig) []entity.Lead {
	out := slices.Clone(leads)
	slices.SortStableFunc(out, func(a, b entity.Lead) int {
		return directed(compareLeadField(a, b, sc.Field), sc.Direction)
	})
	return out
}

// SortOpportunities sorts like SortLeads, except that opportunities without
// an amount always go after the ones with an amount, in either direction.
func SortOpportunities(opps []entity.Opportunity, sc entity.SortConfig) []entity.Opportunity {
	out := make([]entity.Opportunity, len(opps))
	for i, o := range opps {
		out[i] = o.Clone()
	}
	slices.SortStableFunc(out, func(a, b entity.Opportunity) int {
		if sc.Field == "amount" {
			switch {
			case a.Amount == nil && b.Amount == nil:
				return 0
			case a.Amount == nil:
				return 1
			case b.Amount == nil:
				return -1
			}
		}
		return directed(compareOpportunityField(a, b, sc.Field), sc.Direction)
	})
	return out
}

func directed(c int, d entity.SortDirection) int {
	if d == entity.SortDesc {
		return -c
	}
	return c
}

func compareLeadField(a, b entity.Lead, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "company":
		return strings.Compare(a.Company, b.Company)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "source":
		return strings.Compare(a.Source, b.Source)
	case "score":
		return cmp.Compare(a.Score, b.Score)
	case "status":
		return strings.Compare(string(a.Status), string(b.Status))
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}

func compareOpportunityField(a, b entity.Opportunity, field string) int {
	switch field {
	case "id":
		return strings.Compare(a.ID, b.ID)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "stage":
		return strings.Compare(string(a.Stage), string(b.Stage))
	case "amount":
		return cmp.Compare(*a.Amount, *b.Amount)
	case "accountName":
		return strings.Compare(a.AccountName, b.AccountName)
	case "leadId":
		return strings.Compare(a.LeadID, b.LeadID)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return 0
}
