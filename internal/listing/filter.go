// Package listing holds the pure filter, sort and paginate steps used to
// render lead and opportunity lists.
package listing

import (
	"strings"

	"github.com/xavierca1/seller-console/internal/entity"
)

// FilterLeads keeps the leads whose name or company contains the search text
// (case-insensitive) and whose status matches, unless the filter is "all".
func FilterLeads(leads []entity.Lead, f entity.LeadFilters) []entity.Lead {
	search := strings.ToLower(f.Search)
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if search != "" &&
			!strings.Contains(strings.ToLower(l.Name), search) &&
			!strings.Contains(strings.ToLower(l.Company), search) {
			continue
		}
		if !matchesEnum(f.Status, string(l.Status)) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// FilterOpportunities matches search against name and account name.
func FilterOpportunities(opps []entity.Opportunity, f entity.OpportunityFilters) []entity.Opportunity {
	search := strings.ToLower(f.Search)
	out := make([]entity.Opportunity, 0, len(opps))
	for _, o := range opps {
		if search != "" &&
			!strings.Contains(strings.ToLower(o.Name), search) &&
			!strings.Contains(strings.ToLower(o.AccountName), search) {
			continue
		}
		if !matchesEnum(f.Stage, string(o.Stage)) {
			continue
		}
		out = append(out, o.Clone())
	}
	return out
}

func matchesEnum(filter, value string) bool {
	return filter == "" || filter == entity.AllValues || filter == value
}
