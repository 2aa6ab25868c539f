package usecase

import (
	"context"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/format"
	"github.com/xavierca1/seller-console/internal/listing"
)

type LeadList struct {
	listing.Page[entity.Lead]
	Filters entity.LeadFilters `json:"filters"`
	Sort    entity.SortConfig  `json:"sort"`
}

type OpportunityList struct {
	listing.Page[entity.Opportunity]
	Filters entity.OpportunityFilters `json:"filters"`
	Sort    entity.SortConfig         `json:"sort"`
}

// LeadQuery narrows the list before it is read. Nil fields keep the current
// value; Page is ignored when it is outside the filtered list.
type LeadQuery struct {
	Search *string
	Status *string
	Sort   *entity.SortConfig
	Page   *int
}

type OpportunityQuery struct {
	Search *string
	Stage  *string
	Sort   *entity.SortConfig
	Page   *int
}

// ViewLeads runs filter, sort and pagination over the current state.
func ViewLeads(s State, perPage int) LeadList {
	visible := listing.SortLeads(listing.FilterLeads(s.Leads, s.LeadFilters), s.LeadSort)
	return LeadList{
		Page:    listing.Paginate(visible, s.LeadPage, perPage),
		Filters: s.LeadFilters,
		Sort:    s.LeadSort,
	}
}

func ViewOpportunities(s State, perPage int) OpportunityList {
	visible := listing.SortOpportunities(listing.FilterOpportunities(s.Opportunities, s.OpportunityFilters), s.OpportunitySort)
	return OpportunityList{
		Page:    listing.Paginate(visible, s.OpportunityPage, perPage),
		Filters: s.OpportunityFilters,
		Sort:    s.OpportunitySort,
	}
}

// ListLeads applies q to the controller and returns the resulting page. The
// controller holds one view for the whole process, so q changes what every
// reader sees next.
func ListLeads(ctx context.Context, ctrl *Controller, q LeadQuery) (LeadList, error) {
	var actions []Action
	if q.Status != nil {
		actions = append(actions, UpdateLeadFilters{Status: *q.Status})
	}
	if q.Search != nil {
		actions = append(actions, UpdateLeadSearch{Search: *q.Search})
	}
	if q.Sort != nil {
		actions = append(actions, UpdateLeadSort{Sort: *q.Sort})
	}
	if q.Page != nil {
		actions = append(actions, GoToLeadPage{Page: *q.Page})
	}
	if err := dispatchAll(ctx, ctrl, actions); err != nil {
		return LeadList{}, err
	}
	return ViewLeads(ctrl.Get(), ctrl.PerPage()), nil
}

func ListOpportunities(ctx context.Context, ctrl *Controller, q OpportunityQuery) (OpportunityList, error) {
	var actions []Action
	if q.Stage != nil {
		actions = append(actions, UpdateOpportunityFilters{Stage: *q.Stage})
	}
	if q.Search != nil {
		actions = append(actions, UpdateOpportunitySearch{Search: *q.Search})
	}
	if q.Sort != nil {
		actions = append(actions, UpdateOpportunitySort{Sort: *q.Sort})
	}
	if q.Page != nil {
		actions = append(actions, GoToOpportunityPage{Page: *q.Page})
	}
	if err := dispatchAll(ctx, ctrl, actions); err != nil {
		return OpportunityList{}, err
	}
	return ViewOpportunities(ctrl.Get(), ctrl.PerPage()), nil
}

// dispatchAll skips actions that would not change anything so a plain read
// never touches the store.
func dispatchAll(ctx context.Context, ctrl *Controller, actions []Action) error {
	for _, a := range actions {
		if unchanged(ctrl.Get(), a) {
			continue
		}
		if err := ctrl.Dispatch(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func unchanged(s State, a Action) bool {
	switch a := a.(type) {
	case UpdateLeadFilters:
		status, err := entity.NormalizeStatusFilter(a.Status)
		return err == nil && status == s.LeadFilters.Status
	case UpdateLeadSearch:
		return a.Search == s.LeadFilters.Search
	case UpdateLeadSort:
		return a.Sort == s.LeadSort
	case GoToLeadPage:
		return a.Page == s.LeadPage
	case UpdateOpportunityFilters:
		stage, err := entity.NormalizeStageFilter(a.Stage)
		return err == nil && stage == s.OpportunityFilters.Stage
	case UpdateOpportunitySearch:
		return a.Search == s.OpportunityFilters.Search
	case UpdateOpportunitySort:
		return a.Sort == s.OpportunitySort
	case GoToOpportunityPage:
		return a.Page == s.OpportunityPage
	}
	return false
}

// ============ DASHBOARD ============

type CountEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type Stats struct {
	TotalLeads           int          `json:"totalLeads"`
	TotalOpportunities   int          `json:"totalOpportunities"`
	LeadsByStatus        []CountEntry `json:"leadsByStatus"`
	OpportunitiesByStage []CountEntry `json:"opportunitiesByStage"`
	AverageScore         float64      `json:"averageScore"`
	PipelineTotal        float64      `json:"pipelineTotal"`
	PipelineTotalLabel   string       `json:"pipelineTotalLabel"`
	ConversionRate       float64      `json:"conversionRate"` // percent of all records that became opportunities
}

// ComputeStats summarizes the full collections, ignoring filters.
func ComputeStats(s State) Stats {
	st := Stats{
		TotalLeads:         len(s.Leads),
		TotalOpportunities: len(s.Opportunities),
	}

	byStatus := make(map[entity.LeadStatus]int, len(entity.LeadStatuses))
	scoreSum := 0
	for _, l := range s.Leads {
		byStatus[l.Status]++
		scoreSum += l.Score
	}
	for _, status := range entity.LeadStatuses {
		st.LeadsByStatus = append(st.LeadsByStatus, CountEntry{
			Key:   string(status),
			Label: status.Label(),
			Color: status.Color().Hex(),
			Count: byStatus[status],
		})
	}
	if len(s.Leads) > 0 {
		st.AverageScore = float64(scoreSum) / float64(len(s.Leads))
	}

	byStage := make(map[entity.OpportunityStage]int, len(entity.OpportunityStages))
	for _, o := range s.Opportunities {
		byStage[o.Stage]++
		if o.Amount != nil && o.Stage != entity.StageClosedLost {
			st.PipelineTotal += *o.Amount
		}
	}
	for _, stage := range entity.OpportunityStages {
		st.OpportunitiesByStage = append(st.OpportunitiesByStage, CountEntry{
			Key:   string(stage),
			Label: stage.Label(),
			Color: stage.Color().Hex(),
			Count: byStage[stage],
		})
	}
	st.PipelineTotalLabel = format.FormatCurrency(st.PipelineTotal)

	if total := len(s.Leads) + len(s.Opportunities); total > 0 {
		st.ConversionRate = float64(len(s.Opportunities)) / float64(total) * 100
	}
	return st
}
