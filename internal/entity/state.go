package entity

import "context"

// StateRepository persists the console state. Implementations must make
// SaveCollections atomic: both collections are written or neither is.
type StateRepository interface {
	LoadLeads(ctx context.Context) ([]Lead, error)
	SaveLeads(ctx context.Context, leads []Lead) error
	LoadOpportunities(ctx context.Context) ([]Opportunity, error)
	SaveOpportunities(ctx context.Context, opportunities []Opportunity) error
	SaveCollections(ctx context.Context, leads []Lead, opportunities []Opportunity) error

	LoadLeadFilters(ctx context.Context) (LeadFilters, error)
	SaveLeadFilters(ctx context.Context, f LeadFilters) error
	LoadOpportunityFilters(ctx context.Context) (OpportunityFilters, error)
	SaveOpportunityFilters(ctx context.Context, f OpportunityFilters) error
	LoadLeadSort(ctx context.Context) (SortConfig, error)
	SaveLeadSort(ctx context.Context, s SortConfig) error
	LoadOpportunitySort(ctx context.Context) (SortConfig, error)
	SaveOpportunitySort(ctx context.Context, s SortConfig) error

	SampleDataLoaded(ctx context.Context) (bool, error)
	MarkSampleDataLoaded(ctx context.Context) error
	Clear(ctx context.Context) error
}
