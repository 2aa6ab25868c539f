package database

const (
	KeyLeads                 = "leads"
	KeyOpportunities         = "opportunities"
	KeyLeadFilters           = "lead_filters"
	KeyOpportunityFilters    = "opportunity_filters"
	KeySortConfig            = "sort_config"
	KeyOpportunitySortConfig = "opportunity_sort_config"
	KeySampleDataLoaded      = "sample_data_loaded"
)
