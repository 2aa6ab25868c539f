package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/listing"
)

// State is the whole console state. Values handed out by the Controller are
// deep copies.
type State struct {
	Leads              []entity.Lead             `json:"leads"`
	Opportunities      []entity.Opportunity      `json:"opportunities"`
	LeadFilters        entity.LeadFilters        `json:"leadFilters"`
	OpportunityFilters entity.OpportunityFilters `json:"opportunityFilters"`
	LeadSort           entity.SortConfig         `json:"leadSort"`
	OpportunitySort    entity.SortConfig         `json:"opportunitySort"`
	LeadPage           int                       `json:"leadPage"`
	OpportunityPage    int                       `json:"opportunityPage"`
	IsLoading          bool                      `json:"isLoading"`
	Error              string                    `json:"error,omitempty"`

	pending int
}

func (s State) Clone() State {
	out := s
	out.Leads = append([]entity.Lead(nil), s.Leads...)
	out.Opportunities = make([]entity.Opportunity, len(s.Opportunities))
	for i, o := range s.Opportunities {
		out.Opportunities[i] = o.Clone()
	}
	return out
}

func (s State) FindLead(id string) (entity.Lead, bool) {
	for _, l := range s.Leads {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Lead{}, false
}

func (s State) FindOpportunity(id string) (entity.Opportunity, bool) {
	for _, o := range s.Opportunities {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return entity.Opportunity{}, false
}

type persistSet uint8

const (
	persistLeads persistSet = 1 << iota
	persistOpportunities
	persistLeadFilters
	persistOpportunityFilters
	persistLeadSort
	persistOpportunitySort
)

// Action is a reducer step. It mutates the working copy and reports which
// keys must be written back.
type Action interface {
	apply(s *State) (persistSet, error)
}

type (
	SetLeads                 struct{ Leads []entity.Lead }
	SetOpportunities         struct{ Opportunities []entity.Opportunity }
	AddLead                  struct{ Lead entity.Lead }
	AddLeads                 struct{ Leads []entity.Lead }
	UpdateLead               struct{ Lead entity.Lead }
	RemoveLead               struct{ ID string }
	AddOpportunity           struct{ Opportunity entity.Opportunity }
	UpdateOpportunity        struct{ Opportunity entity.Opportunity }
	RemoveOpportunity        struct{ ID string }
	UpdateLeadFilters        struct{ Status string }
	UpdateLeadSearch         struct{ Search string }
	UpdateLeadSort           struct{ Sort entity.SortConfig }
	UpdateOpportunityFilters struct{ Stage string }
	UpdateOpportunitySearch  struct{ Search string }
	UpdateOpportunitySort    struct{ Sort entity.SortConfig }
	GoToLeadPage             struct{ Page int }
	GoToOpportunityPage      struct{ Page int }
	SetLoading               struct{ Loading bool }
	SetError                 struct{ Message string }
	// ResetState puts every field back to its default, as after a clear.
	ResetState struct{}
)

type ConvertLead struct {
	LeadID      string
	Opportunity entity.Opportunity
}

func (a SetLeads) apply(s *State) (persistSet, error) {
	s.Leads = append([]entity.Lead{}, a.Leads...)
	return persistLeads, nil
}

func (a SetOpportunities) apply(s *State) (persistSet, error) {
	s.Opportunities = make([]entity.Opportunity, len(a.Opportunities))
	for i, o := range a.Opportunities {
		s.Opportunities[i] = o.Clone()
	}
	return persistOpportunities, nil
}

func (a AddLead) apply(s *State) (persistSet, error) {
	s.Leads = append(s.Leads, a.Lead)
	return persistLeads, nil
}

func (a AddLeads) apply(s *State) (persistSet, error) {
	s.Leads = append(s.Leads, a.Leads...)
	return persistLeads, nil
}

func (a UpdateLead) apply(s *State) (persistSet, error) {
	for i := range s.Leads {
		if s.Leads[i].ID == a.Lead.ID {
			s.Leads[i] = a.Lead
			return persistLeads, nil
		}
	}
	return 0, entity.ErrLeadNotFound
}

func (a RemoveLead) apply(s *State) (persistSet, error) {
	for i := range s.Leads {
		if s.Leads[i].ID == a.ID {
			s.Leads = append(s.Leads[:i], s.Leads[i+1:]...)
			return persistLeads, nil
		}
	}
	return 0, entity.ErrLeadNotFound
}

func (a AddOpportunity) apply(s *State) (persistSet, error) {
	s.Opportunities = append(s.Opportunities, a.Opportunity.Clone())
	return persistOpportunities, nil
}

func (a UpdateOpportunity) apply(s *State) (persistSet, error) {
	for i := range s.Opportunities {
		if s.Opportunities[i].ID == a.Opportunity.ID {
			s.Opportunities[i] = a.Opportunity.Clone()
			return persistOpportunities, nil
		}
	}
	return 0, entity.ErrOpportunityNotFound
}

func (a RemoveOpportunity) apply(s *State) (persistSet, error) {
	for i := range s.Opportunities {
		if s.Opportunities[i].ID == a.ID {
			s.Opportunities = append(s.Opportunities[:i], s.Opportunities[i+1:]...)
			return persistOpportunities, nil
		}
	}
	return 0, entity.ErrOpportunityNotFound
}

// ConvertLead removes the lead and appends the opportunity; both
// collections are persisted in one commit.
func (a ConvertLead) apply(s *State) (persistSet, error) {
	if _, err := (RemoveLead{ID: a.LeadID}).apply(s); err != nil {
		return 0, err
	}
	s.Opportunities = append(s.Opportunities, a.Opportunity.Clone())
	return persistLeads | persistOpportunities, nil
}

func (a UpdateLeadFilters) apply(s *State) (persistSet, error) {
	status, err := entity.NormalizeStatusFilter(a.Status)
	if err != nil {
		return 0, err
	}
	s.LeadFilters.Status = status
	s.LeadPage = 1
	return persistLeadFilters, nil
}

func (a UpdateLeadSearch) apply(s *State) (persistSet, error) {
	s.LeadFilters.Search = a.Search
	s.LeadPage = 1
	return 0, nil
}

func (a UpdateLeadSort) apply(s *State) (persistSet, error) {
	if !listing.IsLeadSortField(a.Sort.Field) {
		return 0, fmt.Errorf("%w: %q", entity.ErrInvalidSortField, a.Sort.Field)
	}
	dir, err := entity.ParseSortDirection(string(a.Sort.Direction))
	if err != nil {
		return 0, err
	}
	s.LeadSort = entity.SortConfig{Field: a.Sort.Field, Direction: dir}
	return persistLeadSort, nil
}

func (a UpdateOpportunityFilters) apply(s *State) (persistSet, error) {
	stage, err := entity.NormalizeStageFilter(a.Stage)
	if err != nil {
		return 0, err
	}
	s.OpportunityFilters.Stage = stage
	s.OpportunityPage = 1
	return persistOpportunityFilters, nil
}

func (a UpdateOpportunitySearch) apply(s *State) (persistSet, error) {
	s.OpportunityFilters.Search = a.Search
	s.OpportunityPage = 1
	return 0, nil
}

func (a UpdateOpportunitySort) apply(s *State) (persistSet, error) {
	if !listing.IsOpportunitySortField(a.Sort.Field) {
		return 0, fmt.Errorf("%w: %q", entity.ErrInvalidSortField, a.Sort.Field)
	}
	dir, err := entity.ParseSortDirection(string(a.Sort.Direction))
	if err != nil {
		return 0, err
	}
	s.OpportunitySort = entity.SortConfig{Field: a.Sort.Field, Direction: dir}
	return persistOpportunitySort, nil
}

// page navigation is applied by the Controller, which knows the page size
func (GoToLeadPage) apply(*State) (persistSet, error)        { return 0, nil }
func (GoToOpportunityPage) apply(*State) (persistSet, error) { return 0, nil }

// SetLoading nests: the flag stays up until every SetLoading{true} has
// been matched by a SetLoading{false}.
func (a SetLoading) apply(s *State) (persistSet, error) {
	if a.Loading {
		s.pending++
	} else if s.pending > 0 {
		s.pending--
	}
	s.IsLoading = s.pending > 0
	return 0, nil
}

func (a SetError) apply(s *State) (persistSet, error) {
	s.Error = a.Message
	return 0, nil
}

func (ResetState) apply(s *State) (persistSet, error) {
	*s = defaultState()
	return 0, nil
}

func defaultState() State {
	return State{
		Leads:              []entity.Lead{},
		Opportunities:      []entity.Opportunity{},
		LeadFilters:        entity.DefaultLeadFilters(),
		OpportunityFilters: entity.DefaultOpportunityFilters(),
		LeadSort:           entity.DefaultLeadSort,
		OpportunitySort:    entity.DefaultOpportunitySort,
		LeadPage:           1,
		OpportunityPage:    1,
	}
}

// Controller owns the State. Dispatch serializes reducer steps and writes
// the affected keys before the new state becomes visible.
type Controller struct {
	mu      sync.Mutex
	state   State
	repo    entity.StateRepository
	perPage int
	logger  *zap.Logger

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

func NewController(repo entity.StateRepository, perPage int, logger *zap.Logger) *Controller {
	if perPage <= 0 {
		perPage = listing.DefaultItemsPerPage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		state:   defaultState(),
		repo:    repo,
		perPage: perPage,
		logger:  logger,
		subs:    make(map[int]func(State)),
	}
}

func (c *Controller) PerPage() int { return c.perPage }

// Load replaces the in-memory state with what the repository holds.
func (c *Controller) Load(ctx context.Context) error {
	next := defaultState()
	var err error
	if next.Leads, err = c.repo.LoadLeads(ctx); err != nil {
		return err
	}
	if next.Opportunities, err = c.repo.LoadOpportunities(ctx); err != nil {
		return err
	}
	if next.LeadFilters, err = c.repo.LoadLeadFilters(ctx); err != nil {
		return err
	}
	if next.OpportunityFilters, err = c.repo.LoadOpportunityFilters(ctx); err != nil {
		return err
	}
	if next.LeadSort, err = c.repo.LoadLeadSort(ctx); err != nil {
		return err
	}
	if next.OpportunitySort, err = c.repo.LoadOpportunitySort(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = next
	snapshot := c.state.Clone()
	c.mu.Unlock()

	c.logger.Info("📦 estado carregado",
		zap.Int("leads", len(next.Leads)),
		zap.Int("opportunities", len(next.Opportunities)))
	c.publish(snapshot)
	return nil
}

func (c *Controller) Get() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) Dispatch(ctx context.Context, action Action) error {
	c.mu.Lock()
	next := c.state.Clone()

	var (
		changes persistSet
		err     error
	)
	switch a := action.(type) {
	case GoToLeadPage:
		next.LeadPage = c.navigate(next.LeadPage, len(listing.FilterLeads(next.Leads, next.LeadFilters)), a.Page)
	case GoToOpportunityPage:
		next.OpportunityPage = c.navigate(next.OpportunityPage, len(listing.FilterOpportunities(next.Opportunities, next.OpportunityFilters)), a.Page)
	default:
		changes, err = action.apply(&next)
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}

	if changes&(persistLeads|persistOpportunities|persistLeadFilters|persistOpportunityFilters) != 0 {
		next.LeadPage = c.clamp(next.LeadPage, len(listing.FilterLeads(next.Leads, next.LeadFilters)))
		next.OpportunityPage = c.clamp(next.OpportunityPage, len(listing.FilterOpportunities(next.Opportunities, next.OpportunityFilters)))
	}

	if err := c.persist(ctx, next, changes); err != nil {
		c.mu.Unlock()
		return &TechnicalError{Code: CodeStoreFailure, Message: "Failed to save changes", Err: err}
	}
	c.state = next
	snapshot := c.state.Clone()
	c.mu.Unlock()

	c.publish(snapshot)
	return nil
}

func (c *Controller) navigate(current, total, target int) int {
	p := listing.NewPager(c.perPage)
	p.SetTotal(total)
	p.GoTo(current)
	p.GoTo(target)
	return p.Current()
}

// clamp pulls a page back inside the list after it shrank.
func (c *Controller) clamp(current, total int) int {
	if last := listing.TotalPages(total, c.perPage); current > last {
		current = last
	}
	return max(current, 1)
}

func (c *Controller) persist(ctx context.Context, s State, changes persistSet) error {
	if changes&persistLeads != 0 && changes&persistOpportunities != 0 {
		if err := c.repo.SaveCollections(ctx, s.Leads, s.Opportunities); err != nil {
			return err
		}
	} else if changes&persistLeads != 0 {
		if err := c.repo.SaveLeads(ctx, s.Leads); err != nil {
			return err
		}
	} else if changes&persistOpportunities != 0 {
		if err := c.repo.SaveOpportunities(ctx, s.Opportunities); err != nil {
			return err
		}
	}
	if changes&persistLeadFilters != 0 {
		if err := c.repo.SaveLeadFilters(ctx, s.LeadFilters); err != nil {
			return err
		}
	}
	if changes&persistOpportunityFilters != 0 {
		if err := c.repo.SaveOpportunityFilters(ctx, s.OpportunityFilters); err != nil {
			return err
		}
	}
	if changes&persistLeadSort != 0 {
		if err := c.repo.SaveLeadSort(ctx, s.LeadSort); err != nil {
			return err
		}
	}
	if changes&persistOpportunitySort != 0 {
		if err := c.repo.SaveOpportunitySort(ctx, s.OpportunitySort); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe registers fn for a snapshot after every successful dispatch.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Controller) publish(s State) {
	c.subMu.Lock()
	fns := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(s.Clone())
	}
}
