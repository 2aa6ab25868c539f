package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
)

const (
	kindLead        = "lead"
	kindOpportunity = "opportunity"
)

// Coordinator runs the mutating operations. Updates are applied
// optimistically, confirmed with the Remote and rolled back to the captured
// snapshot when confirmation fails. At most one mutation per record is in
// flight; a second one is rejected with entity.ErrBusy.
type Coordinator struct {
	ctrl     *Controller
	remote   Remote
	notifier Notifier
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewCoordinator(ctrl *Controller, remote Remote, notifier Notifier, metrics Metrics, logger *zap.Logger) *Coordinator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		ctrl:     ctrl,
		remote:   remote,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		inflight: make(map[string]struct{}),
	}
}

func inflightKey(kind, id string) string { return kind + ":" + id }

// acquire marks a record busy. The returned release must be called once.
func (c *Coordinator) acquire(kind, id string) (release func(), ok bool) {
	key := inflightKey(kind, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return nil, false
	}
	c.inflight[key] = struct{}{}
	return func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}, true
}

// Busy reports whether a mutation of the record is in flight.
func (c *Coordinator) Busy(kind, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, busy := c.inflight[inflightKey(kind, id)]
	return busy
}

func (c *Coordinator) notify(ctx context.Context, kind entity.NotificationType, title, message string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(ctx, entity.NewNotification(kind, title, message))
}

func (c *Coordinator) rejectBusy(ctx context.Context, kind, id string) error {
	c.metrics.RecordMutation(kind, ResultBusy)
	c.logger.Warn("⏳ registro ocupado", zap.String("kind", kind), zap.String("id", id))
	c.notify(ctx, entity.NotificationWarning, "Change In Progress",
		"Another change to this "+kind+" is still in progress. Please wait and try again.")
	return &DomainError{Code: "BUSY", Message: entity.ErrBusy.Error(), Err: entity.ErrBusy}
}

// loading wraps fn in SetLoading{true}/SetLoading{false}.
func (c *Coordinator) loading(ctx context.Context, fn func() error) error {
	if err := c.ctrl.Dispatch(ctx, SetLoading{Loading: true}); err != nil {
		return err
	}
	defer func() {
		_ = c.ctrl.Dispatch(context.WithoutCancel(ctx), SetLoading{Loading: false})
	}()
	return fn()
}

// optimistic shows next immediately and restores snapshot if the remote
// rejects it.
func (c *Coordinator) optimistic(ctx context.Context, op string, apply, restore Action) error {
	return NewTransaction(c.logger).
		Add("optimistic apply",
			func(ctx context.Context) error { return c.ctrl.Dispatch(ctx, apply) },
			func(ctx context.Context) error { return c.ctrl.Dispatch(ctx, restore) }).
		Add("remote commit",
			func(ctx context.Context) error { return c.remote.Commit(ctx, op) },
			nil).
		Add("confirm",
			func(ctx context.Context) error { return c.ctrl.Dispatch(ctx, apply) },
			nil).
		Execute(ctx)
}

// ============ LEADS ============

func (c *Coordinator) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	if errs := ValidateLeadPatch(patch); len(errs) > 0 {
		c.metrics.RecordMutation(kindLead, ResultInvalid)
		return entity.Lead{}, &ValidationFailedError{Errors: errs}
	}

	release, ok := c.acquire(kindLead, id)
	if !ok {
		return entity.Lead{}, c.rejectBusy(ctx, kindLead, id)
	}
	defer release()

	snapshot, found := c.ctrl.Get().FindLead(id)
	if !found {
		c.metrics.RecordMutation(kindLead, ResultNotFound)
		c.notify(ctx, entity.NotificationError, "Update Failed", "Lead not found")
		return entity.Lead{}, entity.ErrLeadNotFound
	}

	next := patch.Apply(snapshot, c.now())
	if err := c.optimistic(ctx, "updateLead", UpdateLead{Lead: next}, UpdateLead{Lead: snapshot}); err != nil {
		c.metrics.RecordMutation(kindLead, ResultRolledBack)
		c.logger.Warn("↩️ atualização de lead revertida", zap.String("id", id), zap.Error(err))
		c.notify(ctx, entity.NotificationError, "Update Failed", reason(err))
		return entity.Lead{}, err
	}

	c.metrics.RecordMutation(kindLead, ResultCommitted)
	c.notify(ctx, entity.NotificationSuccess, "Lead Updated", "Lead has been successfully updated.")
	return next, nil
}

func (c *Coordinator) DeleteLead(ctx context.Context, id string) error {
	release, ok := c.acquire(kindLead, id)
	if !ok {
		return c.rejectBusy(ctx, kindLead, id)
	}
	defer release()

	err := c.loading(ctx, func() error {
		return c.ctrl.Dispatch(ctx, RemoveLead{ID: id})
	})
	if err != nil {
		c.recordFailure(kindLead, err)
		c.notify(ctx, entity.NotificationError, "Delete Failed", userMessage(err))
		return err
	}

	c.metrics.RecordMutation(kindLead, ResultCommitted)
	c.notify(ctx, entity.NotificationSuccess, "Lead Deleted", "Lead has been successfully deleted.")
	return nil
}

// CreateLead validates the form, confirms with the remote and appends the
// new lead.
func (c *Coordinator) CreateLead(ctx context.Context, in LeadInput) (entity.Lead, error) {
	if errs := ValidateLead(in); len(errs) > 0 {
		c.metrics.RecordMutation(kindLead, ResultInvalid)
		return entity.Lead{}, &ValidationFailedError{Errors: errs}
	}

	status := entity.LeadStatusNew
	if in.Status != "" {
		status, _ = entity.ParseLeadStatus(in.Status)
	}
	score := 0
	if in.Score != nil {
		score = *in.Score
	}
	lead := entity.NewLead(in.Name, in.Company, in.Email, in.Source, score, status)

	err := c.loading(ctx, func() error {
		if err := c.remote.Commit(ctx, "createLead"); err != nil {
			return err
		}
		return c.ctrl.Dispatch(ctx, AddLead{Lead: *lead})
	})
	if err != nil {
		c.metrics.RecordMutation(kindLead, ResultRolledBack)
		c.notify(ctx, entity.NotificationError, "Creation Failed", reason(err))
		return entity.Lead{}, err
	}

	c.metrics.RecordMutation(kindLead, ResultCommitted)
	c.notify(ctx, entity.NotificationSuccess, "Lead Created", "Lead has been created successfully.")
	return *lead, nil
}

// ============ OPPORTUNITIES ============

func (c *Coordinator) UpdateOpportunity(ctx context.Context, id string, patch entity.OpportunityPatch) (entity.Opportunity, error) {
	if errs := ValidateOpportunityPatch(patch); len(errs) > 0 {
		c.metrics.RecordMutation(kindOpportunity, ResultInvalid)
		return entity.Opportunity{}, &ValidationFailedError{Errors: errs}
	}

	release, ok := c.acquire(kindOpportunity, id)
	if !ok {
		return entity.Opportunity{}, c.rejectBusy(ctx, kindOpportunity, id)
	}
	defer release()

	snapshot, found := c.ctrl.Get().FindOpportunity(id)
	if !found {
		c.metrics.RecordMutation(kindOpportunity, ResultNotFound)
		c.notify(ctx, entity.NotificationError, "Update Failed", "Opportunity not found")
		return entity.Opportunity{}, entity.ErrOpportunityNotFound
	}

	next := patch.Apply(snapshot, c.now())
	err := c.optimistic(ctx, "updateOpportunity",
		UpdateOpportunity{Opportunity: next}, UpdateOpportunity{Opportunity: snapshot})
	if err != nil {
		c.metrics.RecordMutation(kindOpportunity, ResultRolledBack)
		c.logger.Warn("↩️ atualização de oportunidade revertida", zap.String("id", id), zap.Error(err))
		c.notify(ctx, entity.NotificationError, "Update Failed", reason(err))
		return entity.Opportunity{}, err
	}

	c.metrics.RecordMutation(kindOpportunity, ResultCommitted)
	c.notify(ctx, entity.NotificationSuccess, "Opportunity Updated", "Opportunity has been successfully updated.")
	return next.Clone(), nil
}

func (c *Coordinator) DeleteOpportunity(ctx context.Context, id string) error {
	release, ok := c.acquire(kindOpportunity, id)
	if !ok {
		return c.rejectBusy(ctx, kindOpportunity, id)
	}
	defer release()

	err := c.loading(ctx, func() error {
		return c.ctrl.Dispatch(ctx, RemoveOpportunity{ID: id})
	})
	if err != nil {
		c.recordFailure(kindOpportunity, err)
		c.notify(ctx, entity.NotificationError, "Delete Failed", userMessage(err))
		return err
	}

	c.metrics.RecordMutation(kindOpportunity, ResultCommitted)
	c.notify(ctx, entity.NotificationSuccess, "Opportunity Deleted", "Opportunity has been successfully deleted.")
	return nil
}

func (c *Coordinator) recordFailure(kind string, err error) {
	if entity.IsNotFound(err) {
		c.metrics.RecordMutation(kind, ResultNotFound)
		return
	}
	c.metrics.RecordMutation(kind, ResultRolledBack)
}

// userMessage capitalizes the not-found sentinels the way the console shows them.
func userMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return "Lead not found"
	case errors.Is(err, entity.ErrOpportunityNotFound):
		return "Opportunity not found"
	}
	return reason(err)
}
