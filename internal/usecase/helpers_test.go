package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/database"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// MockRemote
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Commit(ctx context.Context, op string) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

// MockMetrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordMutation(kind, result string) { m.Called(kind, result) }
func (m *MockMetrics) RecordConversion(result string)     { m.Called(result) }
func (m *MockMetrics) RecordImportedLeads(n int)          { m.Called(n) }

// gateRemote holds every Commit until the test releases it.
type gateRemote struct {
	entered chan string
	release chan error
}

func newGateRemote() *gateRemote {
	return &gateRemote{entered: make(chan string, 4), release: make(chan error)}
}

func (g *gateRemote) Commit(ctx context.Context, op string) error {
	g.entered <- op
	select {
	case err := <-g.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []entity.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n entity.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) all() []entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Notification(nil), r.items...)
}

func (r *recordingNotifier) last() entity.Notification {
	items := r.all()
	if len(items) == 0 {
		return entity.Notification{}
	}
	return items[len(items)-1]
}

func remoteFailure(op string) error {
	return &TechnicalError{
		Code:    CodeRemoteFailure,
		Message: "Network request failed. Please try again.",
		Err:     fmt.Errorf("%s: %w", op, ErrSimulatedFailure),
	}
}

func makeLead(id, name string, score int, status entity.LeadStatus) entity.Lead {
	return entity.Lead{
		ID: id, Name: name, Company: name + " Corp", Email: id + "@example.com",
		Source: "website", Score: score, Status: status,
		CreatedAt: t0, UpdatedAt: t0,
	}
}

func makeOpportunity(id, leadID string, stage entity.OpportunityStage, amount *float64) entity.Opportunity {
	return entity.Opportunity{
		ID: id, Name: "Deal " + id, Stage: stage, Amount: amount,
		AccountName: "Acme", LeadID: leadID, CreatedAt: t0, UpdatedAt: t0,
	}
}

func ptr[T any](v T) *T { return &v }

type harness struct {
	repo  *database.StateStore
	ctrl  *Controller
	coord *Coordinator
	notes *recordingNotifier
}

// newHarness seeds an in-memory store and loads it into a fresh controller.
func newHarness(t *testing.T, remote Remote, leads []entity.Lead, opps []entity.Opportunity) *harness {
	t.Helper()
	ctx := context.Background()

	repo := database.NewStateStore(database.NewMemoryStore(), "test", zap.NewNop())
	require.NoError(t, repo.SaveCollections(ctx, leads, opps))

	ctrl := NewController(repo, 20, zap.NewNop())
	require.NoError(t, ctrl.Load(ctx))

	notes := &recordingNotifier{}
	coord := NewCoordinator(ctrl, remote, notes, nil, zap.NewNop())
	coord.now = func() time.Time { return t0.Add(time.Hour) }

	return &harness{repo: repo, ctrl: ctrl, coord: coord, notes: notes}
}

// failingRepo rejects every collection write.
type failingRepo struct {
	entity.StateRepository
	err error
}

func (f failingRepo) SaveLeads(context.Context, []entity.Lead) error { return f.err }
func (f failingRepo) SaveOpportunities(context.Context, []entity.Opportunity) error {
	return f.err
}
func (f failingRepo) SaveCollections(context.Context, []entity.Lead, []entity.Opportunity) error {
	return f.err
}
