package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/fileio"
)

const importCSV = "name,company,email,source,score,status\n" +
	"John Doe,Acme Corp,john@acme.com,website,85,new\n"

// ============ IMPORTAÇÃO ============

// TestImportLeadsSuccess - leads adicionados em um commit
func TestImportLeadsSuccess(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemote)
	remote.On("Commit", mock.Anything, "importLeads").Return(nil).Once()
	h := newHarness(t, remote, []entity.Lead{makeLead("1", "Existing", 10, entity.LeadStatusNew)}, nil)

	res, err := h.coord.ImportLeads(ctx, "leads.csv", []byte(importCSV))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.ImportedCount)

	stored, err := h.repo.LoadLeads(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "John Doe", stored[1].Name)
	assert.Equal(t, 85, stored[1].Score)

	n := h.notes.last()
	assert.Equal(t, entity.NotificationSuccess, n.Type)
	assert.Equal(t, "Import Successful", n.Title)
	assert.Equal(t, "Successfully imported 1 leads.", n.Message)
	remote.AssertExpectations(t)
}

// TestImportLeadsWithRowErrors - aviso quando algumas linhas falham
func TestImportLeadsWithRowErrors(t *testing.T) {
	remote := new(MockRemote)
	remote.On("Commit", mock.Anything, "importLeads").Return(nil)
	metrics := new(MockMetrics)
	metrics.On("RecordImportedLeads", 1).Once()

	h := newHarness(t, remote, nil, nil)
	coord := NewCoordinator(h.ctrl, remote, h.notes, metrics, zap.NewNop())

	res, err := coord.ImportLeads(context.Background(), "leads.csv",
		[]byte(importCSV+"Bad,Acme,b@acme.com,web,500,new\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Row 3: Invalid score value"}, res.Errors)
	assert.Len(t, h.ctrl.Get().Leads, 1)

	n := h.notes.last()
	assert.Equal(t, entity.NotificationWarning, n.Type)
	assert.Equal(t, "Import Completed with Errors", n.Title)
	assert.Equal(t, "Imported 1 leads with 1 errors.", n.Message)
	metrics.AssertExpectations(t)
}

// TestImportLeadsInvalidFile - arquivo rejeitado não chama o remoto
func TestImportLeadsInvalidFile(t *testing.T) {
	remote := new(MockRemote)
	h := newHarness(t, remote, nil, nil)

	res, err := h.coord.ImportLeads(context.Background(), "leads.xml", []byte("<leads/>"))

	require.Error(t, err)
	assert.True(t, IsDomainError(err))
	assert.False(t, res.Success)
	assert.Equal(t, "Import Failed", h.notes.last().Title)
	assert.Equal(t, "Unsupported file format. Please use CSV or JSON files.", h.notes.last().Message)
	remote.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

// TestImportLeadsRemoteFailure - nada é adicionado quando o remoto falha
func TestImportLeadsRemoteFailure(t *testing.T) {
	remote := new(MockRemote)
	remote.On("Commit", mock.Anything, "importLeads").Return(remoteFailure("importLeads"))
	h := newHarness(t, remote, nil, nil)

	res, err := h.coord.ImportLeads(context.Background(), "leads.csv", []byte(importCSV))

	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, h.ctrl.Get().Leads)
	assert.Equal(t, "Import Failed", h.notes.last().Title)
}

// TestImportLeadsEmptyArray - arquivo sem leads gera aviso informativo
func TestImportLeadsEmptyArray(t *testing.T) {
	remote := new(MockRemote)
	h := newHarness(t, remote, nil, nil)

	res, err := h.coord.ImportLeads(context.Background(), "leads.json", []byte("[]"))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, entity.NotificationInfo, h.notes.last().Type)
	remote.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

// ============ EXPORTAÇÃO ============

// TestExportIgnoresFilters - exporta a coleção inteira
func TestExportIgnoresFilters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, new(MockRemote), manyLeads(4), nil)
	require.NoError(t, h.ctrl.Dispatch(ctx, UpdateLeadFilters{Status: "contacted"}))

	var buf bytes.Buffer
	require.NoError(t, h.coord.Export(ctx, &buf, CollectionLeads, fileio.FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "Export Successful", h.notes.last().Title)
	assert.Equal(t, "Leads have been exported successfully.", h.notes.last().Message)
}

// TestExportUnknownCollection - coleção desconhecida falha com notificação
func TestExportUnknownCollection(t *testing.T) {
	h := newHarness(t, new(MockRemote), nil, nil)

	err := h.coord.Export(context.Background(), &bytes.Buffer{}, "customers", fileio.FormatJSON)

	require.Error(t, err)
	assert.Equal(t, "Export Failed", h.notes.last().Title)
}

// ============ BACKUP ============

type memoryExportStore struct {
	files map[string][]byte
	err   error
}

func (m *memoryExportStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = data
	return "mem://" + name, nil
}

// TestBackupWritesSnapshot - as duas coleções em um documento
func TestBackupWritesSnapshot(t *testing.T) {
	h := newHarness(t, new(MockRemote), manyLeads(2), []entity.Opportunity{
		makeOpportunity("o1", "l9", entity.StageProposal, ptr(10.0)),
	})
	store := &memoryExportStore{}
	uc := NewBackupUseCase(h.ctrl, store, zap.NewNop())
	uc.now = func() time.Time { return t0 }

	location, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "mem://backup-20240115T093000Z.json", location)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(store.files["backup-20240115T093000Z.json"], &snap))
	assert.Len(t, snap.Leads, 2)
	assert.Len(t, snap.Opportunities, 1)
	assert.Equal(t, t0, snap.TakenAt)
}

// TestBackupStoreFailure - erro técnico quando o destino falha
func TestBackupStoreFailure(t *testing.T) {
	h := newHarness(t, new(MockRemote), nil, nil)
	uc := NewBackupUseCase(h.ctrl, &memoryExportStore{err: errors.New("bucket missing")}, nil)

	_, err := uc.Execute(context.Background())

	require.Error(t, err)
	assert.True(t, IsTechnicalError(err))
}
