package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/config"
	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/integration/crm"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// TestOpenStateSQLite - estado gravado sobrevive à reabertura
func TestOpenStateSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreDriver:    "sqlite",
		SQLitePath:     filepath.Join(t.TempDir(), "console.db"),
		StateNamespace: "test",
		ItemsPerPage:   10,
	}

	st, err := OpenState(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	lead := *entity.NewLead("Ana", "Ana Ltd", "ana@example.com", "website", 70, entity.LeadStatusNew)
	require.NoError(t, st.Ctrl.Dispatch(ctx, usecase.AddLead{Lead: lead}))
	require.NoError(t, st.Close())

	st, err = OpenState(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	got, ok := st.Ctrl.Get().FindLead(lead.ID)
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)
}

// TestOpenStateUnknownDriver - driver desconhecido falha
func TestOpenStateUnknownDriver(t *testing.T) {
	_, err := OpenState(context.Background(), &config.Config{StoreDriver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
}

// TestNewRemote - webhook CRM tem prioridade sobre o simulado
func TestNewRemote(t *testing.T) {
	sim := NewRemote(&config.Config{}, zap.NewNop())
	assert.IsType(t, &usecase.SimulatedRemote{}, sim)

	hook := NewRemote(&config.Config{CRMWebhookURL: "http://crm.local/hook"}, zap.NewNop())
	assert.IsType(t, &crm.Client{}, hook)
}
