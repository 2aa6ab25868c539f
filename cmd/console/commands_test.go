package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/app"
	"github.com/xavierca1/seller-console/internal/config"
	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/database"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// memoryOpener shares one in-memory store between every command of a test.
func memoryOpener(t *testing.T) (opener, *database.MemoryStore) {
	t.Helper()
	kv := database.NewMemoryStore()
	cfg := &config.Config{
		StateNamespace:       "test",
		ItemsPerPage:         5,
		SampleLeads:          8,
		NotificationDuration: entity.DefaultNotificationDuration,
	}
	open := func(ctx context.Context) (*session, error) {
		repo := database.NewStateStore(kv, cfg.StateNamespace, zap.NewNop())
		ctrl := usecase.NewController(repo, cfg.ItemsPerPage, zap.NewNop())
		if err := ctrl.Load(ctx); err != nil {
			return nil, err
		}
		st := &app.State{KV: kv, Repo: repo, Ctrl: ctrl}
		return newSession(cfg, zap.NewNop(), st, usecase.NewSimulatedRemote(0, 0, 0)), nil
	}
	return open, kv
}

func run(t *testing.T, open opener, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(open)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// ============ TESTES DO SEED ============

// TestSeedCommand - carrega a quantidade padrão uma única vez
func TestSeedCommand(t *testing.T) {
	open, _ := memoryOpener(t)

	out, _, err := run(t, open, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 8 leads.")

	out, _, err = run(t, open, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already loaded")

	out, _, err = run(t, open, "", "seed", "--count", "3", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 3 leads.")
}

// ============ TESTES DO LIST ============

// TestListLeads - tabela paginada com rótulos
func TestListLeads(t *testing.T) {
	open, _ := memoryOpener(t)
	_, _, err := run(t, open, "", "seed")
	require.NoError(t, err)

	out, _, err := run(t, open, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "COMPANY")
	assert.Contains(t, out, "page 1 of 2, 8 leads")

	out, _, err = run(t, open, "", "list", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "page 2 of 2")
}

// TestListDoesNotPersistFilters - filtros do CLI não alteram a visão salva
func TestListDoesNotPersistFilters(t *testing.T) {
	open, _ := memoryOpener(t)

	_, _, err := run(t, open, "", "list", "--status", "qualified")
	require.NoError(t, err)

	s, err := open(context.Background())
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, entity.AllValues, s.state.Ctrl.Get().LeadFilters.Status)
}

// TestListInvalidArgs - status e tipo desconhecidos são rejeitados
func TestListInvalidArgs(t *testing.T) {
	open, _ := memoryOpener(t)

	_, _, err := run(t, open, "", "list", "--status", "bogus")
	assert.ErrorIs(t, err, entity.ErrInvalidStatus)

	_, _, err = run(t, open, "", "list", "--kind", "accounts")
	assert.ErrorContains(t, err, "unknown kind")
}

// ============ TESTES DE IMPORT E EXPORT ============

// TestImportAndExport - CSV importado volta no export JSON
func TestImportAndExport(t *testing.T) {
	open, _ := memoryOpener(t)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "leads.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"name,company,email,source,score,status\n"+
			"Ana Souza,Acme,ana@acme.com,website,80,new\n"+
			"Bad Row,Acme,bad@acme.com,website,abc,new\n"), 0o644))

	out, errOut, err := run(t, open, "", "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 leads.")
	assert.Contains(t, errOut, "Row 3")

	out, _, err = run(t, open, "", "export", "--out", "-")
	require.NoError(t, err)
	var leads []entity.Lead
	require.NoError(t, json.Unmarshal([]byte(out), &leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "Ana Souza", leads[0].Name)
}

// TestExportToFile - nome padrão vem do formato
func TestExportToFile(t *testing.T) {
	open, _ := memoryOpener(t)
	out := filepath.Join(t.TempDir(), "opps.csv")

	stdout, _, err := run(t, open, "", "export", "--kind", "opportunities", "--format", "csv", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ID,"), string(data))
}

// TestExportUnknownFormat - formato inválido falha antes de abrir o store
func TestExportUnknownFormat(t *testing.T) {
	opened := false
	open := func(context.Context) (*session, error) { opened = true; return nil, nil }

	_, _, err := run(t, open, "", "export", "--format", "pdf")
	assert.Error(t, err)
	assert.False(t, opened)
}

// ============ TESTES DO CONVERT ============

// TestConvertCommand - cria oportunidade e marca o lead como convertido
func TestConvertCommand(t *testing.T) {
	open, _ := memoryOpener(t)
	s, err := open(context.Background())
	require.NoError(t, err)
	lead := *entity.NewLead("Ana", "Acme", "ana@acme.com", "website", 70, entity.LeadStatusQualified)
	require.NoError(t, s.state.Ctrl.Dispatch(context.Background(), usecase.AddLead{Lead: lead}))

	out, _, err := run(t, open, "", "convert", lead.ID, "--name", "Acme deal", "--account", "Acme", "--amount", "1500")
	require.NoError(t, err)
	assert.Contains(t, out, "Created opportunity")
	assert.Contains(t, out, "$1,500.00")

	s, err = open(context.Background())
	require.NoError(t, err)
	got, _ := s.state.Ctrl.Get().FindLead(lead.ID)
	assert.Equal(t, entity.LeadStatusConverted, got.Status)
	assert.Len(t, s.state.Ctrl.Get().Opportunities, 1)
}

// TestConvertValidation - campos inválidos são listados no stderr
func TestConvertValidation(t *testing.T) {
	open, _ := memoryOpener(t)
	s, err := open(context.Background())
	require.NoError(t, err)
	lead := *entity.NewLead("Ana", "Acme", "ana@acme.com", "website", 70, entity.LeadStatusQualified)
	require.NoError(t, s.state.Ctrl.Dispatch(context.Background(), usecase.AddLead{Lead: lead}))

	_, errOut, err := run(t, open, "", "convert", lead.ID)
	var vf *usecase.ValidationFailedError
	assert.ErrorAs(t, err, &vf)
	assert.Contains(t, errOut, "name:")
	assert.Contains(t, errOut, "accountName:")
}

// ============ TESTES DO CLEAR ============

// TestClearCommand - confirmação obrigatória e reset do estado
func TestClearCommand(t *testing.T) {
	open, _ := memoryOpener(t)
	_, _, err := run(t, open, "", "seed")
	require.NoError(t, err)

	_, _, err = run(t, open, "no\n", "clear")
	assert.EqualError(t, err, "aborted")

	out, _, err := run(t, open, "yes\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "All data cleared.")

	s, err := open(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.state.Ctrl.Get().Leads)
	loaded, err := s.state.Repo.SampleDataLoaded(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)
}
