package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
)

// ============ CONVERSÃO ============

// TestConvertLeadAtomic - lead sai e oportunidade entra no mesmo commit
func TestConvertLeadAtomic(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemote)
	remote.On("Commit", mock.Anything, "createOpportunity").Return(nil).Once()

	h := newHarness(t, remote, []entity.Lead{
		makeLead("1", "John", 85, entity.LeadStatusQualified),
		makeLead("2", "Jane", 40, entity.LeadStatusNew),
	}, nil)

	opp, err := h.coord.ConvertLead(ctx, "1", OpportunityInput{
		Name:        "John Deal",
		Amount:      ptr(5000.0),
		AccountName: "John Corp",
	})

	require.NoError(t, err)
	assert.Equal(t, "1", opp.LeadID)
	assert.Equal(t, entity.StageProspecting, opp.Stage)
	assert.Equal(t, 5000.0, *opp.Amount)

	s := h.ctrl.Get()
	_, stillLead := s.FindLead("1")
	assert.False(t, stillLead)
	assert.Len(t, s.Leads, 1)
	require.Len(t, s.Opportunities, 1)
	assert.Equal(t, opp, s.Opportunities[0])

	leads, err := h.repo.LoadLeads(ctx)
	require.NoError(t, err)
	opps, err := h.repo.LoadOpportunities(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Len(t, opps, 1)

	n := h.notes.last()
	assert.Equal(t, "Lead Converted", n.Title)
	assert.Equal(t, "Lead has been successfully converted to an opportunity.", n.Message)
	remote.AssertExpectations(t)
}

// TestConvertLeadRemoteFailure - nenhuma coleção muda quando o remoto falha
func TestConvertLeadRemoteFailure(t *testing.T) {
	ctx := context.Background()
	remote := new(MockRemote)
	remote.On("Commit", mock.Anything, "createOpportunity").Return(remoteFailure("createOpportunity"))

	h := newHarness(t, remote, []entity.Lead{makeLead("1", "John", 85, entity.LeadStatusQualified)}, nil)
	before := h.ctrl.Get()

	_, err := h.coord.ConvertLead(ctx, "1", OpportunityInput{Name: "Deal", AccountName: "Acme"})

	require.Error(t, err)
	after := h.ctrl.Get()
	assert.Equal(t, before.Leads, after.Leads)
	assert.Empty(t, after.Opportunities)
	assert.Equal(t, "Conversion Failed", h.notes.last().Title)
	assert.Equal(t, "Network request failed. Please try again.", h.notes.last().Message)
}

// TestConvertLeadStoreFailure - commit atômico falhando não deixa meio estado
func TestConvertLeadStoreFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, new(MockRemote), []entity.Lead{makeLead("1", "John", 85, entity.LeadStatusQualified)}, nil)

	remote := new(MockRemote)
	remote.On("Commit", mock.Anything, "createOpportunity").Return(nil)
	ctrl := NewController(failingRepo{StateRepository: h.repo, err: errors.New("locked")}, 20, zap.NewNop())
	require.NoError(t, ctrl.Load(ctx))
	coord := NewCoordinator(ctrl, remote, h.notes, nil, zap.NewNop())

	_, err := coord.ConvertLead(ctx, "1", OpportunityInput{Name: "Deal", AccountName: "Acme"})

	require.Error(t, err)
	s := ctrl.Get()
	assert.Len(t, s.Leads, 1)
	assert.Empty(t, s.Opportunities)

	opps, err := h.repo.LoadOpportunities(ctx)
	require.NoError(t, err)
	assert.Empty(t, opps)
}

// TestConvertLeadNotFound - lead inexistente
func TestConvertLeadNotFound(t *testing.T) {
	remote := new(MockRemote)
	h := newHarness(t, remote, nil, nil)

	_, err := h.coord.ConvertLead(context.Background(), "ghost", OpportunityInput{Name: "Deal", AccountName: "Acme"})

	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
	assert.Equal(t, "Lead not found", h.notes.last().Message)
	remote.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

// TestConvertLeadAlreadyConverted - status converted não converte de novo
func TestConvertLeadAlreadyConverted(t *testing.T) {
	remote := new(MockRemote)
	h := newHarness(t, remote, []entity.Lead{makeLead("1", "John", 85, entity.LeadStatusConverted)}, nil)

	_, err := h.coord.ConvertLead(context.Background(), "1", OpportunityInput{Name: "Deal", AccountName: "Acme"})

	assert.ErrorIs(t, err, entity.ErrLeadAlreadyConverted)
	assert.Len(t, h.ctrl.Get().Leads, 1)
}

// TestConvertLeadInvalidForm - formulário inválido não chama o remoto
func TestConvertLeadInvalidForm(t *testing.T) {
	remote := new(MockRemote)
	h := newHarness(t, remote, []entity.Lead{makeLead("1", "John", 85, entity.LeadStatusQualified)}, nil)

	_, err := h.coord.ConvertLead(context.Background(), "1", OpportunityInput{
		Name:   " ",
		Stage:  "won",
		Amount: ptr(-1.0),
	})

	var vf *ValidationFailedError
	require.ErrorAs(t, err, &vf)
	assert.Equal(t, map[string]string{
		"name":        "Name is required",
		"accountName": "Account name is required",
		"amount":      "Amount must be a positive number",
		"stage":       "Stage must be one of prospecting, qualification, proposal, negotiation, closed_won, closed_lost",
	}, vf.Fields())
	assert.Empty(t, h.notes.all())
	remote.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}
