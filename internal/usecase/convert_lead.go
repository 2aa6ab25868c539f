package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
)

// ConvertLead turns a lead into an opportunity. The remote is called first;
// only after it confirms are the lead removal and the opportunity insert
// written, in one commit, so a failure leaves both collections untouched.
func (c *Coordinator) ConvertLead(ctx context.Context, leadID string, form OpportunityInput) (entity.Opportunity, error) {
	release, ok := c.acquire(kindLead, leadID)
	if !ok {
		c.metrics.RecordConversion(ResultBusy)
		return entity.Opportunity{}, c.rejectBusy(ctx, kindLead, leadID)
	}
	defer release()

	lead, found := c.ctrl.Get().FindLead(leadID)
	if !found {
		c.metrics.RecordConversion(ResultNotFound)
		c.notify(ctx, entity.NotificationError, "Conversion Failed", "Lead not found")
		return entity.Opportunity{}, entity.ErrLeadNotFound
	}
	if lead.Status == entity.LeadStatusConverted {
		c.metrics.RecordConversion(ResultInvalid)
		c.notify(ctx, entity.NotificationError, "Conversion Failed", "Lead has already been converted")
		return entity.Opportunity{}, &DomainError{
			Code:    "ALREADY_CONVERTED",
			Message: entity.ErrLeadAlreadyConverted.Error(),
			Err:     entity.ErrLeadAlreadyConverted,
		}
	}

	if errs := ValidateOpportunity(form); len(errs) > 0 {
		c.metrics.RecordConversion(ResultInvalid)
		return entity.Opportunity{}, &ValidationFailedError{Errors: errs}
	}

	stage := entity.StageProspecting
	if form.Stage != "" {
		stage, _ = entity.ParseOpportunityStage(form.Stage)
	}
	opp := entity.NewOpportunityFromLead(leadID, form.Name, stage, form.Amount, form.AccountName)

	err := c.loading(ctx, func() error {
		if err := c.remote.Commit(ctx, "createOpportunity"); err != nil {
			return err
		}
		return c.ctrl.Dispatch(ctx, ConvertLead{LeadID: leadID, Opportunity: *opp})
	})
	if err != nil {
		c.metrics.RecordConversion(ResultRolledBack)
		c.logger.Warn("❌ conversão falhou", zap.String("lead_id", leadID), zap.Error(err))
		c.notify(ctx, entity.NotificationError, "Conversion Failed", userMessage(err))
		return entity.Opportunity{}, err
	}

	c.metrics.RecordConversion(ResultCommitted)
	c.logger.Info("✅ lead convertido",
		zap.String("lead_id", leadID), zap.String("opportunity_id", opp.ID))
	c.notify(ctx, entity.NotificationSuccess, "Lead Converted", "Lead has been successfully converted to an opportunity.")
	return opp.Clone(), nil
}
