package usecase

import (
	"context"

	"github.com/xavierca1/seller-console/internal/entity"
)

type Notifier interface {
	Notify(ctx context.Context, n entity.Notification)
}

// Metrics records mutation outcomes. Results are committed, rolled_back,
// busy, not_found and invalid.
type Metrics interface {
	RecordMutation(kind, result string)
	RecordConversion(result string)
	RecordImportedLeads(n int)
}

type nopMetrics struct{}

func (nopMetrics) RecordMutation(string, string) {}
func (nopMetrics) RecordConversion(string)       {}
func (nopMetrics) RecordImportedLeads(int)       {}

const (
	ResultCommitted  = "committed"
	ResultRolledBack = "rolled_back"
	ResultBusy       = "busy"
	ResultNotFound   = "not_found"
	ResultInvalid    = "invalid"
)
