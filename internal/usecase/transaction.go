package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step pairs an operation with the compensation that undoes it. Undo may be
// nil for steps with nothing to revert.
type Step struct {
	Name string
	Do   func(context.Context) error
	Undo func(context.Context) error
}

// Transaction runs steps in order; when one fails, the steps that already
// ran are compensated in reverse order.
type Transaction struct {
	steps  []Step
	logger *zap.Logger
}

func NewTransaction(logger *zap.Logger) *Transaction {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transaction{logger: logger}
}

func (t *Transaction) Add(name string, do, undo func(context.Context) error) *Transaction {
	t.steps = append(t.steps, Step{Name: name, Do: do, Undo: undo})
	return t
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, step := range t.steps {
		if err := step.Do(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", step.Name, err, i)
		}
	}
	return nil
}

// rollback ignores cancellation of ctx: a caller that gave up must still
// leave the state consistent.
func (t *Transaction) rollback(ctx context.Context, failedAt int) {
	ctx = context.WithoutCancel(ctx)
	for i := failedAt - 1; i >= 0; i-- {
		step := t.steps[i]
		if step.Undo == nil {
			continue
		}
		if err := step.Undo(ctx); err != nil {
			t.logger.Error("⚠️ compensação falhou, risco de inconsistência",
				zap.String("step", step.Name), zap.Error(err))
		}
	}
}
