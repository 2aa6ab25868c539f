package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestTransactionRollsBackInReverse - compensações na ordem inversa
func TestTransactionRollsBackInReverse(t *testing.T) {
	var trail []string
	step := func(name string) (func(context.Context) error, func(context.Context) error) {
		return func(context.Context) error { trail = append(trail, "do "+name); return nil },
			func(context.Context) error { trail = append(trail, "undo "+name); return nil }
	}
	doA, undoA := step("a")
	doB, undoB := step("b")
	boom := errors.New("boom")

	err := NewTransaction(zap.NewNop()).
		Add("a", doA, undoA).
		Add("b", doB, undoB).
		Add("c", func(context.Context) error { return boom }, nil).
		Execute(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Equal(t, "operation 'c' failed: boom (rolled back 2 operations)", err.Error())
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, trail)
}

// TestTransactionSuccess - nenhuma compensação quando tudo passa
func TestTransactionSuccess(t *testing.T) {
	undone := false
	err := NewTransaction(nil).
		Add("a", func(context.Context) error { return nil }, func(context.Context) error { undone = true; return nil }).
		Execute(context.Background())

	require.NoError(t, err)
	assert.False(t, undone)
}

// TestTransactionCompensatesAfterCancel - desfazer roda mesmo com ctx cancelado
func TestTransactionCompensatesAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var undoCtxErr error

	err := NewTransaction(zap.NewNop()).
		Add("apply", func(context.Context) error { return nil }, func(ctx context.Context) error {
			undoCtxErr = ctx.Err()
			return nil
		}).
		Add("remote", func(ctx context.Context) error { cancel(); return ctx.Err() }, nil).
		Execute(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, undoCtxErr)
}

// TestTransactionUndoFailureKeepsGoing - falha em uma compensação não para as outras
func TestTransactionUndoFailureKeepsGoing(t *testing.T) {
	firstUndone := false
	err := NewTransaction(zap.NewNop()).
		Add("a", func(context.Context) error { return nil }, func(context.Context) error { firstUndone = true; return nil }).
		Add("b", func(context.Context) error { return nil }, func(context.Context) error { return errors.New("undo b") }).
		Add("c", func(context.Context) error { return errors.New("c") }, nil).
		Execute(context.Background())

	require.Error(t, err)
	assert.True(t, firstUndone)
}
