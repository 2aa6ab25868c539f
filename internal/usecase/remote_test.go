package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimulatedRemoteSucceeds - sem falhas configuradas
func TestSimulatedRemoteSucceeds(t *testing.T) {
	r := NewSimulatedRemote(time.Millisecond, 2*time.Millisecond, 0, WithSeed(1))

	start := time.Now()
	require.NoError(t, r.Commit(context.Background(), "updateLead"))
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond)
}

// TestSimulatedRemoteInjectedFailure - falha injetada por operação
func TestSimulatedRemoteInjectedFailure(t *testing.T) {
	r := NewSimulatedRemote(0, 0, 0, WithFailure(func(op string) bool { return op == "createOpportunity" }))

	require.NoError(t, r.Commit(context.Background(), "updateLead"))

	err := r.Commit(context.Background(), "createOpportunity")
	require.Error(t, err)
	assert.True(t, IsRemoteFailure(err))
	assert.ErrorIs(t, err, ErrSimulatedFailure)
	assert.Equal(t, "Network request failed. Please try again.", err.Error())
}

// TestSimulatedRemoteAlwaysFails - taxa 1 falha sempre
func TestSimulatedRemoteAlwaysFails(t *testing.T) {
	r := NewSimulatedRemote(0, 0, 1, WithSeed(7))
	for range 5 {
		assert.Error(t, r.Commit(context.Background(), "op"))
	}
}

// TestSimulatedRemoteHonoursContext - cancelamento interrompe a espera
func TestSimulatedRemoteHonoursContext(t *testing.T) {
	r := NewSimulatedRemote(time.Hour, time.Hour, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := r.Commit(ctx, "updateLead")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestSimulatedRemoteSeedReproducible - mesma semente, mesmas falhas
func TestSimulatedRemoteSeedReproducible(t *testing.T) {
	draws := func() []bool {
		r := NewSimulatedRemote(0, 0, 0.5, WithSeed(42))
		out := make([]bool, 20)
		for i := range out {
			out[i] = r.Commit(context.Background(), "op") != nil
		}
		return out
	}
	assert.Equal(t, draws(), draws())
}
