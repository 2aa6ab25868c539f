package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// Remote confirms a mutation with the backing service.
type Remote interface {
	Commit(ctx context.Context, op string) error
}

var ErrSimulatedFailure = errors.New("simulated transient failure")

// SimulatedRemote stands in for the sales API: it waits a random latency
// and fails a configurable fraction of calls.
type SimulatedRemote struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64

	mu   sync.Mutex
	rng  *rand.Rand
	fail func(op string) bool
}

type RemoteOption func(*SimulatedRemote)

// WithSeed makes latency and failures reproducible.
func WithSeed(seed uint64) RemoteOption {
	return func(r *SimulatedRemote) { r.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithFailure replaces the random failure draw.
func WithFailure(fail func(op string) bool) RemoteOption {
	return func(r *SimulatedRemote) { r.fail = fail }
}

func NewSimulatedRemote(minLatency, maxLatency time.Duration, failureRate float64, opts ...RemoteOption) *SimulatedRemote {
	if maxLatency < minLatency {
		maxLatency = minLatency
	}
	r := &SimulatedRemote{
		minLatency:  minLatency,
		maxLatency:  maxLatency,
		failureRate: failureRate,
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SimulatedRemote) Commit(ctx context.Context, op string) error {
	latency, failed := r.draw(op)

	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	case <-timer.C:
	}

	if failed {
		return &TechnicalError{
			Code:    CodeRemoteFailure,
			Message: "Network request failed. Please try again.",
			Err:     fmt.Errorf("%s: %w", op, ErrSimulatedFailure),
		}
	}
	return nil
}

func (r *SimulatedRemote) draw(op string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	latency := r.minLatency
	if span := r.maxLatency - r.minLatency; span > 0 {
		latency += time.Duration(r.rng.Int64N(int64(span) + 1))
	}
	if r.fail != nil {
		return latency, r.fail(op)
	}
	return latency, r.failureRate > 0 && r.rng.Float64() < r.failureRate
}
