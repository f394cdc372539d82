package workerpool

import (
	"context"
	"fmt"

	"smart-product-be/internal/pkg/metrics"

	"golang.org/x/sync/semaphore"
)

type gauge interface {
	Add(float64)
}

type nopGauge struct{}

func (nopGauge) Add(float64) {}

// Pool bounds how many jobs run at once. Callers beyond the capacity queue
// in arrival order until a slot frees up.
type Pool struct {
	sem      *semaphore.Weighted
	size     int
	inFlight gauge
	queued   gauge
}

func New(size int, m *metrics.Metrics) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		sem:      semaphore.NewWeighted(int64(size)),
		size:     size,
		inFlight: nopGauge{},
		queued:   nopGauge{},
	}
	if m != nil {
		p.inFlight = m.PoolInFlight
		p.queued = m.PoolQueueLength
	}
	return p
}

func (p *Pool) Size() int {
	return p.size
}

// Do waits for a slot and then runs fn. ctx only bounds the wait: once fn has
// started it gets a context that is never canceled and runs to completion.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.queued.Add(1)
	err := p.sem.Acquire(ctx, 1)
	p.queued.Add(-1)
	if err != nil {
		return fmt.Errorf("waiting for worker: %w", err)
	}

	p.inFlight.Add(1)
	defer func() {
		p.inFlight.Add(-1)
		p.sem.Release(1)
	}()

	return fn(context.WithoutCancel(ctx))
}
