package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smart-product-be/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type window struct {
	start, end time.Time
}

func TestCapacityOneRunsStrictlyOneAtATime(t *testing.T) {
	p := New(1, nil)

	var (
		mu      sync.Mutex
		windows []window
		wg      sync.WaitGroup
	)

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Do(context.Background(), func(ctx context.Context) error {
				w := window{start: time.Now()}
				time.Sleep(30 * time.Millisecond)
				w.end = time.Now()
				mu.Lock()
				windows = append(windows, w)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, windows, 3)
	for i := range windows {
		for j := range windows {
			if i == j {
				continue
			}
			overlap := windows[i].start.Before(windows[j].end) && windows[j].start.Before(windows[i].end)
			assert.False(t, overlap, "runs %d and %d overlapped", i, j)
		}
	}
}

func TestCapacityBoundsConcurrency(t *testing.T) {
	p := New(2, nil)
	assert.Equal(t, 2, p.Size())

	var current, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt32(&current, 1)
				for {
					old := atomic.LoadInt32(&peak)
					if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestDoReturnsJobError(t *testing.T) {
	p := New(0, nil)
	assert.Equal(t, 1, p.Size())

	want := errors.New("boom")
	assert.ErrorIs(t, p.Do(context.Background(), func(context.Context) error { return want }), want)
}

func TestWaitAbortsButRunningJobIsNotCanceled(t *testing.T) {
	m := metrics.NewUnregistered()
	p := New(1, m)

	started := make(chan struct{})
	release := make(chan struct{})
	var jobCtxErr error
	done := make(chan struct{})

	runCtx, cancelRun := context.WithCancel(context.Background())
	go func() {
		defer close(done)
		_ = p.Do(runCtx, func(ctx context.Context) error {
			close(started)
			<-release
			jobCtxErr = ctx.Err()
			return nil
		})
	}()
	<-started
	cancelRun()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PoolInFlight))

	waitCtx, cancelWait := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelWait()
	err := p.Do(waitCtx, func(context.Context) error {
		t.Error("job must not start")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
	assert.NoError(t, jobCtxErr)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PoolInFlight))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.PoolQueueLength))
}
