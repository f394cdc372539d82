package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/pkg/workerpool"
	"smart-product-be/pkg/recommend/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerFunc func(ctx context.Context, initial state.State) (state.State, error)

func (f runnerFunc) Execute(ctx context.Context, initial state.State) (state.State, error) {
	return f(ctx, initial)
}

func TestGetRecommendationExtractsPublicFields(t *testing.T) {
	var got state.State
	runner := runnerFunc(func(ctx context.Context, initial state.State) (state.State, error) {
		got = initial
		final := initial
		final.ProductCategory = "laptop"
		final.BuyingGuide = "internal only"
		final.FinalRecommendation = "report"
		final.RecommendedProducts = []string{"A"}
		final.Sources = []state.Source{{Title: "t", URL: "u"}}
		final.EcommerceLinks.Set("A", []state.SiteLink{{Site: "Amazon", URL: "https://a"}})
		return final, nil
	})

	svc := NewRecommendationService(runner, workerpool.New(1, nil), logger.NewNopLogger())
	res, err := svc.GetRecommendation(context.Background(), "I need a budget laptop")
	require.NoError(t, err)

	require.Len(t, got.Conversation, 1)
	assert.Equal(t, "I need a budget laptop", got.Conversation[0].Content)

	assert.Equal(t, "report", res.Recommendation)
	assert.Equal(t, "laptop", res.ProductCategory)
	assert.Equal(t, []string{"A"}, res.RecommendedProducts)
	assert.Equal(t, "t", res.Sources[0].Title)
	assert.Equal(t, "u", res.Sources[0].Url)
	sites, ok := res.EcommerceLinks.Get("A")
	assert.True(t, ok)
	assert.Len(t, sites, 1)
}

func TestGetRecommendationErrors(t *testing.T) {
	pool := workerpool.New(1, nil)

	_, err := NewRecommendationService(nil, pool, logger.NewNopLogger()).GetRecommendation(context.Background(), "tv")
	assert.ErrorIs(t, err, ErrAgentNotInitialized)

	called := false
	runner := runnerFunc(func(ctx context.Context, initial state.State) (state.State, error) {
		called = true
		return initial, errors.New("stage boom panicked")
	})
	svc := NewRecommendationService(runner, pool, logger.NewNopLogger())

	_, err = svc.GetRecommendation(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.False(t, called)

	_, err = svc.GetRecommendation(context.Background(), "tv")
	assert.EqualError(t, err, "stage boom panicked")
}

func TestConcurrentRequestsQueueOnSingleWorker(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	runner := runnerFunc(func(ctx context.Context, initial state.State) (state.State, error) {
		mu.Lock()
		active++
		if active > 1 {
			overlap = true
		}
		mu.Unlock()

		time.Sleep(25 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return initial, nil
	})
	svc := NewRecommendationService(runner, workerpool.New(1, nil), logger.NewNopLogger())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetRecommendation(context.Background(), "tv")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, overlap)
}
