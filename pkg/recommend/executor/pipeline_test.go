package executor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/pkg/metrics"
	"smart-product-be/pkg/llm"
	"smart-product-be/pkg/llm/llmtest"
	"smart-product-be/pkg/recommend/links"
	"smart-product-be/pkg/recommend/stage"
	"smart-product-be/pkg/recommend/state"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laptopRouter() *llmtest.Router {
	return &llmtest.Router{Routes: []llmtest.Route{
		{Match: "Kullanıcının mesajını analiz et", Response: llmtest.Text(`{"product_category": "laptop", "user_intent": "budget laptop"}`)},
		{Match: "kısa ve pratik bir satın alma rehberi", Response: llmtest.Text("Check RAM and battery.")},
		{Match: "güncel ürün önerilerini araştır", Response: llmtest.Grounded("Lenovo IdeaPad 3 and Asus Vivobook 15 are good picks.",
			"hepsiburada.com", "https://hb.example/1",
			"trendyol.com", "https://ty.example/2",
		)},
		{Match: "önerilen ürünlerin listesini çıkar", Response: llmtest.Text("Lenovo IdeaPad 3\nAsus Vivobook 15\n")},
		{Match: "Kapsamlı bir ürün satın alma önerisi", Response: llmtest.Text("# 🛍️ Laptop Satın Alma Rehberi")},
	}}
}

func newExecutor(p llm.LLMProvider, m *metrics.Metrics) *PipelineExecutor {
	log := logger.NewNopLogger()
	stages := stage.New(p, log, m, stage.Config{FastModel: "fast", LargeModel: "large"})
	return NewPipelineExecutor(stages.Pipeline(), log, m)
}

func TestExecuteLaptopScenario(t *testing.T) {
	m := metrics.NewUnregistered()
	final, err := newExecutor(laptopRouter(), m).Execute(context.Background(), state.New("I need a budget laptop"))
	require.NoError(t, err)

	assert.Equal(t, "laptop", final.ProductCategory)
	assert.Equal(t, "budget laptop", final.UserIntent)
	assert.Equal(t, "Check RAM and battery.", final.BuyingGuide)
	assert.Equal(t, []string{"Lenovo IdeaPad 3", "Asus Vivobook 15"}, final.RecommendedProducts)
	require.Len(t, final.EcommerceLinks, 2)
	for _, p := range final.EcommerceLinks {
		require.Len(t, p.Sites, len(links.DefaultSites))
		for i, s := range p.Sites {
			assert.Equal(t, links.DefaultSites[i].Name, s.Site)
		}
	}
	assert.Len(t, final.Sources, 2)

	sourcesAt := strings.Index(final.FinalRecommendation, "## 📚 Kaynaklar:")
	storesAt := strings.Index(final.FinalRecommendation, "## 🛒 E-Ticaret Siteleri:")
	require.NotEqual(t, -1, sourcesAt)
	require.NotEqual(t, -1, storesAt)
	assert.Less(t, sourcesAt, storesAt)
	assert.Contains(t, final.FinalRecommendation, "1. [hepsiburada](https://hb.example/1)")

	require.Len(t, final.Conversation, 3)
	assert.Equal(t, state.RoleUser, final.Conversation[0].Role)
	assert.Equal(t, final.FinalRecommendation, final.Conversation[2].Content)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PipelineRuns.WithLabelValues("ok")))
	assert.Equal(t, 5, testutil.CollectAndCount(m.StageDuration))
}

func TestExecuteEveryCallFails(t *testing.T) {
	m := metrics.NewUnregistered()
	final, err := newExecutor(llmtest.Failing{Err: errors.New("quota exceeded")}, m).
		Execute(context.Background(), state.New("I need a budget laptop"))
	require.NoError(t, err)

	assert.Equal(t, stage.FallbackCategory, final.ProductCategory)
	assert.Equal(t, "I need a budget laptop", final.UserIntent)
	assert.Equal(t, stage.FallbackRecommendation, final.FinalRecommendation)
	assert.Equal(t, []string{}, final.RecommendedProducts)
	assert.Equal(t, state.Links{}, final.EcommerceLinks)
	assert.Equal(t, []state.Source{}, final.Sources)

	for _, name := range []string{stage.AnalyzeIntent, stage.GenerateBuyingGuide, stage.SearchProducts, stage.ProductExtraction, stage.GenerateRecommendation} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.StageFallbacks.WithLabelValues(name)), name)
	}
}

func TestExecuteEmptyProductsLeavesReportUntouched(t *testing.T) {
	router := laptopRouter()
	router.Routes = append([]llmtest.Route{
		{Match: "önerilen ürünlerin listesini çıkar", Response: llmtest.Text("# nothing\n* here\n")},
	}, router.Routes...)

	final, err := newExecutor(router, nil).Execute(context.Background(), state.New("I need a budget laptop"))
	require.NoError(t, err)

	assert.Equal(t, []string{}, final.RecommendedProducts)
	assert.Equal(t, state.Links{}, final.EcommerceLinks)
	assert.NotContains(t, final.FinalRecommendation, "E-Ticaret Siteleri")
	assert.Contains(t, final.FinalRecommendation, "## 📚 Kaynaklar:")
	require.Len(t, final.Conversation, 2)
	assert.Equal(t, final.FinalRecommendation, final.Conversation[1].Content)
}

func TestExecuteIsShapeStable(t *testing.T) {
	shape := func() string {
		final, err := newExecutor(laptopRouter(), nil).Execute(context.Background(), state.New("I need a budget laptop"))
		require.NoError(t, err)
		raw, err := json.Marshal(map[string]any{
			"recommendation":       final.FinalRecommendation,
			"product_category":     final.ProductCategory,
			"recommended_products": final.RecommendedProducts,
			"ecommerce_links":      final.EcommerceLinks,
			"sources":              final.Sources,
		})
		require.NoError(t, err)
		return string(raw)
	}

	assert.Equal(t, shape(), shape())
}

func TestExecuteThreadsDeltasInOrder(t *testing.T) {
	var seen []string
	record := func(name string, d state.Delta) stage.Named {
		return stage.Named{Name: name, Run: func(ctx context.Context, s state.State) state.Delta {
			seen = append(seen, name+":"+s.ProductCategory+"|"+s.BuyingGuide)
			return d
		}}
	}

	exec := NewPipelineExecutor([]stage.Named{
		record("one", state.Delta{ProductCategory: state.Str("tv")}),
		record("two", state.Delta{BuyingGuide: state.Str("guide")}),
		record("three", state.Delta{}),
	}, logger.NewNopLogger(), nil)

	final, err := exec.Execute(context.Background(), state.New("q"))
	require.NoError(t, err)

	assert.Equal(t, []string{"one:|", "two:tv|", "three:tv|guide"}, seen)
	assert.Equal(t, "guide", final.BuyingGuide)
}

func TestExecutePanicBecomesError(t *testing.T) {
	ran := false
	exec := NewPipelineExecutor([]stage.Named{
		{Name: "boom", Run: func(context.Context, state.State) state.Delta { panic("nil map write") }},
		{Name: "after", Run: func(context.Context, state.State) state.Delta { ran = true; return state.Delta{} }},
	}, logger.NewNopLogger(), metrics.NewUnregistered())

	_, err := exec.Execute(context.Background(), state.New("q"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage boom panicked: nil map write")
	assert.False(t, ran)
}
