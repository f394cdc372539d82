package stage

import (
	"context"
	"time"

	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/pkg/metrics"
	"smart-product-be/pkg/llm"
	"smart-product-be/pkg/recommend/links"
	"smart-product-be/pkg/recommend/state"
)

const (
	AnalyzeIntent          = "analyze_intent"
	GenerateBuyingGuide    = "generate_buying_guide"
	SearchProducts         = "search_products"
	GenerateRecommendation = "generate_recommendation"
	SearchEcommerceLinks   = "search_ecommerce_links"

	// ProductExtraction labels the product list call inside GenerateRecommendation,
	// which falls back on its own.
	ProductExtraction = GenerateRecommendation + ".extraction"
)

// Fallback values used when a generation call or its parsing fails.
const (
	FallbackCategory       = "genel ürün"
	FallbackRecommendation = "Öneri oluşturulamadı."
	fallbackGuideFormat    = "%s için genel satın alma önerileri araştırılıyor..."
	fallbackSearchFormat   = "%s için ürün bilgileri bulunamadı."
)

// Sampling temperatures per call.
const (
	intentTemperature     = 0.3
	guideTemperature      = 0.3
	searchTemperature     = 0.0
	extractionTemperature = 0.1
	finalTemperature      = 0.2
)

const (
	DefaultPacing            = 100 * time.Millisecond
	DefaultMaxLinkedProducts = 4
)

// Func turns the current state into the changes it wants applied. Stages
// never fail: errors are logged and replaced by fallback values.
type Func func(ctx context.Context, s state.State) state.Delta

// Named pairs a stage with its name for logging, tracing and metrics.
type Named struct {
	Name string
	Run  Func
}

type Config struct {
	// FastModel serves structured and search calls, LargeModel long-form text.
	FastModel  string
	LargeModel string

	Sites             []links.Site
	Pacing            time.Duration
	MaxLinkedProducts int
}

// Stages holds the dependencies shared by the five recommendation stages.
type Stages struct {
	llm     llm.LLMProvider
	logger  logger.ILogger
	metrics *metrics.Metrics
	cfg     Config
	sleep   func(ctx context.Context, d time.Duration)
}

func New(provider llm.LLMProvider, log logger.ILogger, m *metrics.Metrics, cfg Config) *Stages {
	if cfg.Sites == nil {
		cfg.Sites = links.DefaultSites
	}
	if cfg.Pacing < 0 {
		cfg.Pacing = 0
	}
	if cfg.MaxLinkedProducts <= 0 {
		cfg.MaxLinkedProducts = DefaultMaxLinkedProducts
	}
	return &Stages{
		llm:     provider,
		logger:  log,
		metrics: m,
		cfg:     cfg,
		sleep:   sleepCtx,
	}
}

// Pipeline returns the stages in execution order.
func (s *Stages) Pipeline() []Named {
	return []Named{
		{Name: AnalyzeIntent, Run: s.AnalyzeIntent},
		{Name: GenerateBuyingGuide, Run: s.GenerateBuyingGuide},
		{Name: SearchProducts, Run: s.SearchProducts},
		{Name: GenerateRecommendation, Run: s.GenerateRecommendation},
		{Name: SearchEcommerceLinks, Run: s.SearchEcommerceLinks},
	}
}

func (s *Stages) fellBack(stage string, err error, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["error"] = err
	s.logger.Warn("pipeline."+stage, "using fallback value", details)
	if s.metrics != nil {
		s.metrics.StageFallbacks.WithLabelValues(stage).Inc()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
