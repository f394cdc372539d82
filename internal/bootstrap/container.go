package bootstrap

import (
	"context"

	"smart-product-be/internal/config"
	"smart-product-be/internal/controller"
	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/pkg/metrics"
	"smart-product-be/internal/pkg/workerpool"
	"smart-product-be/internal/service"
	"smart-product-be/pkg/llm"
	"smart-product-be/pkg/llm/factory"
	"smart-product-be/pkg/recommend/executor"
	"smart-product-be/pkg/recommend/stage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Container struct {
	// Controllers
	RecommendationController controller.IRecommendationController

	// Services (shared by the HTTP server and the CLI)
	RecommendationService service.IRecommendationService

	Logger          logger.ILogger
	MetricsGatherer prometheus.Gatherer
}

// NewContainer builds the LLM provider from cfg. A missing credential or a
// provider that cannot be created is logged and leaves the agent
// uninitialized: the API stays up and answers 503.
func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) *Container {
	var provider llm.LLMProvider
	if err := cfg.Validate(); err != nil {
		sysLogger.Error("bootstrap", "agent configuration invalid", map[string]interface{}{"error": err})
	} else {
		baseURL, apiKey := cfg.ProviderEndpoint()
		p, err := factory.NewLLMProvider(ctx, cfg.Ai.LLMProvider, cfg.Ai.FastModel, baseURL, apiKey)
		if err != nil {
			sysLogger.Error("bootstrap", "failed to initialize LLM provider", map[string]interface{}{"error": err})
		} else {
			provider = p
			sysLogger.Info("bootstrap", "recommendation agent initialized", map[string]interface{}{
				"provider":    cfg.Ai.LLMProvider,
				"fast_model":  cfg.Ai.FastModel,
				"large_model": cfg.Ai.LargeModel,
				"max_workers": cfg.App.MaxWorkers,
			})
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return NewContainerWithProvider(cfg, provider, sysLogger, registry)
}

// NewContainerWithProvider wires everything around an existing provider. A
// nil provider yields an uninitialized agent.
func NewContainerWithProvider(cfg *config.Config, provider llm.LLMProvider, sysLogger logger.ILogger, registry *prometheus.Registry) *Container {
	m := metrics.NewMetrics(registry)

	var runner service.PipelineRunner
	if provider != nil {
		stages := stage.New(provider, sysLogger, m, stage.Config{
			FastModel:         cfg.Ai.FastModel,
			LargeModel:        cfg.Ai.LargeModel,
			Sites:             cfg.Pipeline.EcommerceSites,
			Pacing:            cfg.Pipeline.Pacing,
			MaxLinkedProducts: cfg.Pipeline.MaxLinkedProducts,
		})
		runner = executor.NewPipelineExecutor(stages.Pipeline(), sysLogger, m)
	}

	pool := workerpool.New(cfg.App.MaxWorkers, m)
	recommendationService := service.NewRecommendationService(runner, pool, sysLogger)

	return &Container{
		RecommendationController: controller.NewRecommendationController(recommendationService),
		RecommendationService:    recommendationService,
		Logger:                   sysLogger,
		MetricsGatherer:          registry,
	}
}
