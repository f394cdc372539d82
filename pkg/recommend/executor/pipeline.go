package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/pkg/metrics"
	"smart-product-be/pkg/recommend/stage"
	"smart-product-be/pkg/recommend/state"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("smart-product-be/pkg/recommend/executor")

// PipelineExecutor runs the recommendation stages in their fixed order:
// analyze intent → buying guide → product search → recommendation → store links.
// Every stage sees the deltas of all earlier stages.
type PipelineExecutor struct {
	stages  []stage.Named
	logger  logger.ILogger
	metrics *metrics.Metrics
}

func NewPipelineExecutor(stages []stage.Named, log logger.ILogger, m *metrics.Metrics) *PipelineExecutor {
	return &PipelineExecutor{
		stages:  stages,
		logger:  log,
		metrics: m,
	}
}

// Execute folds the stages over initial. Stage failures are absorbed by the
// stages themselves; an error here means a stage panicked.
func (p *PipelineExecutor) Execute(ctx context.Context, initial state.State) (state.State, error) {
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "recommendation.pipeline")
	span.SetAttributes(attribute.String("run_id", runID))
	defer span.End()

	p.logger.Info("pipeline", "starting recommendation pipeline", map[string]interface{}{
		"run_id":     runID,
		"user_input": truncate(initial.LastUserMessage(), 80),
	})

	current := initial
	for _, st := range p.stages {
		delta, err := p.runStage(ctx, runID, st, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.countRun("error")
			return current, err
		}
		current = current.Apply(delta)
	}

	p.countRun("ok")
	p.logger.Info("pipeline", "recommendation pipeline finished", map[string]interface{}{
		"run_id":           runID,
		"product_category": current.ProductCategory,
		"products":         len(current.RecommendedProducts),
		"sources":          len(current.Sources),
	})
	return current, nil
}

func (p *PipelineExecutor) runStage(ctx context.Context, runID string, st stage.Named, current state.State) (delta state.Delta, err error) {
	ctx, span := tracer.Start(ctx, "stage."+st.Name)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s panicked: %v", st.Name, r)
			p.logger.Error("pipeline."+st.Name, "stage panicked", map[string]interface{}{
				"run_id": runID,
				"error":  err,
				"stack":  string(debug.Stack()),
			})
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if p.metrics != nil {
			p.metrics.StageDuration.WithLabelValues(st.Name).Observe(time.Since(start).Seconds())
		}
		span.End()
	}()

	p.logger.Debug("pipeline."+st.Name, "stage started", map[string]interface{}{"run_id": runID})
	delta = st.Run(ctx, current)
	return delta, nil
}

func (p *PipelineExecutor) countRun(outcome string) {
	if p.metrics != nil {
		p.metrics.PipelineRuns.WithLabelValues(outcome).Inc()
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
