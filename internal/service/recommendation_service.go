package service

import (
	"context"
	"errors"
	"strings"

	"smart-product-be/internal/dto"
	"smart-product-be/internal/mapper"
	"smart-product-be/internal/pkg/logger"
	"smart-product-be/internal/pkg/workerpool"
	"smart-product-be/pkg/recommend/state"
)

var (
	ErrAgentNotInitialized = errors.New("recommendation agent is not initialized")
	ErrEmptyInput          = errors.New("product request cannot be empty")
)

// PipelineRunner executes one recommendation pipeline over an initial state.
type PipelineRunner interface {
	Execute(ctx context.Context, initial state.State) (state.State, error)
}

type IRecommendationService interface {
	Ready() bool
	GetRecommendation(ctx context.Context, userInput string) (*dto.RecommendationResponse, error)
}

type recommendationService struct {
	runner PipelineRunner
	pool   *workerpool.Pool
	logger logger.ILogger
}

// NewRecommendationService wires the facade. runner is nil when the agent
// failed to start; the service then reports ErrAgentNotInitialized.
func NewRecommendationService(runner PipelineRunner, pool *workerpool.Pool, log logger.ILogger) IRecommendationService {
	return &recommendationService{
		runner: runner,
		pool:   pool,
		logger: log,
	}
}

func (s *recommendationService) Ready() bool {
	return s.runner != nil
}

func (s *recommendationService) GetRecommendation(ctx context.Context, userInput string) (*dto.RecommendationResponse, error) {
	if s.runner == nil {
		return nil, ErrAgentNotInitialized
	}
	if strings.TrimSpace(userInput) == "" {
		return nil, ErrEmptyInput
	}

	var final state.State
	err := s.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		final, err = s.runner.Execute(ctx, state.New(userInput))
		return err
	})
	if err != nil {
		s.logger.Error("service.recommendation", "recommendation failed", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}

	return mapper.ToRecommendationResponse(final), nil
}
