package factory

import (
	"context"
	"fmt"

	"smart-product-be/pkg/llm"
	"smart-product-be/pkg/llm/gemini"
	"smart-product-be/pkg/llm/huggingface"
	"smart-product-be/pkg/llm/ollama"
)

func NewLLMProvider(ctx context.Context, providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "gemini", "":
		return gemini.NewGeminiProvider(ctx, apiKey, modelName)
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
