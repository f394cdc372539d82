package gemini

import (
	"context"
	"fmt"
	"strings"

	"smart-product-be/pkg/llm"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

// GeminiProvider talks to the Gemini API through the official genai SDK.
type GeminiProvider struct {
	client    *genai.Client
	ModelName string
}

var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		ModelName: modelName,
	}, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Response, error) {
	options := llm.Apply(opts...)

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), buildConfig(options))
	if err != nil {
		return nil, fmt.Errorf("gemini generate (%s): %w", model, err)
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return nil, llm.ErrEmptyResponse
	}

	return &llm.Response{
		Text:       text,
		Candidates: mapCandidates(res.Candidates),
	}, nil
}

func buildConfig(options *llm.Options) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if options.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*options.Temperature))
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.GoogleSearch {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	return cfg
}

// mapCandidates copies grounding citations out of the SDK types, keeping nil
// wherever the API left a level out.
func mapCandidates(candidates []*genai.Candidate) []*llm.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	out := make([]*llm.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			out = append(out, nil)
			continue
		}
		mapped := &llm.Candidate{}
		if c.GroundingMetadata != nil {
			meta := &llm.GroundingMetadata{}
			for _, chunk := range c.GroundingMetadata.GroundingChunks {
				if chunk == nil {
					continue
				}
				gc := &llm.GroundingChunk{}
				if chunk.Web != nil {
					gc.Web = &llm.WebChunk{
						Title: chunk.Web.Title,
						URI:   chunk.Web.URI,
					}
				}
				meta.GroundingChunks = append(meta.GroundingChunks, gc)
			}
			mapped.GroundingMetadata = meta
		}
		out = append(out, mapped)
	}
	return out
}
