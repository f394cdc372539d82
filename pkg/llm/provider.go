package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the backend answered without any text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

// Option allows for optional parameters like Temperature, Model, grounding tools.
type Option func(*Options)

type Options struct {
	Temperature  *float64 // nil keeps the provider default
	MaxTokens    int
	Model        string // Override default model
	GoogleSearch bool   // Ground the answer with live web search
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// WithGoogleSearch enables web-search grounding on providers that support it.
// Providers without grounding ignore it and return no grounding metadata.
func WithGoogleSearch() Option {
	return func(o *Options) {
		o.GoogleSearch = true
	}
}

// Apply folds opts over a zero Options value.
func Apply(opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Response is the provider-agnostic result of a generation call.
// Every level below Candidates may be absent.
type Response struct {
	Text       string
	Candidates []*Candidate
}

type Candidate struct {
	GroundingMetadata *GroundingMetadata
}

type GroundingMetadata struct {
	GroundingChunks []*GroundingChunk
}

type GroundingChunk struct {
	Web *WebChunk
}

// WebChunk is a web citation. Empty fields mean the backend did not send them.
type WebChunk struct {
	Title string
	URI   string
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Generate sends a single prompt to the model
	Generate(ctx context.Context, prompt string, options ...Option) (*Response, error)
}
