// Package llmtest provides scripted LLM providers for tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"smart-product-be/pkg/llm"
)

// Call records one Generate invocation.
type Call struct {
	Prompt  string
	Options llm.Options
}

// Route answers prompts containing Match.
type Route struct {
	Match    string
	Response *llm.Response
	Err      error
}

// Router returns the first route whose Match occurs in the prompt and
// records every call. Unmatched prompts get an error.
type Router struct {
	Routes []Route

	mu    sync.Mutex
	calls []Call
}

var _ llm.LLMProvider = &Router{}

func (r *Router) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Response, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Prompt: prompt, Options: *llm.Apply(opts...)})
	r.mu.Unlock()

	for _, route := range r.Routes {
		if strings.Contains(prompt, route.Match) {
			return route.Response, route.Err
		}
	}
	return nil, fmt.Errorf("llmtest: no route for prompt %.40q", prompt)
}

// Calls returns a copy of the recorded calls.
func (r *Router) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Failing fails every call with Err.
type Failing struct {
	Err error
}

func (f Failing) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Response, error) {
	return nil, f.Err
}

// Text wraps plain text as a response without grounding.
func Text(s string) *llm.Response {
	return &llm.Response{Text: s}
}

// Grounded builds a response whose first candidate cites the given pages,
// passed as alternating title, uri pairs.
func Grounded(text string, titleURIs ...string) *llm.Response {
	meta := &llm.GroundingMetadata{}
	for i := 0; i+1 < len(titleURIs); i += 2 {
		meta.GroundingChunks = append(meta.GroundingChunks, &llm.GroundingChunk{
			Web: &llm.WebChunk{Title: titleURIs[i], URI: titleURIs[i+1]},
		})
	}
	return &llm.Response{
		Text:       text,
		Candidates: []*llm.Candidate{{GroundingMetadata: meta}},
	}
}
