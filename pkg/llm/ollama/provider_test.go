package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-product-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   got.Model,
			Message: ollamaMessage{Role: "assistant", Content: "laptop"},
			Done:    true,
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama3")
	res, err := p.Generate(context.Background(), "hello",
		llm.WithTemperature(0),
		llm.WithModel("mistral"),
		llm.WithGoogleSearch(),
	)
	require.NoError(t, err)

	assert.Equal(t, "laptop", res.Text)
	assert.Empty(t, res.Candidates)
	assert.Equal(t, "mistral", got.Model)
	require.NotNil(t, got.Options.Temperature)
	assert.Equal(t, 0.0, *got.Options.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "bad json", status: http.StatusOK, body: `not json`},
		{name: "empty content", status: http.StatusOK, body: `{"message":{"role":"assistant","content":"  "}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}
