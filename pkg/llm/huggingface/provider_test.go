package huggingface

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
	var got chatRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Zenbook 14"}}]}`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("hf_token", srv.URL+"/v1/", "qwen")
	res, err := p.Generate(context.Background(), "list products", llm.WithTemperature(0), llm.WithModel("mistral"))
	require.NoError(t, err)

	assert.Equal(t, "Zenbook 14", res.Text)
	assert.Nil(t, res.Candidates)
	assert.Equal(t, "Bearer hf_token", auth)
	assert.Equal(t, "mistral", got.Model)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.0, *got.Temperature)
	assert.Equal(t, []chatMessage{{Role: "user", Content: "list products"}}, got.Messages)
}

func TestGenerateErrors(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
		target error
	}{
		"http error":     {status: http.StatusTooManyRequests, body: `rate limited`},
		"api error":      {status: http.StatusOK, body: `{"error":{"message":"model loading"}}`},
		"no choices":     {status: http.StatusOK, body: `{"choices":[]}`, target: llm.ErrEmptyResponse},
		"blank content":  {status: http.StatusOK, body: `{"choices":[{"message":{"content":"  "}}]}`, target: llm.ErrEmptyResponse},
		"malformed body": {status: http.StatusOK, body: `{`},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceProvider("", srv.URL, "qwen").Generate(context.Background(), "hi")
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}
