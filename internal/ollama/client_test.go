package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/prquiz/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.OllamaConfig{
		Endpoint: server.URL,
		Model:    "llama3.1",
		Timeout:  5 * time.Second,
	})
}

func TestGenerateCompletion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1", req.Model)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Format)
		assert.Equal(t, "json", req.Format.Type)

		resp := GenerateResponse{
			Model:    "llama3.1",
			Response: `{"questions": []}`,
			Done:     true,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	resp, err := client.GenerateCompletion(context.Background(), GenerateRequest{
		Prompt: "generate a quiz",
		Format: &ResponseFormat{Type: "json"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"questions": []}`, resp.Response)
	assert.True(t, resp.Done)
}

func TestGenerateCompletionModelError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "model 'llama3.1' not found"}`))
	})

	_, err := client.GenerateCompletion(context.Background(), GenerateRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGenerateCompletionHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})

	_, err := client.GenerateCompletion(context.Background(), GenerateRequest{Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestListModels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.1:latest"}, {"name": "codellama:13b"}]}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "llama3.1:latest", models[0].Name)
	assert.Equal(t, "codellama:13b", models[1].Name)
}

func TestNewClientTransport(t *testing.T) {
	client := NewClient(config.OllamaConfig{
		MaxIdleConns:        42,
		MaxIdleConnsPerHost: 7,
		IdleConnTimeout:     90 * time.Second,
	})

	assert.Equal(t, DefaultEndpoint, client.config.Endpoint)

	transport, ok := client.httpClient.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 42, transport.MaxIdleConns)
	assert.Equal(t, 7, transport.MaxIdleConnsPerHost)
	assert.Equal(t, 90*time.Second, transport.IdleConnTimeout)
}

func TestGetVersion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version": "0.5.7"}`))
	})

	version, err := client.GetVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.5.7", version)
}
