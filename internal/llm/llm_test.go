package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/prquiz/internal/analyzer"
	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/extractor"
	"github.com/tildaslashalef/prquiz/internal/github"
	"github.com/tildaslashalef/prquiz/internal/loggy"
	"github.com/tildaslashalef/prquiz/internal/quiz"
)

func testGenerationContext(questionCount int) *quiz.GenerationContext {
	return &quiz.GenerationContext{
		PullRequest: &github.PullRequestRecord{
			Owner:  "owner",
			Repo:   "repo",
			Number: 1,
			Title:  "Add retry logic",
			Author: "alice",
		},
		Analysis: &analyzer.Analysis{
			Changes: []analyzer.CodeChange{
				{Filename: "retry.go", Type: "added", Language: "go", LinesChanged: 40},
			},
			Complexity: 25,
			Languages:  []string{"go"},
			FocusAreas: []analyzer.FocusArea{{Type: "logic", Weight: 0.3}},
		},
		QuestionCount: questionCount,
		Difficulty:    "medium",
	}
}

func questionsPayload(n int) string {
	questions := make([]map[string]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, map[string]interface{}{
			"content":       fmt.Sprintf("Question %d?", i),
			"correctAnswer": "a",
			"options": []map[string]interface{}{
				{"id": "a", "text": "yes", "isCorrect": true},
				{"id": "b", "text": "no", "isCorrect": false},
			},
		})
	}
	data, _ := json.Marshal(map[string]interface{}{"questions": questions})
	return string(data)
}

func TestFactoryCreateProvider(t *testing.T) {
	cfg := &config.Config{
		DefaultProvider: ProviderOllama,
		OpenAI:          config.OpenAIConfig{APIKey: "sk-test"},
		Ollama:          config.OllamaConfig{Endpoint: "http://localhost:11434", Model: "llama3.1"},
	}
	factory := NewFactory(cfg, loggy.NewNoopLogger())

	p, err := factory.CreateProvider(ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.Name())

	p, err = factory.DefaultProvider()
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p.Name())

	_, err = factory.CreateProvider(ProviderGemini)
	assert.Error(t, err, "gemini without API key should be rejected")

	_, err = factory.CreateProvider("anthropic")
	assert.Error(t, err)
}

func TestFinalizeQuestionsTruncates(t *testing.T) {
	questions := []quiz.Question{{ID: "question-1"}, {ID: "question-2"}, {ID: "question-3"}}

	assert.Len(t, finalizeQuestions(questions, 2), 2)
	assert.Len(t, finalizeQuestions(questions, 3), 3)
	// Fewer than requested is accepted silently
	assert.Len(t, finalizeQuestions(questions, 5), 3)
	assert.Len(t, finalizeQuestions(questions, 0), 3)
}

func TestParseQuestionsKeepsRawResponse(t *testing.T) {
	ext := extractor.NewQuestionExtractor(loggy.NewNoopLogger())
	raw := "no JSON at all here diagnostic-marker-12345"

	_, err := parseQuestions(ext, "openai", raw, 3)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "openai", provErr.Provider)

	// The raw model response stays reachable through the error chain.
	var parseErr *extractor.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, raw, parseErr.RawText)
}

func TestOpenAIProviderGenerateQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		format, ok := req["response_format"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])

		resp := map[string]interface{}{
			"id":    "chatcmpl-1",
			"model": "gpt-4o",
			"choices": []map[string]interface{}{
				{
					"index":   0,
					"message": map[string]interface{}{"role": "assistant", "content": questionsPayload(7)},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(&config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/v1",
		Model:   "gpt-4o",
		Timeout: 5 * time.Second,
	}, loggy.NewNoopLogger())

	questions, err := provider.GenerateQuestions(context.Background(), testGenerationContext(5))
	require.NoError(t, err)
	// 7 returned, truncated to the requested 5
	require.Len(t, questions, 5)
	assert.Equal(t, "question-1", questions[0].ID)
	assert.Equal(t, quiz.DifficultyMedium, questions[0].Difficulty)
}

func TestOpenAIProviderRequestFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(&config.OpenAIConfig{
		APIKey:  "sk-bad",
		BaseURL: server.URL + "/v1",
		Model:   "gpt-4o",
		Timeout: 5 * time.Second,
	}, loggy.NewNoopLogger())

	_, err := provider.GenerateQuestions(context.Background(), testGenerationContext(5))
	require.Error(t, err)

	provErr, ok := err.(*ProviderError)
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, provErr.Provider)
	assert.Contains(t, provErr.Details, "Incorrect API key")
}

func TestOllamaProviderGenerateQuestions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		format, ok := req["format"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "json", format["type"])

		resp := map[string]interface{}{
			"model":    "llama3.1",
			"response": questionsPayload(3),
			"done":     true,
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	provider := NewOllamaProvider(&config.OllamaConfig{
		Endpoint: server.URL,
		Model:    "llama3.1",
		Timeout:  5 * time.Second,
	}, loggy.NewNoopLogger())

	questions, err := provider.GenerateQuestions(context.Background(), testGenerationContext(5))
	require.NoError(t, err)
	assert.Len(t, questions, 3)
}

func TestOllamaValidateConnectionModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models": [{"name": "codellama:13b"}, {"name": "mistral:latest"}]}`))
	}))
	defer server.Close()

	provider := NewOllamaProvider(&config.OllamaConfig{
		Endpoint: server.URL,
		Model:    "llama3.1",
		Timeout:  5 * time.Second,
	}, loggy.NewNoopLogger())

	err := provider.ValidateConnection(context.Background())
	require.Error(t, err)

	notInstalled, ok := err.(*ModelNotInstalledError)
	require.True(t, ok)
	assert.Equal(t, "llama3.1", notInstalled.Model)
	assert.Contains(t, err.Error(), "codellama:13b")
	assert.Contains(t, err.Error(), "mistral:latest")
}

func TestOllamaValidateConnectionModelInstalled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models": [{"name": "llama3.1:latest"}]}`))
	}))
	defer server.Close()

	provider := NewOllamaProvider(&config.OllamaConfig{
		Endpoint: server.URL,
		Model:    "llama3.1",
		Timeout:  5 * time.Second,
	}, loggy.NewNoopLogger())

	assert.NoError(t, provider.ValidateConnection(context.Background()))
}

func TestGeminiProviderFencedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")

		fenced := "```json\n" + questionsPayload(2) + "\n```"
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"role":  "model",
						"parts": []map[string]interface{}{{"text": fenced}},
					},
					"finishReason": "STOP",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	provider := NewGeminiProvider(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-2.0-flash",
		Timeout: 5 * time.Second,
	}, loggy.NewNoopLogger())

	questions, err := provider.GenerateQuestions(context.Background(), testGenerationContext(5))
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Question 1?", questions[0].Content)
}

func TestModelMatches(t *testing.T) {
	assert.True(t, modelMatches("llama3.1", "llama3.1"))
	assert.True(t, modelMatches("llama3.1", "llama3.1:latest"))
	assert.False(t, modelMatches("llama3.1", "llama3:latest"))
	assert.False(t, modelMatches("llama3.1", "codellama:13b"))
}
