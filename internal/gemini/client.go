package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tildaslashalef/prquiz/internal/loggy"
)

// Client represents a Google Gemini API client
type Client struct {
	apiKey           string
	baseURL          string
	apiVersion       string
	defaultModel     string
	defaultMaxTokens int
	temperature      *float64
	httpClient       *http.Client
}

// Config configures the Gemini client
type Config struct {
	APIKey       string        // API key for authentication
	BaseURL      string        // Base URL for the Gemini API
	APIVersion   string        // API version (v1 or v1beta)
	DefaultModel string        // Model to use if not specified in request
	MaxTokens    int           // Default max tokens for generation
	Temperature  *float64      // Default temperature value
	Timeout      time.Duration // HTTP client timeout
}

// NewClient creates a new Gemini client from config
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	defaultModel := cfg.DefaultModel
	if defaultModel == "" {
		defaultModel = "gemini-2.0-flash"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &Client{
		apiKey:           cfg.APIKey,
		baseURL:          baseURL,
		apiVersion:       apiVersion,
		defaultModel:     defaultModel,
		defaultMaxTokens: maxTokens,
		temperature:      cfg.Temperature,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
	}
}

// GenerateContent sends a non-streaming content generation request
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Model == "" {
		req.Model = c.defaultModel
	}

	if req.GenerationConfig == nil {
		req.GenerationConfig = &GenerationConfig{}
	}
	if req.GenerationConfig.MaxOutputTokens <= 0 {
		req.GenerationConfig.MaxOutputTokens = c.defaultMaxTokens
	}
	if req.GenerationConfig.Temperature == nil && c.temperature != nil {
		req.GenerationConfig.Temperature = c.temperature
	}

	var resp GenerateResponse
	if err := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("models/%s:generateContent", req.Model), req, &resp); err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	return &resp, nil
}

// ListModels returns the models available to the configured API key
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var resp ListModelsResponse
	if err := c.makeRequest(ctx, http.MethodGet, "models", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}

	return resp.Models, nil
}

// makeRequest is a helper for making HTTP requests to the Gemini API.
// The API key is passed as a query parameter, not a header.
func (c *Client) makeRequest(ctx context.Context, method, path string, requestBody interface{}, responseBody interface{}) error {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, path)

	var reqBody io.Reader
	if requestBody != nil {
		requestBytes, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		reqBody = bytes.NewBuffer(requestBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Add("key", c.apiKey)
	req.URL.RawQuery = q.Encode()

	loggy.Debug("Sending Gemini request",
		"method", method,
		"path", req.URL.Path,
		"api_version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	loggy.Debug("Gemini API response",
		"status", resp.Status,
		"content_length", len(bodyBytes))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr APIError
		if err := json.Unmarshal(bodyBytes, &apiErr); err == nil && apiErr.ErrorDetail != nil {
			return &apiErr
		}
		return fmt.Errorf("HTTP error: %s, body: %s", resp.Status, string(bodyBytes))
	}

	if responseBody != nil {
		if err := json.Unmarshal(bodyBytes, responseBody); err != nil {
			return fmt.Errorf("unmarshalling response: %w, body: %s", err, string(bodyBytes))
		}
	}

	return nil
}
