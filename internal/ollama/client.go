package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tildaslashalef/prquiz/internal/config"
	"github.com/tildaslashalef/prquiz/internal/loggy"
)

// Client is the Ollama API client
type Client struct {
	config     config.OllamaConfig
	httpClient *http.Client
}

// DefaultEndpoint is used when no endpoint is configured explicitly.
const DefaultEndpoint = "http://localhost:11434"

// NewClient creates a new Ollama client with the provided configuration
func NewClient(cfg config.OllamaConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
				IdleConnTimeout:     cfg.IdleConnTimeout,
			},
		},
	}
}

// ListModels lists all models installed on the Ollama endpoint
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var resp ListModelsResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/api/tags", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return resp.Models, nil
}

// GetVersion returns the version of the Ollama server
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	var resp VersionResponse
	if err := c.makeRequest(ctx, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return "", fmt.Errorf("getting version: %w", err)
	}
	return resp.Version, nil
}

// GenerateCompletion sends a non-streaming completion request
func (c *Client) GenerateCompletion(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Model == "" {
		req.Model = c.config.Model
	}

	// Explicitly set streaming to false
	req.Stream = false

	var resp GenerateResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/api/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generating completion: %w", err)
	}

	if resp.Error != "" {
		return &resp, fmt.Errorf("model error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) makeRequest(ctx context.Context, method, path string, reqBody interface{}, respBody interface{}) error {
	url := fmt.Sprintf("%s%s", c.config.Endpoint, path)

	var bodyReader io.Reader
	if reqBody != nil {
		bodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewBuffer(bodyBytes)

		loggy.Debug("Sending Ollama request",
			"method", method,
			"url", url)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	if len(bodyBytes) == 0 {
		return fmt.Errorf("empty response body")
	}

	if err := json.Unmarshal(bodyBytes, respBody); err != nil {
		return fmt.Errorf("unmarshaling response body: %w", err)
	}

	return nil
}
