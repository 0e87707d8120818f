// Package ollama provides a client for the Ollama API
package ollama

import "time"

// ResponseFormat requests a constrained output format from the model
type ResponseFormat struct {
	Type string `json:"type"` // Format type, e.g., "json"
}

// GenerateRequest represents a request to the /api/generate endpoint
type GenerateRequest struct {
	Model   string          `json:"model"`             // Model name (required)
	Prompt  string          `json:"prompt"`            // Text prompt
	System  string          `json:"system,omitempty"`  // System message
	Format  *ResponseFormat `json:"format,omitempty"`  // Format specification
	Stream  bool            `json:"stream"`            // Whether to stream the response
	Options *RequestOptions `json:"options,omitempty"` // Generation parameters
}

// GenerateResponse represents a response from the /api/generate endpoint
type GenerateResponse struct {
	Model           string    `json:"model"`
	CreatedAt       time.Time `json:"created_at"`
	Response        string    `json:"response"`
	Done            bool      `json:"done"`
	TotalDuration   int64     `json:"total_duration,omitempty"`
	PromptEvalCount int       `json:"prompt_eval_count,omitempty"`
	EvalCount       int       `json:"eval_count,omitempty"`
	Error           string    `json:"error,omitempty"`
}

// RequestOptions contains generation parameters
type RequestOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  *int     `json:"num_predict,omitempty"` // Max tokens to generate
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
}

// ModelInfo represents information about an installed model
type ModelInfo struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

// ModelDetails contains information about a model
type ModelDetails struct {
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families,omitempty"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

// ListModelsResponse represents the response from the /api/tags endpoint
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// VersionResponse represents the response from the /api/version endpoint
type VersionResponse struct {
	Version string `json:"version"`
}

// Float64Ptr returns a pointer to the given float64 value
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to the given int value
func IntPtr(v int) *int {
	return &v
}
