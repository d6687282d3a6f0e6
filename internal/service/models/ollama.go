package models

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"testforge/internal/domain/models/testcase"
)

type ollamaTagsResponse struct {
	Models []ollamaModel `json:"models"`
}

type ollamaModel struct {
	Name    string `json:"name"`
	Model   string `json:"model"`
	Size    int64  `json:"size"`
	Details struct {
		ParameterSize     string `json:"parameter_size"`
		QuantizationLevel string `json:"quantization_level"`
		Family            string `json:"family"`
	} `json:"details"`
}

// OllamaClient lists the models installed on a local Ollama server
type OllamaClient struct {
	httpClient *resty.Client
	baseURL    string
}

// NewOllamaClient creates a client whose requests give up after timeout
func NewOllamaClient(baseURL string, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// BaseURL returns the server address used in error messages
func (c *OllamaClient) BaseURL() string {
	return c.baseURL
}

// ListModels calls /api/tags. Missing details are reported as "unknown".
func (c *OllamaClient) ListModels(ctx context.Context) ([]testcase.ModelInfo, error) {
	var tags ollamaTagsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&tags).
		Get("/api/tags")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUnreachable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", errBadStatus, resp.StatusCode())
	}

	out := make([]testcase.ModelInfo, 0, len(tags.Models))
	for _, m := range tags.Models {
		out = append(out, testcase.ModelInfo{
			ID:           m.Name,
			Name:         m.Name,
			Size:         orUnknown(m.Details.ParameterSize),
			Family:       orUnknown(m.Details.Family),
			Quantization: m.Details.QuantizationLevel,
		})
	}
	return out, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
