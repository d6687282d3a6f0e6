package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

// ollamaAPIKey is sent to Ollama's OpenAI-compatible endpoint, which ignores it
const ollamaAPIKey = "ollama"

// chatProvider talks to any OpenAI-compatible chat completions endpoint
type chatProvider struct {
	client *openai.Client
	name   string
}

// NewOpenAIProvider creates the OpenAI provider. An empty baseURL uses the public API.
func NewOpenAIProvider(apiKey, baseURL string) tcSvc.Provider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &chatProvider{
		client: openai.NewClientWithConfig(cfg),
		name:   testcase.ProviderOpenAI,
	}
}

// NewOllamaProvider creates a provider for a local Ollama server at ollamaBaseURL
func NewOllamaProvider(ollamaBaseURL string) tcSvc.Provider {
	cfg := openai.DefaultConfig(ollamaAPIKey)
	cfg.BaseURL = strings.TrimRight(ollamaBaseURL, "/") + "/v1"
	return &chatProvider{
		client: openai.NewClientWithConfig(cfg),
		name:   testcase.ProviderOllama,
	}
}

// Name returns the provider identifier
func (p *chatProvider) Name() string {
	return p.name
}

// Generate sends one structured-output chat completion and decodes the reply
func (p *chatProvider) Generate(ctx context.Context, req *tcSvc.CompletionRequest) (*tcSvc.CompletionResult, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   testCasesSchemaName,
				Schema: testCasesSchema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUpstream, p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: %s returned no choices", domain.ErrUpstream, p.name)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, fmt.Errorf("%w: %s output was truncated", domain.ErrUpstream, p.name)
	}

	var output testcase.GeneratedTestCases
	if err := json.Unmarshal([]byte(choice.Message.Content), &output); err != nil {
		return nil, fmt.Errorf("%w: %s returned malformed JSON: %v", domain.ErrUpstream, p.name, err)
	}

	return &tcSvc.CompletionResult{
		Output:     output,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
