package testcase

import (
	"context"

	"testforge/internal/domain/models/testcase"
)

// CompletionRequest is a provider-neutral structured generation call
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
}

// CompletionResult carries the decoded model output and token usage
type CompletionResult struct {
	Output     testcase.GeneratedTestCases
	TokensUsed int
}

// Provider is an LLM backend able to return structured test cases
type Provider interface {
	Generate(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)

	// Name returns the provider identifier ("openai", "ollama")
	Name() string
}

// GenerationService turns requirements into draft test cases
type GenerationService interface {
	Generate(ctx context.Context, req *testcase.GenerateRequest) (*testcase.GenerateResponse, error)

	// GenerateBatch runs one generation per story; failures are recorded per story
	GenerateBatch(ctx context.Context, req *testcase.BatchGenerateRequest) (*testcase.BatchGenerateResponse, error)
}

// ModelCatalog lists selectable models per provider
type ModelCatalog interface {
	ListModels(ctx context.Context) []testcase.ProviderModels
}
