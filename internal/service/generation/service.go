package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"testforge/internal/config"
	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
	"testforge/internal/metrics"
)

// Options configures provider selection and batch fan-out
type Options struct {
	DefaultModel     string
	OpenAIConfigured bool
	Concurrency      int
}

// generationService implements the GenerationService interface
type generationService struct {
	providers map[string]tcSvc.Provider
	opts      Options
	now       func() time.Time
	newID     func() string
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService creates a generation service over the given providers, keyed by Name()
func NewService(providers []tcSvc.Provider, opts Options, m *metrics.Metrics, logger *slog.Logger) tcSvc.GenerationService {
	byName := make(map[string]tcSvc.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.DefaultModel == "" {
		opts.DefaultModel = "gpt-4o"
	}
	return &generationService{
		providers: byName,
		opts:      opts,
		now:       time.Now,
		newID:     uuid.NewString,
		metrics:   m,
		logger:    logger,
	}
}

// Generate asks the selected provider for test cases and stamps them as new drafts
func (s *generationService) Generate(ctx context.Context, req *testcase.GenerateRequest) (*testcase.GenerateResponse, error) {
	if req.Provider == "" {
		req.Provider = testcase.ProviderOpenAI
	}
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	provider, model, err := s.resolveProvider(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := provider.Generate(ctx, &tcSvc.CompletionRequest{
		Model:        model,
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildUserPrompt(req.Requirements, req.Context, req.Count, req.Types),
	})
	if err == nil {
		err = validateOutput(&result.Output)
	}

	tokens := 0
	if result != nil {
		tokens = result.TokensUsed
	}
	s.metrics.ObserveGeneration(provider.Name(), err, tokens)

	if err != nil {
		s.logger.Error("generation failed",
			"provider", provider.Name(),
			"model", model,
			"error", err,
		)
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	cases := make([]testcase.TestCase, 0, len(result.Output.TestCases))
	for _, g := range result.Output.TestCases {
		cases = append(cases, s.stamp(g, req.Requirements, now))
	}

	s.logger.Info("test cases generated",
		"provider", provider.Name(),
		"model", model,
		"count", len(cases),
		"tokens_used", result.TokensUsed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &testcase.GenerateResponse{
		TestCases: cases,
		Metadata: testcase.GenerationMetadata{
			Model:       model,
			Provider:    provider.Name(),
			TokensUsed:  result.TokensUsed,
			GeneratedAt: now,
		},
	}, nil
}

// GenerateBatch runs Generate for every story with bounded concurrency.
// A failing story is recorded in its result and never stops the others.
func (s *generationService) GenerateBatch(ctx context.Context, req *testcase.BatchGenerateRequest) (*testcase.BatchGenerateResponse, error) {
	if req.Provider == "" {
		req.Provider = testcase.ProviderOpenAI
	}
	if err := s.validateBatch(req); err != nil {
		return nil, err
	}
	// Configuration problems would fail every story the same way
	if _, _, err := s.resolveProvider(req.Provider, req.Model); err != nil {
		return nil, err
	}

	results := make([]testcase.StoryResult, len(req.Stories))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, story := range req.Stories {
		g.Go(func() error {
			res := testcase.StoryResult{Index: i, Story: story}
			resp, err := s.Generate(ctx, &testcase.GenerateRequest{
				Requirements: story,
				Context:      req.Context,
				Count:        req.Count,
				Types:        req.Types,
				Provider:     req.Provider,
				Model:        req.Model,
			})
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Response = resp
			}
			results[i] = res
			return nil
		})
	}
	// goroutines record failures in results and always return nil
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &testcase.BatchGenerateResponse{Results: results}
	for _, r := range results {
		if r.Error != "" {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	s.logger.Info("batch generation finished",
		"stories", len(req.Stories),
		"succeeded", out.Succeeded,
		"failed", out.Failed,
	)
	return out, nil
}

// resolveProvider applies the provider rules and picks the model name
func (s *generationService) resolveProvider(name, model string) (tcSvc.Provider, string, error) {
	switch name {
	case testcase.ProviderOpenAI:
		if !s.opts.OpenAIConfigured {
			return nil, "", fmt.Errorf("%w: OpenAI API key is not configured, set OPENAI_API_KEY", domain.ErrNotConfigured)
		}
		if model == "" {
			model = s.opts.DefaultModel
		}
	case testcase.ProviderOllama:
		if model == "" {
			return nil, "", &domain.FieldError{
				Message: "Please select an Ollama model.",
				Fields:  map[string]string{"model": "required for the ollama provider"},
			}
		}
	}

	provider, ok := s.providers[name]
	if !ok {
		return nil, "", fmt.Errorf("%w: provider %s is not available", domain.ErrNotConfigured, name)
	}
	return provider, model, nil
}

func (s *generationService) stamp(g testcase.GeneratedTestCase, requirements string, now time.Time) testcase.TestCase {
	tags := g.Tags
	if tags == nil {
		tags = []string{}
	}
	return testcase.TestCase{
		ID:                s.newID(),
		Title:             g.Title,
		Description:       g.Description,
		Preconditions:     g.Preconditions,
		Steps:             g.Steps,
		ExpectedResult:    g.ExpectedResult,
		Priority:          g.Priority,
		Type:              g.Type,
		Status:            testcase.StatusDraft,
		Tags:              tags,
		SourceRequirement: requirements,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (s *generationService) validateRequest(req *testcase.GenerateRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Requirements,
			validation.Required,
			validation.RuneLength(config.MinRequirementsLength, config.MaxRequirementsLength),
		),
		validation.Field(&req.Context, validation.RuneLength(0, config.MaxContextLength)),
		validation.Field(&req.Count, validation.Min(0), validation.Max(config.MaxGenerateCount)),
		validation.Field(&req.Types, validation.Each(validation.By(validTestType))),
		validation.Field(&req.Provider, validation.In(testcase.ProviderOpenAI, testcase.ProviderOllama)),
	)
	return domain.NewFieldError("invalid generation request", err)
}

func (s *generationService) validateBatch(req *testcase.BatchGenerateRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Stories,
			validation.Required,
			validation.Length(1, config.MaxBatchStories),
		),
		validation.Field(&req.Context, validation.RuneLength(0, config.MaxContextLength)),
		validation.Field(&req.Count, validation.Min(0), validation.Max(config.MaxGenerateCount)),
		validation.Field(&req.Types, validation.Each(validation.By(validTestType))),
		validation.Field(&req.Provider, validation.In(testcase.ProviderOpenAI, testcase.ProviderOllama)),
	)
	return domain.NewFieldError("invalid batch request", err)
}

func validTestType(value interface{}) error {
	t, _ := value.(testcase.TestType)
	if !t.Valid() {
		return errors.New("must be one of Functional, Edge Case, Negative, Performance, Security, Usability")
	}
	return nil
}

// validateOutput rejects model output that could not be stored as a test case.
// The error matches both ErrUpstream and ErrValidation and carries per-field details.
func validateOutput(out *testcase.GeneratedTestCases) error {
	err := validation.ValidateStruct(out,
		validation.Field(&out.TestCases, validation.Required, validation.Each(validation.By(func(value interface{}) error {
			g, _ := value.(testcase.GeneratedTestCase)
			return validation.ValidateStruct(&g,
				validation.Field(&g.Title, validation.Required),
				validation.Field(&g.Steps, validation.Required),
				validation.Field(&g.ExpectedResult, validation.Required),
				validation.Field(&g.Priority, validation.By(func(v interface{}) error {
					if p, _ := v.(testcase.Priority); !p.Valid() {
						return errors.New("unknown priority")
					}
					return nil
				})),
				validation.Field(&g.Type, validation.By(validTestType)),
			)
		}))),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, domain.NewFieldError("model returned unusable test cases", err))
	}
	return nil
}
