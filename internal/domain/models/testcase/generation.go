package testcase

import "time"

// Provider names accepted by the generation endpoint
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// GenerateRequest asks the model for test cases covering one requirement
type GenerateRequest struct {
	Requirements string     `json:"requirements"`
	Context      string     `json:"context,omitempty"`
	Count        int        `json:"count,omitempty"` // 0 lets the model choose 5-10
	Types        []TestType `json:"types,omitempty"`
	Provider     string     `json:"provider,omitempty"`
	Model        string     `json:"model,omitempty"`
}

// GeneratedTestCase is the field set a model returns for one case
type GeneratedTestCase struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Preconditions  string   `json:"preconditions"`
	Steps          []string `json:"steps"`
	ExpectedResult string   `json:"expectedResult"`
	Priority       Priority `json:"priority" jsonschema:"enum=Critical,enum=High,enum=Medium,enum=Low"`
	Type           TestType `json:"type" jsonschema:"enum=Functional,enum=Edge Case,enum=Negative,enum=Performance,enum=Security,enum=Usability"`
	Tags           []string `json:"tags"`
}

// GeneratedTestCases is the structured-output envelope requested from the model
type GeneratedTestCases struct {
	TestCases []GeneratedTestCase `json:"testCases"`
}

// GenerationMetadata describes the model call behind a response
type GenerationMetadata struct {
	Model       string    `json:"model"`
	Provider    string    `json:"provider"`
	TokensUsed  int       `json:"tokensUsed"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GenerateResponse holds freshly stamped draft test cases
type GenerateResponse struct {
	TestCases []TestCase         `json:"testCases"`
	Metadata  GenerationMetadata `json:"metadata"`
}

// BatchGenerateRequest runs one generation per story with shared options
type BatchGenerateRequest struct {
	Stories  []string   `json:"stories"`
	Context  string     `json:"context,omitempty"`
	Count    int        `json:"count,omitempty"`
	Types    []TestType `json:"types,omitempty"`
	Provider string     `json:"provider,omitempty"`
	Model    string     `json:"model,omitempty"`
}

// StoryResult is the outcome of generating for a single story.
// Exactly one of Response and Error is set.
type StoryResult struct {
	Index    int               `json:"index"`
	Story    string            `json:"story"`
	Response *GenerateResponse `json:"response,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// BatchGenerateResponse keeps results in input order
type BatchGenerateResponse struct {
	Results   []StoryResult `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}
