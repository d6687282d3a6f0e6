package testcase

// MinStoryLength is the minimum trimmed rune count a fragment needs to count as a story
const MinStoryLength = 10

// ParsedStory is a candidate user story extracted from an uploaded file.
// It is never persisted.
type ParsedStory struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

// ParseResult is the outcome of extracting stories from one file
type ParseResult struct {
	Stories    []ParsedStory `json:"stories"`
	FileName   string        `json:"fileName"`
	TotalFound int           `json:"totalFound"`
}

// NewParseResult builds a result whose TotalFound matches the story count
func NewParseResult(fileName string, stories []ParsedStory) *ParseResult {
	if stories == nil {
		stories = []ParsedStory{}
	}
	return &ParseResult{
		Stories:    stories,
		FileName:   fileName,
		TotalFound: len(stories),
	}
}
