package extraction

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
	tcSvc "testforge/internal/domain/services/testcase"
)

// blockSeparator splits on blank-line runs or a line made only of --- or ===
var blockSeparator = regexp.MustCompile(`(?m)\n\s*\n|^-{3,}$|^={3,}$`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textExtractor treats every separated block of a plain-text file as one story
type textExtractor struct{}

// NewTextExtractor creates the .txt extractor
func NewTextExtractor() tcSvc.Extractor {
	return &textExtractor{}
}

// CanExtract returns true for .txt
func (e *textExtractor) CanExtract(ext string) bool {
	return ext == ".txt"
}

// Extract splits the decoded text into blocks, dropping blocks under the minimum length
func (e *textExtractor) Extract(ctx context.Context, filename string, content []byte) (*testcase.ParseResult, error) {
	text, err := decodeText(filename, content)
	if err != nil {
		return nil, err
	}

	blocks := SplitBlocks(text)
	stories := make([]testcase.ParsedStory, 0, len(blocks))
	for _, block := range blocks {
		n := len(stories) + 1
		stories = append(stories, testcase.ParsedStory{
			ID:      n,
			Content: block,
			Source:  fmt.Sprintf("%s (block %d)", filename, n),
		})
	}

	return testcase.NewParseResult(filename, stories), nil
}

// Name returns the extractor name for logging
func (e *textExtractor) Name() string {
	return "text"
}

// SplitBlocks splits text on separators, trims each block and keeps blocks
// of at least MinStoryLength runes, in order of appearance.
func SplitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	for _, raw := range blockSeparator.Split(text, -1) {
		block := strings.TrimSpace(raw)
		if utf8.RuneCountInString(block) >= testcase.MinStoryLength {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// decodeText checks that content looks like text and returns it without a UTF-8 BOM.
// Invalid UTF-8 sequences are replaced rather than rejected.
func decodeText(filename string, content []byte) (string, error) {
	if len(content) > 0 && !looksLikeText(content) {
		return "", &domain.ExtractionError{
			FileName: filename,
			Reason:   fmt.Sprintf("file content is %s, not text", mimetype.Detect(content).String()),
		}
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	return strings.ToValidUTF8(string(content), "�"), nil
}

func looksLikeText(content []byte) bool {
	for m := mimetype.Detect(content); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
