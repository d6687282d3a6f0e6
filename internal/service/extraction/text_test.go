package extraction

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"testforge/internal/domain"
	"testforge/internal/domain/models/testcase"
)

func TestTextExtractor_BlocksAndSeparators(t *testing.T) {
	input := "Story A: users can reset passwords\n\n---\n\nStory B: admins can lock accounts\n\n\nShort"

	result, err := NewTextExtractor().Extract(context.Background(), "stories.txt", []byte(input))
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalFound)
	require.Len(t, result.Stories, 2)
	assert.Equal(t, "stories.txt", result.FileName)

	assert.Equal(t, testcase.ParsedStory{
		ID:      1,
		Content: "Story A: users can reset passwords",
		Source:  "stories.txt (block 1)",
	}, result.Stories[0])
	assert.Equal(t, testcase.ParsedStory{
		ID:      2,
		Content: "Story B: admins can lock accounts",
		Source:  "stories.txt (block 2)",
	}, result.Stories[1])
}

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "blank line",
			input: "first story text\n\nsecond story text",
			want:  []string{"first story text", "second story text"},
		},
		{
			name:  "whitespace-only line counts as blank",
			input: "first story text\n   \t\nsecond story text",
			want:  []string{"first story text", "second story text"},
		},
		{
			name:  "dash separator without blank lines",
			input: "first story text\n---\nsecond story text",
			want:  []string{"first story text", "second story text"},
		},
		{
			name:  "equals separator",
			input: "first story text\n=====\nsecond story text",
			want:  []string{"first story text", "second story text"},
		},
		{
			name:  "two dashes are content",
			input: "first story text\n--\nstill first",
			want:  []string{"first story text\n--\nstill first"},
		},
		{
			name:  "windows line endings",
			input: "first story text\r\n\r\nsecond story text\r\n",
			want:  []string{"first story text", "second story text"},
		},
		{
			name:  "short blocks dropped",
			input: "tiny\n\nnine char\n\nten chars!",
			want:  []string{"ten chars!"},
		},
		{
			name:  "multibyte runes count once",
			input: "ユーザーはログインできる。\n\n短い",
			want:  []string{"ユーザーはログインできる。"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitBlocks(tt.input))
		})
	}
}

func TestTextExtractor_StripsBOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("As a user I can log in")...)

	result, err := NewTextExtractor().Extract(context.Background(), "bom.txt", input)
	require.NoError(t, err)
	require.Len(t, result.Stories, 1)
	assert.Equal(t, "As a user I can log in", result.Stories[0].Content)
}

func TestTextExtractor_RejectsBinary(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

	_, err := NewTextExtractor().Extract(context.Background(), "image.txt", png)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

// Blocks built from separator-free text survive any separator choice, and
// re-splitting the joined output reproduces the same boundaries.
func TestSplitBlocks_Properties(t *testing.T) {
	separators := []string{"\n\n", "\n\n\n", "\n---\n", "\n\n===\n\n", "\n \t\n", "\n-----\n"}

	rapid.Check(t, func(t *rapid.T) {
		blocks := rapid.SliceOfN(rapid.StringMatching(`[a-z][a-z ]{8,38}[a-z]`), 0, 8).Draw(t, "blocks")

		var sb strings.Builder
		for i, b := range blocks {
			if i > 0 {
				sb.WriteString(rapid.SampledFrom(separators).Draw(t, "sep"))
			}
			sb.WriteString(b)
		}

		got := SplitBlocks(sb.String())
		if len(blocks) == 0 {
			if len(got) != 0 {
				t.Fatalf("expected no blocks, got %q", got)
			}
			return
		}
		if !equalStrings(got, blocks) {
			t.Fatalf("SplitBlocks(%q) = %q, want %q", sb.String(), got, blocks)
		}
		for _, b := range got {
			if utf8.RuneCountInString(b) < testcase.MinStoryLength {
				t.Fatalf("block %q shorter than minimum", b)
			}
		}

		again := SplitBlocks(strings.Join(got, "\n\n"))
		if !equalStrings(again, got) {
			t.Fatalf("re-split changed boundaries: %q vs %q", again, got)
		}
	})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
