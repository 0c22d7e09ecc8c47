package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guideMarkdown = `# Digital Projects RFPs

Introductory paragraph about the RFP process.

## Budget

The budget must be itemized by phase.

Contingency should not exceed ten percent.

## Timeline

Every RFP lists milestones with dates.
`

func TestChunker_SectionsAndTitle(t *testing.T) {
	chunks, err := Chunker{Size: 500, Overlap: 50}.Chunk(Document{ID: "guide", Text: guideMarkdown, URL: "https://example.com/guide"})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "Digital Projects RFPs", chunks[0].Section)
	assert.Equal(t, "Budget", chunks[1].Section)
	assert.Equal(t, "Timeline", chunks[2].Section)

	assert.Contains(t, chunks[1].Text, "itemized by phase")
	assert.Contains(t, chunks[1].Text, "Contingency")

	for i, c := range chunks {
		assert.Equal(t, "Digital Projects RFPs", c.Title)
		assert.Equal(t, "guide", c.DocumentID)
		assert.Equal(t, i, c.Index)
		assert.Equal(t, chunkID("guide", i), c.ID)
		assert.Equal(t, "https://example.com/guide", c.URL)
	}
}

func TestChunker_ExplicitTitleWins(t *testing.T) {
	chunks, err := DefaultChunker().Chunk(Document{ID: "d", Title: "Given", Text: guideMarkdown})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "Given", chunks[0].Title)
}

func TestChunker_SplitsLongText(t *testing.T) {
	para := strings.Repeat("word ", 100) // 500 runes
	text := para + "\n\n" + para + "\n\n" + para

	chunks, err := Chunker{Size: 600, Overlap: 100}.Chunk(Document{ID: "long", Text: text})
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), 600)
	}
}

func TestChunker_NeverExceedsSize(t *testing.T) {
	paras := []string{
		strings.Repeat("a", 90),
		strings.Repeat("b", 95),
		strings.Repeat("c", 250),
		strings.Repeat("d", 60),
		strings.Repeat("e", 60),
		strings.Repeat("f", 99),
	}
	chunker := Chunker{Size: 100, Overlap: 30}

	chunks, err := chunker.Chunk(Document{ID: "x", Text: strings.Join(paras, "\n\n")})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), chunker.Size, "chunk %d", c.Index)
	}
}

func TestChunker_CarriesOverlapWhenItFits(t *testing.T) {
	a, b, c := strings.Repeat("a", 40), strings.Repeat("b", 40), strings.Repeat("c", 40)

	chunks, err := Chunker{Size: 100, Overlap: 20}.Chunk(Document{ID: "x", Text: a + "\n\n" + b + "\n\n" + c})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, a+"\n\n"+b, chunks[0].Text)
	assert.Equal(t, strings.Repeat("b", 20)+"\n\n"+c, chunks[1].Text)
}

func TestChunker_LongParagraphWindows(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks, err := Chunker{Size: 100, Overlap: 20}.Chunk(Document{ID: "x", Text: text})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	total := 0
	for _, c := range chunks {
		total += len(c.Text)
	}
	assert.GreaterOrEqual(t, total, 250)
}

func TestChunker_EmptyDocument(t *testing.T) {
	chunks, err := DefaultChunker().Chunk(Document{ID: "empty", Text: "\n\n  \n"})
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunker_InvalidSettings(t *testing.T) {
	_, err := Chunker{Size: 0}.Chunk(Document{Text: "x"})
	assert.Error(t, err)
	_, err = Chunker{Size: 10, Overlap: 10}.Chunk(Document{Text: "x"})
	assert.Error(t, err)
}

func TestParseHeading(t *testing.T) {
	tests := []struct {
		line  string
		level int
		text  string
	}{
		{"# Title", 1, "Title"},
		{"### Deep  ", 3, "Deep"},
		{"#NoSpace", 0, ""},
		{"#", 0, ""},
		{"plain", 0, ""},
	}
	for _, tt := range tests {
		level, text := parseHeading(strings.TrimSpace(tt.line))
		assert.Equal(t, tt.level, level, tt.line)
		assert.Equal(t, tt.text, text, tt.line)
	}
}
