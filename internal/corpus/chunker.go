package corpus

import (
	"fmt"
	"strings"
)

// Chunker splits documents into overlapping chunks of roughly Size runes,
// breaking on paragraph boundaries where possible. Markdown headings are
// tracked so every chunk knows the section it came from.
type Chunker struct {
	Size    int
	Overlap int
}

// DefaultChunker returns the chunker used for ingestion.
func DefaultChunker() Chunker {
	return Chunker{Size: 1200, Overlap: 200}
}

func (c Chunker) validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.Size, c.Overlap)
	}
	return nil
}

type block struct {
	section string
	text    string
}

// Chunk splits doc. The document title defaults to its first level-one
// heading.
func (c Chunker) Chunk(doc Document) ([]Chunk, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	title := doc.Title
	blocks := splitBlocks(doc.Text, &title)

	var chunks []Chunk
	emit := func(section, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		idx := len(chunks)
		chunks = append(chunks, Chunk{
			ID:         chunkID(doc.ID, idx),
			DocumentID: doc.ID,
			Index:      idx,
			Text:       text,
			Title:      title,
			Section:    section,
			SourceURI:  doc.SourceURI,
			URL:        doc.URL,
		})
	}

	var buf strings.Builder
	section := ""
	for _, b := range blocks {
		if b.section != section && buf.Len() > 0 {
			emit(section, buf.String())
			buf.Reset()
		}
		section = b.section

		for _, piece := range c.splitLong(b.text) {
			if buf.Len() > 0 && runeLen(buf.String())+runeLen(piece)+2 > c.Size {
				prev := buf.String()
				emit(section, prev)
				buf.Reset()
				// Overlap is carried only when the next chunk still fits.
				if overlap := tail(prev, c.Overlap); overlap != "" && runeLen(overlap)+runeLen(piece)+2 <= c.Size {
					buf.WriteString(overlap)
				}
			}
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			buf.WriteString(piece)
		}
	}
	emit(section, buf.String())

	return chunks, nil
}

// splitLong cuts a paragraph longer than Size into windows that overlap by
// Overlap runes.
func (c Chunker) splitLong(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.Size {
		return []string{text}
	}

	var out []string
	step := c.Size - c.Overlap
	for start := 0; start < len(runes); start += step {
		end := start + c.Size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// splitBlocks returns the non-empty paragraphs of text tagged with their
// nearest heading. The first level-one heading fills title when it is empty.
func splitBlocks(text string, title *string) []block {
	var blocks []block
	var para []string
	section := ""

	flush := func() {
		if len(para) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(para, "\n"))
		if p != "" {
			blocks = append(blocks, block{section: section, text: p})
		}
		para = para[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if level, heading := parseHeading(trimmed); level > 0 {
			flush()
			if level == 1 && *title == "" {
				*title = heading
			}
			section = heading
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()
	return blocks
}

func parseHeading(line string) (int, string) {
	level := 0
	for level < len(line) && level < 6 && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return 0, ""
	}
	return level, strings.TrimSpace(line[level+1:])
}

func tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func runeLen(s string) int {
	return len([]rune(s))
}
