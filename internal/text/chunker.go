package text

import (
	"fmt"
	"strings"
)

// Chunker splits input text into pieces that fit one speech request each.
// Whole lines are accumulated until the rune budget is reached; lines longer
// than the budget are first broken at sentence boundaries.
type Chunker struct {
	MaxRunes  int
	HardLimit int
}

func NewChunker(maxRunes, hardLimit int) *Chunker {
	return &Chunker{MaxRunes: maxRunes, HardLimit: hardLimit}
}

// Chunk returns the ordered request payloads for input. Whitespace-only
// input yields no chunks. A single sentence above the hard limit is an
// error, since it cannot be sent in any request.
func (c *Chunker) Chunk(input string) ([]string, error) {
	var (
		chunks  []string
		current []string
		count   int
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))
		current = current[:0]
		count = 0
	}

	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pieces := []string{line}
		if len([]rune(line)) > c.MaxRunes {
			pieces = splitSentences(line)
		}

		for _, piece := range pieces {
			n := len([]rune(piece))
			if n > c.HardLimit {
				return nil, fmt.Errorf("sentence of %d characters exceeds the %d character request limit", n, c.HardLimit)
			}
			// len(current) counts the joining spaces the flush will add.
			if count > 0 && count+len(current)+n > c.MaxRunes {
				flush()
			}
			current = append(current, piece)
			count += n
		}
	}

	flush()
	return chunks, nil
}

// splitSentences cuts a line at sentence boundaries, keeping the boundary
// rune with the preceding sentence.
func splitSentences(line string) []string {
	var (
		sentences []string
		buf       []rune
	)

	for _, r := range line {
		buf = append(buf, r)
		if isSentenceBoundary(r) {
			if sentence := strings.TrimSpace(string(buf)); sentence != "" {
				sentences = append(sentences, sentence)
			}
			buf = buf[:0]
		}
	}
	if sentence := strings.TrimSpace(string(buf)); sentence != "" {
		sentences = append(sentences, sentence)
	}
	return sentences
}

func isSentenceBoundary(r rune) bool {
	switch r {
	case '.', '!', '?', ';', '。', '！', '？', '；', '…':
		return true
	default:
		return false
	}
}
