package crawler

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sentenceBoundary matches terminal punctuation followed by whitespace, Unicode spaces included.
var sentenceBoundary = regexp.MustCompile(`[.!?][\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)

// SplitSentences splits text after every ., ! or ? that is followed by whitespace.
// The punctuation stays with the sentence; the whitespace is dropped.
func SplitSentences(text string) []string {
	var out []string

	prev := 0

	for _, m := range sentenceBoundary.FindAllStringIndex(text, -1) {
		out = append(out, text[prev:m[0]+1])
		prev = m[1]
	}

	return append(out, text[prev:])
}

// ChunkParagraphs greedily groups sentences into paragraphs of at least minChars characters.
// Only the last paragraph may be shorter.
func ChunkParagraphs(body string, minChars int) []string {
	var (
		paragraphs []string
		block      strings.Builder
	)

	for _, sentence := range SplitSentences(body) {
		block.WriteString(sentence)
		block.WriteByte(' ')

		// measured after trimming so every flushed paragraph meets minChars
		if p := strings.TrimSpace(block.String()); utf8.RuneCountInString(p) >= minChars {
			paragraphs = append(paragraphs, p)
			block.Reset()
		}
	}

	if rest := strings.TrimSpace(block.String()); rest != "" {
		paragraphs = append(paragraphs, rest)
	}

	return paragraphs
}

// TooShort reports whether a chunked body fails the minimum content rule:
// no paragraphs at all, or a single paragraph under minChars characters.
func TooShort(paragraphs []string, minChars int) bool {
	switch len(paragraphs) {
	case 0:
		return true
	case 1:
		return utf8.RuneCountInString(paragraphs[0]) < minChars
	default:
		return false
	}
}
