package analysis

import (
	"regexp"
	"strings"
)

// A sentence boundary is ., ! or ? immediately followed by whitespace. This
// is a heuristic splitter, not a tokenizer; abbreviations are not
// special-cased.
var sentenceBoundary = regexp.MustCompile(`([.!?])\s+`)

// SplitSentences breaks a blob string into standalone sentences, dropping
// empty fragments and appending a period to any fragment missing terminal
// punctuation.
func SplitSentences(blob string) []string {
	marked := sentenceBoundary.ReplaceAllString(blob, "$1\x00")
	parts := strings.Split(marked, "\x00")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		sentence := strings.TrimSpace(part)
		if sentence == "" {
			continue
		}
		if !strings.ContainsAny(sentence[len(sentence)-1:], ".!?") {
			sentence += "."
		}
		out = append(out, sentence)
	}
	return out
}
