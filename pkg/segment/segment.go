package segment

import (
	"regexp"
	"strings"
)

// Tag is the literal marker the system prompt instructs the model to emit
// before each intended message.
const Tag = "[MESSAGE]"

// MaxSegments bounds how many bubbles one completion may produce.
const MaxSegments = 3

// MinSegments is the floor the UI contract requires for non-empty input.
const MinSegments = 2

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Split turns one raw completion into an ordered list of 2-3 short display
// messages. It is pure, deterministic and total: tag splitting is the
// primary path, sentence and midpoint splitting are fallbacks for
// completions that ignored the prompt's format instructions.
func Split(raw string) []string {
	if tagged := splitOnTag(raw); len(tagged) >= MinSegments {
		return clamp(tagged)
	}
	if sentences := splitOnSentences(raw); len(sentences) >= MinSegments {
		return clamp(sentences)
	}
	return bisect(raw)
}

func splitOnTag(raw string) []string {
	parts := strings.Split(raw, Tag)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func splitOnSentences(raw string) []string {
	parts := sentenceEnd.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		if !strings.HasSuffix(s, "?") {
			s += "!"
		}
		out = append(out, s)
	}
	return out
}

// bisect cuts raw at the midpoint rune offset (ceil(len/2)) and marks both
// halves as exclamations. An empty raw degenerates to two empty strings.
func bisect(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{"", ""}
	}
	rs := []rune(trimmed)
	mid := (len(rs) + 1) / 2
	first := strings.TrimSpace(string(rs[:mid]))
	second := strings.TrimSpace(string(rs[mid:]))
	return []string{first + "!", second + "!"}
}

func clamp(segs []string) []string {
	if len(segs) > MaxSegments {
		return segs[:MaxSegments]
	}
	return segs
}
