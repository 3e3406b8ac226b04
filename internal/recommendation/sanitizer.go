package recommendation

import (
	"regexp"
	"strings"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
)

const fence = "```"

// Boilerplate openers models put in front of the array. Only one is stripped,
// and only at the very start of the text. RE2 keeps matching linear.
var preamblePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^here\s+(?:is|are)\s+(?:the\s+|your\s+)?(?:\d+\s+|three\s+|ten\s+)?(?:vacation\s+)?recommendations?:?\s*`),
	regexp.MustCompile(`(?i)^i've\s+generated\s+(?:the\s+)?(?:\d+\s+|three\s+|ten\s+)?(?:vacation\s+)?recommendations?:?\s*`),
	regexp.MustCompile(`(?i)^based\s+on\s+your\s+preferences[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^here's\s+the\s+json\s+array[^:\n]*:\s*`),
}

// Sanitize reduces raw model output to the text of a single JSON array.
// Clean array text comes back unchanged apart from surrounding whitespace.
// When no bracket span exists it fails with a SanitizationError.
func Sanitize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = stripFences(s)
	s = stripPreamble(s)

	first := strings.IndexByte(s, '[')
	last := strings.LastIndexByte(s, ']')
	if first < 0 || last < first {
		return "", apperrors.NoJSONArray(describeMissingArray(first, last))
	}

	return repair(s[first : last+1]), nil
}

// stripFences removes one leading fence with its optional language tag and one
// trailing fence.
func stripFences(s string) string {
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		i := 0
		for i < len(s) && isTagByte(s[i]) {
			i++
		}
		s = strings.TrimSpace(s[i:])
	}
	if strings.HasSuffix(s, fence) {
		s = strings.TrimSpace(s[:len(s)-len(fence)])
	}
	return s
}

func isTagByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-' || b == '_'
}

func stripPreamble(s string) string {
	for _, p := range preamblePatterns {
		if loc := p.FindStringIndex(s); loc != nil {
			return s[loc[1]:]
		}
	}
	return s
}

func describeMissingArray(first, last int) string {
	switch {
	case first < 0 && last < 0:
		return "response contains no brackets"
	case first < 0:
		return "response has no opening bracket"
	case last < 0:
		return "response has no closing bracket"
	default:
		return "closing bracket precedes opening bracket"
	}
}

// repair drops commas directly before a closing bracket and separates
// adjacent }{ and ][ pairs. String literals are copied untouched. Each byte is
// visited at most twice.
func repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case ',':
			next := nextSignificant(s, i+1)
			if next < len(s) && (s[next] == '}' || s[next] == ']') {
				continue
			}
			b.WriteByte(c)
		case '}', ']':
			b.WriteByte(c)
			next := nextSignificant(s, i+1)
			if next < len(s) && ((c == '}' && s[next] == '{') || (c == ']' && s[next] == '[')) {
				b.WriteByte(',')
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func nextSignificant(s string, from int) int {
	for from < len(s) {
		switch s[from] {
		case ' ', '\t', '\n', '\r':
			from++
		default:
			return from
		}
	}
	return from
}
