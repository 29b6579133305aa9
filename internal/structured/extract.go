package structured

import "strings"

// ExtractObject slices raw to the span between the first '{' and the last
// '}'. Generation services routinely wrap the intended payload in prose;
// this tolerates that. When no balancing pair exists the input is returned
// unchanged and the downstream decode reports the real problem.
func ExtractObject(raw string) string {
	return extractSpan(raw, '{', '}')
}

// ExtractArray slices raw to the span between the first '[' and the last ']'.
func ExtractArray(raw string) string {
	return extractSpan(raw, '[', ']')
}

func extractSpan(raw string, open, close byte) string {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start != -1 && end != -1 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// Sanitize repairs the JSON mistakes generation services make most often
// inside string literals: literal newlines become \n, carriage returns are
// dropped, and any backslash not followed by a valid escape character is
// removed. Structural characters outside strings pass through untouched.
//
// It is safe to iterate bytes for the ASCII delimiters because UTF-8
// guarantees ASCII bytes never appear inside a multi-byte sequence.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if !inString {
			b.WriteByte(c)
			if c == '"' {
				inString = true
			}
			continue
		}

		switch c {
		case '"':
			inString = false
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// dropped
		case '\\':
			if i+1 < len(s) && isEscapeChar(s[i+1]) {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
			}
			// stray backslash dropped
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

func isEscapeChar(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	}
	return false
}
