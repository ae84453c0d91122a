package prompt

import (
	"encoding/json"
	"strings"
)

// bindText rewrites every well-formed ${name} occurrence in s whose
// identifier equals name, replacing it with replacement. Occurrences of a
// different name, and malformed sequences (no closing brace, empty or
// invalid identifier), are left byte-identical. When s contains no "${" at
// all the input is returned unchanged without allocating, the scanner's
// fast path for the overwhelmingly common case of unparameterized text.
func bindText(s, name, replacement string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		idx := strings.Index(s[i:], "${")
		if idx < 0 {
			b.WriteString(s[i:])
			break
		}
		start := i + idx
		b.WriteString(s[i:start])
		identStart := start + 2
		j := identStart
		for j < len(s) && isIdentByte(s[j], j == identStart) {
			j++
		}
		if j > identStart && j < len(s) && s[j] == '}' {
			ident := s[identStart:j]
			if ident == name {
				b.WriteString(replacement)
			} else {
				b.WriteString(s[start : j+1])
			}
			i = j + 1
		} else {
			b.WriteString("${")
			i = identStart
		}
	}
	return b.String()
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	case !first && c >= '0' && c <= '9':
		return true
	default:
		return false
	}
}

// encodeBindValue renders a bind value as the literal text to splice into
// a placeholder: strings are inserted verbatim, everything else is
// JSON-encoded.
func encodeBindValue(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
