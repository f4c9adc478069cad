package parser

import (
	"regexp"
	"strings"
)

var (
	fencePattern  = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	whitespace    = regexp.MustCompile(`\s+`)
	missingComma  = regexp.MustCompile(`("|\}|\]|\d|true|false|null)\s+(")`)
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	smartQuotes   = strings.NewReplacer("“", `"`, "”", `"`, "„", `"`, "‘", "'", "’", "'")
)

// stripFences returns the content of the first fenced code block holding an
// object, or the input when there is none.
func stripFences(s string) string {
	for _, m := range fencePattern.FindAllStringSubmatch(s, -1) {
		if strings.Contains(m[1], "{") {
			return m[1]
		}
	}
	return s
}

// isolateObject returns the first object candidate of s.
func isolateObject(s string) (string, bool) {
	cands := objectCandidates(s)
	if len(cands) == 0 {
		return "", false
	}
	return cands[0], true
}

// objectCandidates returns every top-level balanced {...} span of s in
// order, skipping braces inside strings. When the last opened object never
// balances, the span from its '{' to the last '}' is appended.
func objectCandidates(s string) []string {
	var out []string
	depth, start := 0, -1
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if depth == 0 {
			if c == '{' {
				start, depth = i, 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				out = append(out, s[start:i+1])
			}
		}
	}

	if depth > 0 {
		if end := strings.LastIndexByte(s, '}'); end > start {
			out = append(out, s[start:end+1])
		}
	}
	return out
}

// collapseWhitespace replaces every whitespace run with a single space.
// Raw newlines inside strings are invalid JSON, so this also repairs them.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// repair applies best-effort fixes for common malformations: typographic
// quotes, missing commas between adjacent members and trailing commas.
func repair(s string) string {
	s = smartQuotes.Replace(s)
	s = missingComma.ReplaceAllString(s, "$1, $2")
	s = trailingComma.ReplaceAllString(s, "$1")
	return s
}
