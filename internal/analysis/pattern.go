package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hugo-lorenzo-mato/interpret-ai/internal/core"
)

// PatternSet configures pattern extraction for one kind.
type PatternSet struct {
	// Nouns are the words a reply may use to number components, for
	// example "Factor" or "Component". Matched case-insensitively.
	Nouns []string
}

var (
	nameFieldPattern    = regexp.MustCompile(`(?i)^\W*(?:suggested\s+)?name\W*[:=]\s*(.+)$`)
	summaryFieldPattern = regexp.MustCompile(`(?i)^\W*(?:interpretation|summary|description)\W*[:=]\s*(.+)$`)
	leadingQuoted       = regexp.MustCompile(`^["“']([^"”']+)["”']\s*(.*)$`)
	nameSeparators      = []string{" - ", " – ", " — ", ": ", ". "}
)

// componentMarkers holds the compiled expressions for one component.
type componentMarkers struct {
	fragment *regexp.Regexp // JSON-like "ID": {"name": ...} fragment
	line     *regexp.Regexp // "Factor 2: ..." or "ID: ..." line marker
	numbered *regexp.Regexp // "2. ..." numbered list item
}

func (p PatternSet) markersFor(component string, index int) componentMarkers {
	id := regexp.QuoteMeta(component)
	alts := []string{id}
	for _, noun := range p.Nouns {
		alts = append(alts, regexp.QuoteMeta(noun)+`\s*#?\s*`+strconv.Itoa(index))
	}

	str := `"((?:[^"\\]|\\.)*)"`
	return componentMarkers{
		fragment: regexp.MustCompile(`"` + id + `"\s*:\s*\{\s*"name"\s*:\s*` + str +
			`(?:\s*,?\s*"interpretation"\s*:\s*` + str + `)?`),
		line: regexp.MustCompile(`(?i)^[\s>#*_\-]*(?:` + strings.Join(alts, "|") +
			`)[*_"]*\s*[:\-–—.)]+[*_]*\s*(.*)$`),
		numbered: regexp.MustCompile(`^\s*` + strconv.Itoa(index) + `[.)]\s+(.+)$`),
	}
}

// Extract scans raw for per-component markers. Components that cannot be
// recovered receive placeholders. ok is false when no component was
// recovered at all.
func (p PatternSet) Extract(raw string, data Data) (*core.ComponentResult, bool) {
	components := data.Components()
	noun := data.Kind().ComponentNoun()
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	markers := make([]componentMarkers, len(components))
	for i, comp := range components {
		markers[i] = p.markersFor(comp, i+1)
	}

	result := core.NewComponentResult(core.TierPattern)
	matched := 0
	for i, comp := range components {
		name, summary, found := extractFragment(raw, markers[i])
		if !found {
			name, summary, found = extractBlock(lines, i, markers, func(m componentMarkers) *regexp.Regexp { return m.line })
		}
		if !found {
			name, summary, found = extractBlock(lines, i, markers, func(m componentMarkers) *regexp.Regexp { return m.numbered })
		}

		if !found {
			result.Set(comp, PlaceholderName(noun, i+1), PlaceholderSummary(noun, i+1, comp))
			continue
		}
		matched++
		if summary == "" {
			summary = PlaceholderSummary(noun, i+1, comp)
		}
		result.Set(comp, name, summary)
	}
	return result, matched > 0
}

func extractFragment(raw string, m componentMarkers) (name, summary string, ok bool) {
	sub := m.fragment.FindStringSubmatch(raw)
	if sub == nil {
		return "", "", false
	}
	name = unescapeJSON(sub[1])
	if len(sub) > 2 {
		summary = unescapeJSON(sub[2])
	}
	return strings.TrimSpace(name), strings.TrimSpace(summary), name != ""
}

// extractBlock finds the first line carrying component i's marker and reads
// the block that follows it, up to a blank line or the next marker.
func extractBlock(lines []string, i int, markers []componentMarkers, pick func(componentMarkers) *regexp.Regexp) (string, string, bool) {
	re := pick(markers[i])
	start := -1
	var head string
	for n, line := range lines {
		if sub := re.FindStringSubmatch(line); sub != nil {
			start, head = n, sub[1]
			break
		}
	}
	if start < 0 {
		return "", "", false
	}

	block := []string{cleanMarkup(head)}
	for _, line := range lines[start+1:] {
		if strings.TrimSpace(line) == "" || isMarkerLine(line, markers, pick) {
			break
		}
		block = append(block, cleanMarkup(line))
	}

	name, summary := splitBlock(block)
	if name == "" {
		return "", "", false
	}
	return name, summary, true
}

func isMarkerLine(line string, markers []componentMarkers, pick func(componentMarkers) *regexp.Regexp) bool {
	for _, m := range markers {
		if pick(m).MatchString(line) {
			return true
		}
	}
	return false
}

// splitBlock separates a suggested name from the interpretation text.
// Explicit "Name:" and "Interpretation:" fields win; otherwise the first
// line is split at a quoted name or the first separator.
func splitBlock(block []string) (name, summary string) {
	var rest []string
	for _, line := range block {
		if sub := nameFieldPattern.FindStringSubmatch(line); sub != nil && name == "" {
			name = trimName(sub[1])
			continue
		}
		if sub := summaryFieldPattern.FindStringSubmatch(line); sub != nil {
			rest = append(rest, strings.TrimSpace(sub[1]))
			continue
		}
		if strings.TrimSpace(line) != "" {
			rest = append(rest, strings.TrimSpace(line))
		}
	}
	if name != "" {
		return name, strings.Join(rest, " ")
	}
	if len(rest) == 0 {
		return "", ""
	}

	first, tail := rest[0], rest[1:]
	if sub := leadingQuoted.FindStringSubmatch(first); sub != nil {
		name = trimName(sub[1])
		first = strings.TrimLeft(sub[2], " -–—:.")
	} else {
		name, first = splitOnSeparator(first)
	}

	parts := make([]string, 0, len(tail)+1)
	if first != "" {
		parts = append(parts, first)
	}
	parts = append(parts, tail...)
	return name, strings.Join(parts, " ")
}

func splitOnSeparator(line string) (string, string) {
	best := -1
	var sep string
	for _, s := range nameSeparators {
		if idx := strings.Index(line, s); idx > 0 && (best < 0 || idx < best) {
			best, sep = idx, s
		}
	}
	if best < 0 {
		return trimName(line), ""
	}
	return trimName(line[:best]), strings.TrimSpace(line[best+len(sep):])
}

func trimName(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"“”'*_ `)
}

func cleanMarkup(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}

func unescapeJSON(s string) string {
	if u, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return u
	}
	return s
}

// String describes the pattern set for logs.
func (p PatternSet) String() string {
	return fmt.Sprintf("patterns(%s)", strings.Join(p.Nouns, ","))
}
