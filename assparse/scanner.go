// Package assparse scans SSA/ASS subtitle text for font family name
// references, both from Style: declarations and from \fn override tags
// inside Dialogue: text.
//
// Scan never fails: malformed lines are skipped silently, and only '\r'
// or '\n' structure the walk, so binary noise in an otherwise text file
// does not abort it.
package assparse

import "strings"

// Scan walks text section by section and calls report once for every
// family name reference it finds, in the order they appear. Scan does
// not deduplicate across calls — that is the caller's responsibility
// (the loader package does it using its family-name arena).
func Scan(text string, report func(family string)) {
	var sec section
	var styleFormat, eventFormat []string
	haveStyleFormat, haveEventFormat := false, false

	for _, line := range splitLines(text) {
		if isSectionHeader(line) {
			sec = sectionFor(line)
			haveStyleFormat, haveEventFormat = false, false
			styleFormat, eventFormat = nil, nil
			continue
		}

		switch sec {
		case sectionStyles:
			if fields, ok := parseFormatLine(line); ok {
				styleFormat = fields
				haveStyleFormat = true
				continue
			}
			if rest, ok := stripPrefixFold(line, "Style:"); ok {
				reportStyleFontName(rest, styleFormat, haveStyleFormat, report)
			}
		case sectionEvents:
			if fields, ok := parseFormatLine(line); ok {
				eventFormat = fields
				haveEventFormat = true
				continue
			}
			if rest, ok := stripPrefixFold(line, "Dialogue:"); ok {
				reportDialogueFontNames(rest, eventFormat, haveEventFormat, report)
			}
		}
	}
}

type section int

const (
	sectionNone section = iota
	sectionStyles
	sectionEvents
)

func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}

func isSectionHeader(line string) bool {
	l := strings.TrimSpace(line)
	return len(l) >= 2 && l[0] == '[' && l[len(l)-1] == ']'
}

func sectionFor(line string) section {
	switch name := strings.TrimSpace(line); {
	case strings.EqualFold(name, "[V4 Styles]"), strings.EqualFold(name, "[V4+ Styles]"):
		return sectionStyles
	case strings.EqualFold(name, "[Events]"):
		return sectionEvents
	default:
		return sectionNone
	}
}

func stripPrefixFold(line, prefix string) (string, bool) {
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return line[len(prefix):], true
}

// parseFormatLine recognizes a "Format: a, b, c" line and returns the
// trimmed, comma-separated field names.
func parseFormatLine(line string) ([]string, bool) {
	rest, ok := stripPrefixFold(line, "Format:")
	if !ok {
		return nil, false
	}
	parts := strings.Split(rest, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields, true
}

func fieldIndex(fields []string, name string) int {
	for i, f := range fields {
		if strings.EqualFold(f, name) {
			return i
		}
	}
	return -1
}

func reportStyleFontName(rest string, format []string, haveFormat bool, report func(string)) {
	fields := strings.Split(rest, ",")
	idx := 1 // fallback: second comma-separated field
	if haveFormat {
		idx = fieldIndex(format, "fontname")
		if idx < 0 {
			return
		}
	}
	if idx >= len(fields) {
		return
	}
	emitFamily(strings.TrimSpace(fields[idx]), report)
}

func reportDialogueFontNames(rest string, format []string, haveFormat bool, report func(string)) {
	skip := 9 // fallback: Layer,Start,End,Style,Name,MarginL,MarginR,MarginV,Effect
	if haveFormat {
		idx := fieldIndex(format, "text")
		if idx < 0 {
			return
		}
		skip = idx
	}
	text, ok := skipFields(rest, skip)
	if !ok {
		return
	}
	scanOverrideTags(text, report)
}

// skipFields advances past n comma-separated fields and returns the
// remainder of the line, with embedded commas in the remainder preserved
// (it does not split further).
func skipFields(s string, n int) (string, bool) {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(s, ',')
		if idx < 0 {
			return "", false
		}
		s = s[idx+1:]
	}
	return s, true
}

// scanOverrideTags finds {...} override blocks in text and reports the
// argument of every \fn tag found at the top level of each block.
func scanOverrideTags(text string, report func(string)) {
	i := 0
	for i < len(text) {
		start := strings.IndexByte(text[i:], '{')
		if start < 0 {
			return
		}
		start += i
		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			return
		}
		end += start
		emitTagsInBlock(text[start+1:end], report)
		i = end + 1
	}
}

// emitTagsInBlock splits an override block into top-level tags separated
// by '\', treating \tag(...) argument lists as part of the same tag so
// that a \fn nested inside, say, \t(...) never fires on its own: a
// paren-unaware splitter would misfire on that nesting.
func emitTagsInBlock(block string, report func(string)) {
	i, n := 0, len(block)
	for i < n {
		if block[i] != '\\' {
			i++
			continue
		}
		j := i + 1
		depth := 0
		for j < n {
			switch block[j] {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			case '\\':
				if depth == 0 {
					goto done
				}
			}
			j++
		}
	done:
		reportTag(block[i+1:j], report)
		i = j
	}
}

func reportTag(tag string, report func(string)) {
	if len(tag) < 2 || !strings.EqualFold(tag[:2], "fn") {
		return
	}
	name := strings.TrimSpace(tag[2:])
	if name == "0" {
		// font-reset: emits nothing
		return
	}
	emitFamily(name, report)
}

// emitFamily strips a single leading '@' (the vertical-writing marker)
// and discards the result if it becomes empty.
func emitFamily(name string, report func(string)) {
	name = strings.TrimPrefix(name, "@")
	if name == "" {
		return
	}
	report(name)
}
