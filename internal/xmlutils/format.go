package xmlutils

import (
	"regexp"
	"strings"
)

const (
	indentUnit    = "  "
	lineSeparator = "\n"
)

var (
	// a '>' directly followed by '<' (and any '/' of a closing tag) marks a node boundary
	tagBoundary = regexp.MustCompile(`(>)(<)(/*)`)
	// opening and closing tag on the same line, e.g. <A>1</A>
	selfContainedNode = regexp.MustCompile(`.+</\w[^>]*>$`)
	closingTag        = regexp.MustCompile(`^</\w`)
	openingTag        = regexp.MustCompile(`^<\w[^>]*>`)
	selfClosingTag    = regexp.MustCompile(`^<\w[^>]*/>`)
)

// Format re-indents a compact XML string so that every node sits on its own line,
// indented by two spaces per nesting level.
//
// Format never fails: malformed or unbalanced input gives best-effort output and the
// indentation depth never drops below zero. Should anything go wrong internally the
// input is returned unchanged.
func Format(xml string) (formatted string) {
	if xml == "" {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			formatted = xml
		}
	}()

	split := tagBoundary.ReplaceAllString(xml, "$1"+lineSeparator+"$2$3")
	lines := strings.Split(strings.ReplaceAll(split, "\r\n", lineSeparator), lineSeparator)

	var b strings.Builder
	b.Grow(len(xml) * 2)

	depth := 0
	for i, line := range lines {
		node := strings.TrimSpace(line)

		step := 0
		switch {
		case selfContainedNode.MatchString(node):
		case closingTag.MatchString(node) && depth > 0:
			depth--
		case openingTag.MatchString(node) && !selfClosingTag.MatchString(node):
			step = 1
		}

		if i > 0 {
			b.WriteString(lineSeparator)
		}
		if node != "" {
			b.WriteString(strings.Repeat(indentUnit, depth))
			b.WriteString(node)
		}
		depth += step
	}

	return b.String()
}
