package pydoc

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractDocstring returns the cleaned docstring of a class or function body
// block, or "" when the body does not start with a string literal.
func extractDocstring(bodyNode *sitter.Node, source []byte) string {
	for i := 0; i < int(bodyNode.ChildCount()); i++ {
		child := bodyNode.Child(uint(i))
		if !child.IsNamed() {
			continue
		}
		if child.Kind() == "comment" {
			continue
		}
		if child.Kind() != "expression_statement" {
			return ""
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			expr := child.Child(uint(j))
			if expr.IsNamed() && expr.Kind() == "string" {
				return cleanDocstring(extractNodeText(expr, source))
			}
		}
		return ""
	}
	return ""
}

// cleanDocstring strips the quote delimiters and normalizes indentation the
// way Python's inspect.cleandoc does, so the extracted text does not depend
// on how deeply the declaration was nested in the source.
func cleanDocstring(raw string) string {
	text := stripQuotes(raw)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	lines[0] = strings.TrimLeft(lines[0], " \t")

	// Common indentation of continuation lines.
	indent := -1
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, line := range lines[1:] {
			if len(line) >= indent {
				lines[i+1] = line[indent:]
			}
		}
	}

	// Drop leading and trailing blank lines.
	start, end := 0, len(lines)
	for start < end && lines[start] == "" {
		start++
	}
	for end > start && lines[end-1] == "" {
		end--
	}

	return strings.Join(lines[start:end], "\n")
}

// stripQuotes removes string prefixes (r, b, u, f in any combination) and the
// surrounding quote delimiters from a string literal's source text.
func stripQuotes(raw string) string {
	s := raw
	for len(s) > 0 {
		c := s[0] | 0x20 // lowercase
		if c == 'r' || c == 'b' || c == 'u' || c == 'f' {
			s = s[1:]
			continue
		}
		break
	}

	for _, delim := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) && len(s) >= 2*len(delim) {
			return s[len(delim) : len(s)-len(delim)]
		}
	}
	return s
}
