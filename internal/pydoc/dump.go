package pydoc

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// DumpNode produces a structural s-expression of a syntax node: node kinds
// plus leaf token text, recursively over named children. Whitespace, line
// breaks, and comments never appear in a dump, and string literals contribute
// their content rather than their quoted source text, so reformatting a
// module leaves every dump unchanged while any structural or token-level edit
// changes it.
func DumpNode(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}

	kind := node.Kind()
	if kind == "string" {
		return "(string " + quoteDump(stringContent(node, source)) + ")"
	}

	var children []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if !child.IsNamed() || child.Kind() == "comment" {
			continue
		}
		children = append(children, DumpNode(child, source))
	}

	if len(children) == 0 {
		return "(" + kind + " " + quoteDump(tokenText(node, source)) + ")"
	}
	return "(" + kind + " " + strings.Join(children, " ") + ")"
}

// tokenText concatenates the token texts under a node, skipping comments.
// Empty containers like `{ }` and `( )` contribute only their delimiter
// tokens, never the whitespace between them.
func tokenText(node *sitter.Node, source []byte) string {
	if node.ChildCount() == 0 {
		return extractNodeText(node, source)
	}
	var b strings.Builder
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == "comment" {
			continue
		}
		b.WriteString(tokenText(child, source))
	}
	return b.String()
}

// stringContent concatenates the content pieces of a string literal,
// ignoring the quote delimiter tokens. Interpolations inside f-strings are
// dumped structurally.
func stringContent(node *sitter.Node, source []byte) string {
	var b strings.Builder
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "string_content", "escape_sequence":
			b.WriteString(extractNodeText(child, source))
		case "interpolation":
			b.WriteString(DumpNode(child, source))
		}
	}
	return b.String()
}

// quoteDump escapes a leaf token for embedding in a dump.
func quoteDump(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}

// RenderValue serializes an expression to canonical text, independent of
// source formatting. The second return value reports success: expressions
// outside the supported forms (or containing unsupported subexpressions)
// report false, and the caller substitutes the opaque placeholder. Rendering
// is total: it never fails the surrounding pass.
func RenderValue(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "None", true
	}

	switch node.Kind() {
	case "string":
		return "'" + stringContent(node, source) + "'", true

	case "concatenated_string":
		var parts []string
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if child.Kind() != "string" {
				continue
			}
			part, ok := RenderValue(child, source)
			if !ok {
				return "", false
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, " "), true

	case "integer", "float", "true", "false", "none", "ellipsis", "identifier":
		return extractNodeText(node, source), true

	case "unary_operator":
		operand, ok := RenderValue(node.ChildByFieldName("argument"), source)
		if !ok {
			return "", false
		}
		return extractNodeText(node.ChildByFieldName("operator"), source) + operand, true

	case "attribute":
		object, ok := RenderValue(node.ChildByFieldName("object"), source)
		if !ok {
			return "", false
		}
		return object + "." + extractNodeText(node.ChildByFieldName("attribute"), source), true

	case "parenthesized_expression":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if child.IsNamed() && child.Kind() != "comment" {
				inner, ok := RenderValue(child, source)
				if !ok {
					return "", false
				}
				return "(" + inner + ")", true
			}
		}
		return "", false

	case "list":
		return renderSequence(node, source, "[", "]")

	case "tuple":
		return renderSequence(node, source, "(", ")")

	case "set":
		return renderSequence(node, source, "{", "}")

	case "dictionary":
		var pairs []string
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if !child.IsNamed() || child.Kind() == "comment" {
				continue
			}
			switch child.Kind() {
			case "pair":
				key, okKey := RenderValue(child.ChildByFieldName("key"), source)
				value, okValue := RenderValue(child.ChildByFieldName("value"), source)
				if !okKey || !okValue {
					return "", false
				}
				pairs = append(pairs, key+": "+value)
			case "dictionary_splat":
				inner, ok := renderSplat(child, source)
				if !ok {
					return "", false
				}
				pairs = append(pairs, "**"+inner)
			default:
				return "", false
			}
		}
		return "{" + strings.Join(pairs, ", ") + "}", true

	case "call":
		function, ok := RenderValue(node.ChildByFieldName("function"), source)
		if !ok {
			return "", false
		}
		args, ok := renderArguments(node.ChildByFieldName("arguments"), source)
		if !ok {
			return "", false
		}
		return function + "(" + args + ")", true
	}

	return "", false
}

// renderSequence renders the named elements of a list, tuple, or set.
func renderSequence(node *sitter.Node, source []byte, open, closing string) (string, bool) {
	var elements []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if !child.IsNamed() || child.Kind() == "comment" {
			continue
		}
		element, ok := RenderValue(child, source)
		if !ok {
			return "", false
		}
		elements = append(elements, element)
	}
	return open + strings.Join(elements, ", ") + closing, true
}

// renderArguments renders a call's argument list, including keyword arguments.
func renderArguments(node *sitter.Node, source []byte) (string, bool) {
	if node == nil {
		return "", true
	}
	var args []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if !child.IsNamed() || child.Kind() == "comment" {
			continue
		}
		switch child.Kind() {
		case "keyword_argument":
			name := extractNodeText(child.ChildByFieldName("name"), source)
			value, ok := RenderValue(child.ChildByFieldName("value"), source)
			if !ok {
				return "", false
			}
			args = append(args, name+"="+value)
		case "list_splat":
			inner, ok := renderSplat(child, source)
			if !ok {
				return "", false
			}
			args = append(args, "*"+inner)
		case "dictionary_splat":
			inner, ok := renderSplat(child, source)
			if !ok {
				return "", false
			}
			args = append(args, "**"+inner)
		default:
			arg, ok := RenderValue(child, source)
			if !ok {
				return "", false
			}
			args = append(args, arg)
		}
	}
	return strings.Join(args, ", "), true
}

// renderSplat renders the expression inside a *seq or **mapping splat.
func renderSplat(node *sitter.Node, source []byte) (string, bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.IsNamed() && child.Kind() != "comment" {
			return RenderValue(child, source)
		}
	}
	return "", false
}
