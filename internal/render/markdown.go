package render

import (
	"fmt"
	"strings"

	"github.com/RetroMaximus/crudehelpgen/internal/pydoc"
)

// noHelpPlaceholder is emitted when a declaration has no docstring.
const noHelpPlaceholder = "No help provided."

// Options controls optional parts of the rendered document.
type Options struct {
	// IncludeArgs renders each callable's parameters as a separate block.
	IncludeArgs bool
}

// Renderer emits a navigable Markdown help document from an ordered
// top-level declaration sequence. The exclusion set filters methods,
// standalone functions, and table-of-contents entries; it never affects
// fingerprinting.
type Renderer struct {
	exclusions *ExclusionSet
	opts       Options
}

// New creates a renderer.
func New(exclusions *ExclusionSet, opts Options) *Renderer {
	return &Renderer{
		exclusions: exclusions,
		opts:       opts,
	}
}

// Render walks the declarations in source order and produces the document.
// A table of contents is prepended only when at least one unit rendered.
func (r *Renderer) Render(decls []*pydoc.Declaration) string {
	var sections []string

	for _, decl := range decls {
		switch decl.Kind {
		case pydoc.DeclClass:
			if r.exclusions.Excluded(decl.Name) {
				continue
			}
			sections = append(sections, r.renderClass(decl)...)
		case pydoc.DeclFunction:
			if r.exclusions.Excluded(decl.Name) {
				continue
			}
			sections = append(sections, r.renderFunction(decl))
		}
	}

	if len(sections) == 0 {
		return ""
	}

	sections = append([]string{r.renderTOC(decls)}, sections...)
	return strings.Join(sections, "\n\n")
}

// renderClass emits the class header, quick links, and one section per
// non-excluded direct method.
func (r *Renderer) renderClass(decl *pydoc.Declaration) []string {
	classAnchor := ClassAnchor(decl.Name)

	sections := []string{
		fmt.Sprintf("<a id=%q></a>\n", classAnchor),
		fmt.Sprintf("## Class: `%s`\n", decl.Name),
	}

	methods := r.visibleMethods(decl)

	if len(methods) > 0 {
		links := make([]string, 0, len(methods))
		for _, m := range methods {
			links = append(links, fmt.Sprintf("[`%s`](#%s)", m.Name, MethodAnchor(decl.Name, m.Name)))
		}
		sections = append(sections, "### Quick Links:\n", strings.Join(links, " | "), "\n")
	}

	for _, m := range methods {
		sections = append(sections, r.renderMethod(decl, m))
	}

	return sections
}

// renderMethod emits one method section with anchor, optional arguments
// block, help text, usage example, and back-navigation links.
func (r *Renderer) renderMethod(class, method *pydoc.Declaration) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<a id=%q></a>\n", MethodAnchor(class.Name, method.Name))
	fmt.Fprintf(&b, "### Method: `%s`\n", method.Name)

	if r.opts.IncludeArgs {
		b.WriteString("#### Arguments:\n")
		b.WriteString(argumentsBlock(method.Params))
	}

	b.WriteString("\n#### Help:\n> ")
	b.WriteString(helpText(method.Doc))
	b.WriteString("\n")

	b.WriteString("\n#### Usage:\n```python\n")
	b.WriteString(MethodUsage(class.Name, method.Name, method.Params))
	b.WriteString("\n```\n")

	fmt.Fprintf(&b, "\n\n[Back to `%s`](#%s) or [Classes](#top)\n\n", class.Name, ClassAnchor(class.Name))

	return b.String()
}

// renderFunction emits one standalone-function section.
func (r *Renderer) renderFunction(decl *pydoc.Declaration) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<a id=%q></a>\n", FuncAnchor(decl.Name))
	fmt.Fprintf(&b, "## Function: `%s`\n", decl.Name)

	if r.opts.IncludeArgs {
		b.WriteString("### Arguments:\n")
		b.WriteString(argumentsBlock(decl.Params))
	}

	b.WriteString("\n### Help:\n> ")
	b.WriteString(helpText(decl.Doc))
	b.WriteString("\n")

	b.WriteString("\n### Usage:\n```python\n")
	b.WriteString(FunctionUsage(decl.Name, decl.Params))
	b.WriteString("\n```\n")

	b.WriteString("\n[Back to top](#top)\n\n")

	return b.String()
}

// renderTOC synthesizes the table of contents from the same traversal order.
func (r *Renderer) renderTOC(decls []*pydoc.Declaration) string {
	toc := []string{
		"<a id=\"top\"></a>\n",
		"## Table of Contents\n",
	}

	var classLinks, funcLinks []string
	for _, decl := range decls {
		if r.exclusions.Excluded(decl.Name) {
			continue
		}
		switch decl.Kind {
		case pydoc.DeclClass:
			classLinks = append(classLinks, fmt.Sprintf("[`%s`](#%s)", decl.Name, ClassAnchor(decl.Name)))
		case pydoc.DeclFunction:
			funcLinks = append(funcLinks, fmt.Sprintf("[`%s`](#%s)", decl.Name, FuncAnchor(decl.Name)))
		}
	}

	if len(classLinks) > 0 {
		toc = append(toc, "### Classes:\n", strings.Join(classLinks, " | "), "\n")
	}
	if len(funcLinks) > 0 {
		toc = append(toc, "### Functions:\n", strings.Join(funcLinks, " | "), "\n")
	}

	return strings.Join(toc, "\n")
}

// visibleMethods returns the class's direct function members that are not
// excluded, in source order.
func (r *Renderer) visibleMethods(decl *pydoc.Declaration) []*pydoc.Declaration {
	var methods []*pydoc.Declaration
	for _, m := range decl.Functions() {
		if r.exclusions.Excluded(m.Name) {
			continue
		}
		methods = append(methods, m)
	}
	return methods
}

// argumentsBlock renders one `- name: type = default` line per parameter.
func argumentsBlock(params []pydoc.Param) string {
	lines := make([]string, 0, len(params))
	for _, p := range params {
		lines = append(lines, "- "+paramLine(p))
	}
	return strings.Join(lines, "\n")
}

// paramLine renders a single parameter detail line.
func paramLine(p pydoc.Param) string {
	annotation := p.Annotation
	if annotation == "" {
		annotation = pydoc.AnySentinel
	}
	line := p.Name + ": " + annotation
	if p.Default != nil {
		line += " = " + p.Default.Rendered
	}
	return line
}

// helpText returns the trimmed docstring or the fixed placeholder.
func helpText(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return noHelpPlaceholder
	}
	return doc
}

// ClassAnchor derives the anchor id for a class section.
func ClassAnchor(class string) string {
	return "class-" + strings.ToLower(class)
}

// MethodAnchor derives the anchor id for a method section.
func MethodAnchor(class, method string) string {
	return "method-" + strings.ToLower(class) + "-" + strings.ToLower(method)
}

// FuncAnchor derives the anchor id for a standalone function section.
func FuncAnchor(name string) string {
	return "func-" + strings.ToLower(name)
}
