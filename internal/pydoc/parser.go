package pydoc

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Parser parses Python source files into Declarations.
type Parser struct {
	language *sitter.Language
}

// NewParser creates a Python parser.
func NewParser() *Parser {
	return &Parser{
		language: sitter.NewLanguage(python.Language()),
	}
}

// ParseFile reads and parses a Python module from disk.
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*Module, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %s: %w", filePath, err)
	}
	return p.Parse(ctx, filePath, source)
}

// Parse parses Python source into the ordered top-level declaration sequence.
// Unparsable source is a hard failure: no partial module is returned.
func (p *Parser) Parse(ctx context.Context, filePath string, source []byte) (*Module, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse python module: %s", filePath)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, fmt.Errorf("syntax error in python module: %s", filePath)
	}

	module := &Module{Path: filePath}
	for i := 0; i < int(rootNode.ChildCount()); i++ {
		child := rootNode.Child(uint(i))
		if decl := p.extractDeclaration(child, source); decl != nil {
			module.Decls = append(module.Decls, decl)
		}
	}

	return module, nil
}

// extractDeclaration converts a top-level or class-body node into a
// Declaration. Nodes that are not class or function definitions return nil.
func (p *Parser) extractDeclaration(node *sitter.Node, source []byte) *Declaration {
	switch node.Kind() {
	case "decorated_definition":
		decorators := p.extractDecorators(node, source)
		definition := node.ChildByFieldName("definition")
		if definition == nil {
			return nil
		}
		decl := p.extractDeclaration(definition, source)
		if decl != nil {
			decl.Decorators = decorators
		}
		return decl
	case "class_definition":
		return p.extractClass(node, source)
	case "function_definition":
		return p.extractFunction(node, source)
	}
	return nil
}

// extractClass extracts a class definition with its direct members.
func (p *Parser) extractClass(node *sitter.Node, source []byte) *Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	decl := &Declaration{
		Kind: DeclClass,
		Name: extractNodeText(nameNode, source),
	}

	// Superclass expressions, dumped structurally so formatting never matters.
	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for i := 0; i < int(superclasses.ChildCount()); i++ {
			child := superclasses.Child(uint(i))
			if !child.IsNamed() || child.Kind() == "comment" {
				continue
			}
			decl.Bases = append(decl.Bases, DumpNode(child, source))
		}
	}

	bodyNode := node.ChildByFieldName("body")
	if bodyNode == nil {
		return decl
	}

	decl.Doc = extractDocstring(bodyNode, source)

	for i := 0; i < int(bodyNode.ChildCount()); i++ {
		child := bodyNode.Child(uint(i))
		if member := p.extractDeclaration(child, source); member != nil {
			decl.Members = append(decl.Members, member)
		}
	}

	return decl
}

// extractFunction extracts a function or method definition.
func (p *Parser) extractFunction(node *sitter.Node, source []byte) *Declaration {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	decl := &Declaration{
		Kind: DeclFunction,
		Name: extractNodeText(nameNode, source),
	}

	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		decl.Params = p.extractParams(paramsNode, source)
	}

	if bodyNode := node.ChildByFieldName("body"); bodyNode != nil {
		decl.Doc = extractDocstring(bodyNode, source)
	}

	return decl
}

// extractDecorators collects the decorator expressions of a decorated
// definition as structural dumps, in source order.
func (p *Parser) extractDecorators(node *sitter.Node, source []byte) []string {
	var decorators []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() != "decorator" {
			continue
		}
		// The decorator's single named child is the expression after '@'.
		for j := 0; j < int(child.ChildCount()); j++ {
			expr := child.Child(uint(j))
			if expr.IsNamed() && expr.Kind() != "comment" {
				decorators = append(decorators, DumpNode(expr, source))
				break
			}
		}
	}
	return decorators
}

// extractParams walks a parameters node and produces the ordered parameter
// list with kinds, annotations, and defaults resolved.
func (p *Parser) extractParams(paramsNode *sitter.Node, source []byte) []Param {
	var params []Param
	keywordOnly := false

	positionalKind := func() ParamKind {
		if keywordOnly {
			return ParamKeywordOnly
		}
		return ParamPositional
	}

	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		child := paramsNode.Child(uint(i))
		if !child.IsNamed() {
			continue
		}

		switch child.Kind() {
		case "identifier":
			params = append(params, Param{
				Name:       extractNodeText(child, source),
				Kind:       positionalKind(),
				Annotation: AnySentinel,
			})

		case "typed_parameter":
			param := p.extractTypedParam(child, source, positionalKind())
			if param.Kind == ParamVarPositional {
				keywordOnly = true
			}
			params = append(params, param)

		case "default_parameter":
			params = append(params, Param{
				Name:       extractNodeText(child.ChildByFieldName("name"), source),
				Kind:       positionalKind(),
				Annotation: AnySentinel,
				Default:    extractDefault(child.ChildByFieldName("value"), source),
			})

		case "typed_default_parameter":
			params = append(params, Param{
				Name:       extractNodeText(child.ChildByFieldName("name"), source),
				Kind:       positionalKind(),
				Annotation: extractAnnotation(child.ChildByFieldName("type"), source),
				Default:    extractDefault(child.ChildByFieldName("value"), source),
			})

		case "list_splat_pattern":
			keywordOnly = true
			params = append(params, Param{
				Name:       splatName(child, source),
				Kind:       ParamVarPositional,
				Annotation: AnySentinel,
			})

		case "dictionary_splat_pattern":
			params = append(params, Param{
				Name:       splatName(child, source),
				Kind:       ParamVarKeyword,
				Annotation: AnySentinel,
			})

		case "keyword_separator":
			// Bare '*': everything after is keyword-only.
			keywordOnly = true

		case "positional_separator":
			// '/' only constrains call sites, not the canonical form.
		}
	}

	return params
}

// extractTypedParam handles `name: type` parameters, including the splat
// forms `*args: type` and `**kwargs: type`.
func (p *Parser) extractTypedParam(node *sitter.Node, source []byte, kind ParamKind) Param {
	param := Param{
		Kind:       kind,
		Annotation: extractAnnotation(node.ChildByFieldName("type"), source),
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if !child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "identifier":
			param.Name = extractNodeText(child, source)
			return param
		case "list_splat_pattern":
			param.Name = splatName(child, source)
			param.Kind = ParamVarPositional
			return param
		case "dictionary_splat_pattern":
			param.Name = splatName(child, source)
			param.Kind = ParamVarKeyword
			return param
		}
	}

	return param
}

// splatName returns the identifier inside a *args / **kwargs pattern.
func splatName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == "identifier" {
			return extractNodeText(child, source)
		}
	}
	return extractNodeText(node, source)
}

// extractAnnotation canonicalizes a type annotation by stripping all
// whitespace, so `Dict[str, int]` and `Dict[str,int]` compare equal.
func extractAnnotation(node *sitter.Node, source []byte) string {
	if node == nil {
		return AnySentinel
	}
	return stripWhitespace(extractNodeText(node, source))
}

// extractDefault serializes a default-value expression. Rendering is total:
// values that cannot be rendered safely become the opaque placeholder.
func extractDefault(node *sitter.Node, source []byte) *DefaultValue {
	if node == nil {
		return nil
	}
	rendered, ok := RenderValue(node, source)
	if !ok {
		rendered = OpaquePlaceholder
	}
	return &DefaultValue{
		Rendered: rendered,
		Dump:     DumpNode(node, source),
		Opaque:   !ok,
	}
}

// extractNodeText extracts the text content of a syntax node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// stripWhitespace removes all whitespace characters from s.
func stripWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
