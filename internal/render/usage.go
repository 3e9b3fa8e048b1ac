package render

import (
	"strings"

	"github.com/RetroMaximus/crudehelpgen/internal/pydoc"
)

// constructorName is the sentinel method that constructs a class instance.
const constructorName = "__init__"

// MethodUsage generates a usage example for a class method: a canonical
// receiver assignment followed by a call expression. The constructor calls
// the receiver directly; other methods call through it. Defaults use the
// canonical rendering, never the structural dump.
func MethodUsage(class, method string, params []pydoc.Param) string {
	receiver := "self." + strings.ToLower(class) + "_obj"

	var b strings.Builder
	b.WriteString(receiver + " = " + class + "\n\n")

	prefix := receiver + "." + method + "("
	if method == constructorName {
		prefix = receiver + "("
	}

	b.WriteString(renderCall(prefix, usageArgs(params, true)))
	return b.String()
}

// FunctionUsage generates a usage example for a standalone function: a plain
// call expression with no receiver.
func FunctionUsage(name string, params []pydoc.Param) string {
	return renderCall(name+"(", usageArgs(params, false))
}

// usageArgs renders the example argument list. For methods, the implicit
// first receiver-like parameter is dropped.
func usageArgs(params []pydoc.Param, method bool) []string {
	args := make([]string, 0, len(params))
	for i, p := range params {
		if method && i == 0 && (p.Name == "self" || p.Name == "cls") {
			continue
		}
		arg := p.Name
		if p.Default != nil {
			arg += "=" + p.Default.Rendered
		}
		args = append(args, arg)
	}
	return args
}

// renderCall formats a call expression: empty parens for zero arguments, an
// inline call for one, and one argument per line with the closing paren on
// its own line for two or more.
func renderCall(prefix string, args []string) string {
	switch len(args) {
	case 0:
		return prefix + ")"
	case 1:
		return prefix + args[0] + ")"
	default:
		var b strings.Builder
		b.WriteString(prefix + "\n")
		for i, arg := range args {
			b.WriteString("    " + arg)
			if i < len(args)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(")")
		return b.String()
	}
}
