package matcher

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/llmscan/internal/languages"
)

// WindowRadius is the number of preceding sibling statements examined for
// validation calls and secret-shaped literals.
const WindowRadius = 5

// Context is the minimal local context extracted around one Match. It is
// derived from the same file's syntax tree and never persisted on its own.
type Context struct {
	Match *Match
	// LiteralArgs are the string literals passed directly to the matched
	// call. Computed expressions are deliberately not evaluated.
	LiteralArgs []string
	// EnclosingFunc is the nearest enclosing named function or method, or
	// "" at file scope.
	EnclosingFunc string
	// HasValidation is set when a validation-like call appears in the
	// preceding statement window.
	HasValidation bool
	// HasSecretLiteral is set when a secret-shaped literal appears at the
	// call site or in the preceding statement window.
	HasSecretLiteral bool
	// Window is the raw text of the examined statements, exposed for custom
	// rule predicates.
	Window string
}

// validationNames are call-name fragments treated as evidence of input
// validation near a call site. Purely syntactic; a local heuristic, not
// data-flow analysis.
var validationNames = []string{
	"validate", "sanitize", "sanitise", "escape",
	"clean_input", "check_input", "is_valid", "assert_valid",
}

var secretLiteralRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret|token|passw(?:or)?d)\s*[:=]\s*["'][A-Za-z0-9_\-]{16,}["']`),
	regexp.MustCompile("[\"']sk-[A-Za-z0-9_\\-]{16,}[\"']"),
}

// genericBlockKinds are the container kinds whose direct children are
// statements, across all supported grammars. Window extraction ascends to
// the statement directly under one of these.
var genericBlockKinds = map[string]bool{
	"block":            true,
	"statement_block":  true,
	"module":           true,
	"program":          true,
	"source_file":      true,
	"compilation_unit": true,
	"class_body":       true,
	"constructor_body": true,
}

// Extract pulls the audit context for a located match: direct literal
// string arguments, the enclosing named function, and a fixed-radius
// preceding statement window scanned for validation calls and secret-shaped
// literals.
func (m *Matcher) Extract(loc *Located, src []byte) Context {
	ctx := Context{Match: &loc.Match}
	if loc.node == nil {
		return ctx
	}

	ctx.LiteralArgs = m.literalArgs(loc.node, src)
	ctx.EnclosingFunc = m.enclosingFunc(loc.node, src)

	window := m.windowText(loc.node, src)
	ctx.Window = window

	lowered := strings.ToLower(window)
	for _, name := range validationNames {
		if strings.Contains(lowered, name) {
			ctx.HasValidation = true
			break
		}
	}

	scope := window + "\n" + languages.Text(loc.node, src)
	for _, re := range secretLiteralRes {
		if re.MatchString(scope) {
			ctx.HasSecretLiteral = true
			break
		}
	}

	return ctx
}

// literalArgs collects string literals passed directly to the call,
// descending one level so keyword arguments (model="x") and simple pairs
// count too.
func (m *Matcher) literalArgs(n *sitter.Node, src []byte) []string {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < args.NamedChildCount(); i++ {
		arg := args.NamedChild(i)
		if m.syntax.StringKinds[arg.Kind()] {
			out = append(out, languages.TrimQuotes(languages.Text(arg, src)))
			continue
		}
		for j := uint(0); j < arg.NamedChildCount(); j++ {
			inner := arg.NamedChild(j)
			if m.syntax.StringKinds[inner.Kind()] {
				out = append(out, languages.TrimQuotes(languages.Text(inner, src)))
			}
		}
	}
	return out
}

func (m *Matcher) enclosingFunc(n *sitter.Node, src []byte) string {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if m.syntax.FunctionKinds[p.Kind()] {
			if name := m.syntax.FunctionName(p, src); name != "" {
				return name
			}
			// anonymous function: keep walking to a named ancestor
		}
	}
	return ""
}

// windowText returns the text of up to WindowRadius statements preceding
// the statement containing n.
func (m *Matcher) windowText(n *sitter.Node, src []byte) string {
	stmt := n
	for stmt.Parent() != nil && !genericBlockKinds[stmt.Parent().Kind()] {
		if m.syntax.FunctionKinds[stmt.Parent().Kind()] {
			break
		}
		stmt = stmt.Parent()
	}

	var parts []string
	prev := stmt.PrevNamedSibling()
	for i := 0; i < WindowRadius && prev != nil; i++ {
		parts = append([]string{languages.Text(prev, src)}, parts...)
		prev = prev.PrevNamedSibling()
	}
	return strings.Join(parts, "\n")
}
