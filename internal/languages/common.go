package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Syntax describes the node kinds and import semantics the call-site matcher
// needs for one language. The matcher itself is language-agnostic; every
// language-specific decision lives in one of these tables.
type Syntax struct {
	// CallKinds are the node kinds that constitute a call expression.
	CallKinds map[string]bool
	// FunctionKinds are named function/method definition node kinds, used to
	// resolve the enclosing function of a match.
	FunctionKinds map[string]bool
	// StringKinds are string-literal node kinds. Call detection never
	// descends into them; they are also what counts as a literal argument.
	StringKinds map[string]bool
	// CommentKinds are comment node kinds, likewise skipped for call
	// detection.
	CommentKinds map[string]bool
	// ImportKinds are the node kinds that introduce import bindings.
	ImportKinds map[string]bool

	// Callee resolves the raw callee expression of a call node to its
	// dotted textual form (e.g. "client.chat.completions.create").
	Callee func(n *sitter.Node, src []byte) string
	// BindImports records alias-to-module bindings introduced by an
	// import-kind node into binds. Only local bindings are recorded; no
	// cross-module re-export resolution is attempted.
	BindImports func(n *sitter.Node, src []byte, binds map[string]string)
	// FunctionName extracts the declared name of a function-definition node,
	// or "" when the definition is anonymous.
	FunctionName func(n *sitter.Node, src []byte) string
}

// ForLanguage returns the syntax table for a language tag, or nil when the
// language has no table.
func ForLanguage(lang string) *Syntax {
	switch lang {
	case "javascript", "typescript":
		return javaScriptSyntax
	case "go":
		return goSyntax
	case "python":
		return pythonSyntax
	case "rust":
		return rustSyntax
	case "java":
		return javaSyntax
	default:
		return nil
	}
}

// Text returns the source text covered by a node.
func Text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(src) {
		end = uint(len(src))
	}
	if start >= end {
		return ""
	}
	return string(src[start:end])
}

// TrimQuotes strips one layer of surrounding quotes from a literal.
func TrimQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, "'", "`"} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[1 : len(s)-1]
		}
	}
	// Python-style prefixed literals (f"...", r'...')
	if len(s) >= 3 {
		head := strings.ToLower(s[:1])
		next := s[1]
		if (head == "f" || head == "r" || head == "b" || head == "u") &&
			(next == '"' || next == '\'') {
			return TrimQuotes(s[1:])
		}
	}
	return s
}

// fieldText is a shorthand for the text of a named field child.
func fieldText(n *sitter.Node, field string, src []byte) string {
	return Text(n.ChildByFieldName(field), src)
}

// nameField extracts the "name" field of a definition node.
func nameField(n *sitter.Node, src []byte) string {
	return fieldText(n, "name", src)
}

func kinds(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, name := range names {
		m[name] = true
	}
	return m
}
