package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustSyntax normalizes :: paths to dotted form so catalog entries stay
// language-neutral: async_openai::Client::new resolves through
// `use async_openai::Client;` to "async_openai.Client.new".
var rustSyntax = &Syntax{
	CallKinds:     kinds("call_expression"),
	FunctionKinds: kinds("function_item"),
	StringKinds:   kinds("string_literal", "raw_string_literal"),
	CommentKinds:  kinds("line_comment", "block_comment"),
	ImportKinds:   kinds("use_declaration"),
	Callee: func(n *sitter.Node, src []byte) string {
		callee := Text(n.ChildByFieldName("function"), src)
		return strings.ReplaceAll(callee, "::", ".")
	},
	BindImports:  bindRustImports,
	FunctionName: nameField,
}

// bindRustImports parses use declarations textually. The grammar nests
// scoped_use_list/use_as_clause arbitrarily deep; flattening the text is
// simpler and covers the common forms:
//
//	use async_openai::Client;
//	use async_openai::types as t;
//	use langchain::{LLMChain, prompt::Template};
func bindRustImports(n *sitter.Node, src []byte, binds map[string]string) {
	decl := strings.TrimSpace(Text(n, src))
	decl = strings.TrimPrefix(decl, "use ")
	decl = strings.TrimSuffix(decl, ";")
	bindRustPath(strings.TrimSpace(decl), "", binds)
}

func bindRustPath(path, prefix string, binds map[string]string) {
	if brace := strings.IndexByte(path, '{'); brace >= 0 {
		base := strings.TrimSuffix(strings.TrimSpace(path[:brace]), "::")
		inner := strings.TrimSuffix(strings.TrimSpace(path[brace+1:]), "}")
		for _, part := range splitRustList(inner) {
			bindRustPath(strings.TrimSpace(part), joinRust(prefix, base), binds)
		}
		return
	}

	alias := ""
	if i := strings.Index(path, " as "); i >= 0 {
		alias = strings.TrimSpace(path[i+4:])
		path = strings.TrimSpace(path[:i])
	}

	full := joinRust(prefix, path)
	if full == "" || strings.HasSuffix(full, "*") {
		return
	}
	if alias == "" {
		segs := strings.Split(full, "::")
		alias = segs[len(segs)-1]
	}
	if alias == "self" {
		segs := strings.Split(full, "::")
		if len(segs) >= 2 {
			alias = segs[len(segs)-2]
			full = strings.Join(segs[:len(segs)-1], "::")
		}
	}
	binds[alias] = strings.ReplaceAll(full, "::", ".")
}

func joinRust(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	default:
		return prefix + "::" + path
	}
}

// splitRustList splits a use-list body on top-level commas only.
func splitRustList(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s[start:]) != "" {
		parts = append(parts, s[start:])
	}
	return parts
}
