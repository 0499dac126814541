package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// goSyntax binds each imported package by its explicit alias or, absent
// one, by the final path segment, so
//
//	import openai "github.com/sashabaranov/go-openai"
//
// resolves openai.NewClient(...) to the full import path. A package whose
// clause name differs from its final path segment (go-openai declares
// package openai) stays unresolved and matches by bare name.
var goSyntax = &Syntax{
	CallKinds:     kinds("call_expression"),
	FunctionKinds: kinds("function_declaration", "method_declaration", "func_literal"),
	StringKinds:   kinds("interpreted_string_literal", "raw_string_literal"),
	CommentKinds:  kinds("comment"),
	ImportKinds:   kinds("import_declaration"),
	Callee: func(n *sitter.Node, src []byte) string {
		return Text(n.ChildByFieldName("function"), src)
	},
	BindImports: bindGoImports,
	FunctionName: func(n *sitter.Node, src []byte) string {
		// func literals have no name
		return nameField(n, src)
	},
}

func bindGoImports(n *sitter.Node, src []byte, binds map[string]string) {
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.Kind() == "import_spec" {
			path := TrimQuotes(fieldText(node, "path", src))
			if path == "" {
				return
			}
			alias := fieldText(node, "name", src)
			if alias == "" || alias == "_" || alias == "." {
				alias = path
				if i := strings.LastIndexByte(path, '/'); i >= 0 {
					alias = path[i+1:]
				}
			}
			binds[alias] = path
			return
		}
		for i := uint(0); i < node.NamedChildCount(); i++ {
			walk(node.NamedChild(i))
		}
	}
	walk(n)
}
