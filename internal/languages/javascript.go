package languages

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaScriptSyntax is shared by JavaScript and TypeScript; the grammars use
// the same node kinds for everything the matcher touches.
//
// Bindings come from ES imports:
//
//	import OpenAI from "openai"
//	import { Configuration, OpenAIApi } from "openai"
//	import * as oa from "openai"
//
// require() assignments are not bound; calls through them still match via
// their literal callee text or literal-substring entries.
var javaScriptSyntax = &Syntax{
	CallKinds:     kinds("call_expression", "new_expression"),
	FunctionKinds: kinds("function_declaration", "method_definition", "generator_function_declaration"),
	StringKinds:   kinds("string", "template_string"),
	CommentKinds:  kinds("comment"),
	ImportKinds:   kinds("import_statement"),
	Callee:        javaScriptCallee,
	BindImports:   bindJavaScriptImports,
	FunctionName:  nameField,
}

func javaScriptCallee(n *sitter.Node, src []byte) string {
	if fn := n.ChildByFieldName("function"); fn != nil {
		return Text(fn, src)
	}
	// new_expression holds its callee under "constructor"
	return Text(n.ChildByFieldName("constructor"), src)
}

func bindJavaScriptImports(n *sitter.Node, src []byte, binds map[string]string) {
	source := TrimQuotes(fieldText(n, "source", src))
	if source == "" {
		return
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		clause := n.NamedChild(i)
		if clause.Kind() != "import_clause" {
			continue
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			spec := clause.NamedChild(j)
			switch spec.Kind() {
			case "identifier":
				// default import: the whole module
				binds[Text(spec, src)] = source
			case "namespace_import":
				for k := uint(0); k < spec.NamedChildCount(); k++ {
					if id := spec.NamedChild(k); id.Kind() == "identifier" {
						binds[Text(id, src)] = source
					}
				}
			case "named_imports":
				for k := uint(0); k < spec.NamedChildCount(); k++ {
					is := spec.NamedChild(k)
					if is.Kind() != "import_specifier" {
						continue
					}
					name := fieldText(is, "name", src)
					alias := fieldText(is, "alias", src)
					if alias == "" {
						alias = name
					}
					if name != "" {
						binds[alias] = source + "." + name
					}
				}
			}
		}
	}
}
