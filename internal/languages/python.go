package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonSyntax covers call sites like client.chat.completions.create(...),
// ChatOpenAI(...), and bindings from both import forms:
//
//	import openai
//	import openai as oa
//	from langchain.llms import ChatOpenAI
//	from transformers import pipeline as pl
var pythonSyntax = &Syntax{
	CallKinds:     kinds("call"),
	FunctionKinds: kinds("function_definition"),
	StringKinds:   kinds("string", "concatenated_string"),
	CommentKinds:  kinds("comment"),
	ImportKinds:   kinds("import_statement", "import_from_statement"),
	Callee: func(n *sitter.Node, src []byte) string {
		return Text(n.ChildByFieldName("function"), src)
	},
	BindImports:  bindPythonImports,
	FunctionName: nameField,
}

func bindPythonImports(n *sitter.Node, src []byte, binds map[string]string) {
	switch n.Kind() {
	case "import_statement":
		// import a.b [as c]
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			switch child.Kind() {
			case "dotted_name":
				path := Text(child, src)
				binds[firstSegment(path)] = firstSegment(path)
				binds[path] = path
			case "aliased_import":
				path := fieldText(child, "name", src)
				alias := fieldText(child, "alias", src)
				if alias != "" && path != "" {
					binds[alias] = path
				}
			}
		}
	case "import_from_statement":
		// from a.b import c [as d], e
		module := fieldText(n, "module_name", src)
		if module == "" {
			return
		}
		mod := n.ChildByFieldName("module_name")
		for i := uint(0); i < n.NamedChildCount(); i++ {
			child := n.NamedChild(i)
			if mod != nil && child.StartByte() == mod.StartByte() {
				continue
			}
			switch child.Kind() {
			case "dotted_name":
				name := Text(child, src)
				binds[name] = module + "." + name
			case "aliased_import":
				name := fieldText(child, "name", src)
				alias := fieldText(child, "alias", src)
				if alias != "" && name != "" {
					binds[alias] = module + "." + name
				}
			case "wildcard_import":
				// from x import * binds nothing resolvable locally
			}
		}
	}
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}
