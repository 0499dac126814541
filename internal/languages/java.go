package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaSyntax treats both method invocations and constructor calls as call
// sites: new OpenAiService(...) resolves through
// `import com.theokanning.openai.service.OpenAiService;`.
var javaSyntax = &Syntax{
	CallKinds:     kinds("method_invocation", "object_creation_expression"),
	FunctionKinds: kinds("method_declaration", "constructor_declaration"),
	StringKinds:   kinds("string_literal", "text_block"),
	CommentKinds:  kinds("line_comment", "block_comment"),
	ImportKinds:   kinds("import_declaration"),
	Callee:        javaCallee,
	BindImports:   bindJavaImports,
	FunctionName:  nameField,
}

func javaCallee(n *sitter.Node, src []byte) string {
	switch n.Kind() {
	case "method_invocation":
		object := fieldText(n, "object", src)
		name := fieldText(n, "name", src)
		if object == "" {
			return name
		}
		return object + "." + name
	case "object_creation_expression":
		return fieldText(n, "type", src)
	}
	return ""
}

func bindJavaImports(n *sitter.Node, src []byte, binds map[string]string) {
	// import a.b.C; import static a.b.C.m; import a.b.*;
	decl := strings.TrimSpace(Text(n, src))
	decl = strings.TrimPrefix(decl, "import ")
	decl = strings.TrimPrefix(decl, "static ")
	decl = strings.TrimSuffix(decl, ";")
	decl = strings.TrimSpace(decl)
	if decl == "" || strings.HasSuffix(decl, ".*") {
		return
	}
	segs := strings.Split(decl, ".")
	binds[segs[len(segs)-1]] = decl
}
