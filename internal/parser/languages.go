package parser

import (
	"fmt"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// loadLanguage loads the Tree-Sitter grammar for the given language tag.
func loadLanguage(lang string) (*sitter.Language, error) {
	switch lang {
	case "javascript":
		return wrapGrammar(lang, tree_sitter_javascript.Language())
	case "typescript":
		// TSX files are detected as "typescript" too; the TypeScript grammar
		// handles both well enough for call-site matching.
		return wrapGrammar(lang, tree_sitter_typescript.LanguageTypescript())
	case "go":
		return wrapGrammar(lang, tree_sitter_go.Language())
	case "python":
		return wrapGrammar(lang, tree_sitter_python.Language())
	case "rust":
		return wrapGrammar(lang, tree_sitter_rust.Language())
	case "java":
		return wrapGrammar(lang, tree_sitter_java.Language())
	default:
		return nil, fmt.Errorf("no grammar for language: %s", lang)
	}
}

func wrapGrammar(lang string, ptr unsafe.Pointer) (*sitter.Language, error) {
	if ptr == nil {
		return nil, fmt.Errorf("failed to load %s grammar", lang)
	}
	return sitter.NewLanguage(ptr), nil
}
