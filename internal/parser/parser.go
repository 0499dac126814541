package parser

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrUnsupportedLanguage is returned when no grammar is registered for the
// requested language tag. Files hitting this are skipped, never fatal.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrMalformed is returned only when the grammar could not produce any tree
// at all. Trees containing internal ERROR nodes are returned as-is; callers
// must tolerate and skip over error regions.
var ErrMalformed = errors.New("malformed source: no parse tree produced")

// Registry owns one Tree-Sitter grammar per supported language. Grammars are
// loaded lazily and cached; they are immutable once loaded and safe to share.
type Registry struct {
	languages map[string]*sitter.Language
	mu        sync.RWMutex
}

// NewRegistry creates an empty grammar registry.
func NewRegistry() *Registry {
	return &Registry{
		languages: make(map[string]*sitter.Language),
	}
}

// getLanguage returns a language grammar for the given language, loading it if needed
func (r *Registry) getLanguage(lang string) (*sitter.Language, error) {
	r.mu.RLock()
	if language, ok := r.languages[lang]; ok {
		r.mu.RUnlock()
		return language, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if language, ok := r.languages[lang]; ok {
		return language, nil
	}

	language, err := loadLanguage(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
	}

	r.languages[lang] = language
	return language, nil
}

// Parse parses a byte buffer under the grammar registered for lang and
// returns the syntax tree. The caller owns the tree and must Close it once
// matches are extracted; trees are never shared across files.
//
// A new sitter.Parser is created per call: Tree-Sitter parsers are not
// thread-safe when used concurrently, and files are parsed in parallel.
func (r *Registry) Parse(lang string, content []byte) (*sitter.Tree, error) {
	language, err := r.getLanguage(lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	tsParser.SetLanguage(language)

	tree := tsParser.Parse(content, nil)
	if tree == nil || tree.RootNode() == nil {
		if tree != nil {
			tree.Close()
		}
		return nil, fmt.Errorf("%w (%s)", ErrMalformed, lang)
	}

	return tree, nil
}

// Supported reports whether a grammar is registered for the language tag.
func (r *Registry) Supported(lang string) bool {
	_, err := r.getLanguage(lang)
	return err == nil
}
