// Package matcher locates AI/LLM call sites in a parsed syntax tree and
// extracts the local context audit rules need.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/llmscan/internal/catalog"
	"github.com/jenian/llmscan/internal/languages"
)

// Span is a 1-based line/column range within a source file.
type Span struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartCol, s.EndLine, s.EndCol)
}

// Less orders spans by start position, then end position.
func (s Span) Less(o Span) bool {
	if s.StartLine != o.StartLine {
		return s.StartLine < o.StartLine
	}
	if s.StartCol != o.StartCol {
		return s.StartCol < o.StartCol
	}
	if s.EndLine != o.EndLine {
		return s.EndLine < o.EndLine
	}
	return s.EndCol < o.EndCol
}

// Match is one located call site (or import / literal occurrence)
// corresponding to a wrapper identity. Two Matches are equal iff
// (File, Span, Wrapper) are equal; that identity anchors baseline diffs.
type Match struct {
	File    string `json:"file"`
	Span    Span   `json:"span"`
	Wrapper string `json:"wrapper"`
	Text    string `json:"text"`
	// Model is the literal model argument at the call site, when present
	// (e.g. model="gpt-4"). Used for pricing and audit rules.
	Model string `json:"model,omitempty"`
}

// Located pairs a Match with the node that produced it, for context
// extraction within the same file's processing. The node must not outlive
// the file's syntax tree.
type Located struct {
	Match
	Kind catalog.MatchKind
	node *sitter.Node
}

// Matcher walks one file's syntax tree against the pattern catalog. A
// Matcher carries per-file traversal state (import bindings) and must not be
// reused across files.
type Matcher struct {
	lang    string
	syntax  *languages.Syntax
	entries []catalog.Entry
	binds   map[string]string
}

// New builds a matcher for one file of the given language tag.
func New(lang string) (*Matcher, error) {
	syntax := languages.ForLanguage(lang)
	if syntax == nil {
		return nil, fmt.Errorf("no syntax table for language: %s", lang)
	}
	return &Matcher{
		lang:    lang,
		syntax:  syntax,
		entries: catalog.EntriesFor(lang),
		binds:   make(map[string]string),
	}, nil
}

var modelArgRe = regexp.MustCompile(`model\s*[:=]\s*["']([^"']+)["']`)

// FindMatches traverses the tree depth-first in document order and returns
// every call site, import, and literal occurrence matching a catalog entry.
// The first applicable entry wins per node, so a call site is never counted
// under two wrapper identities. Error nodes are skipped, not failed on.
func (m *Matcher) FindMatches(tree *sitter.Tree, src []byte, file string) []Located {
	var out []Located
	root := tree.RootNode()
	if root == nil {
		return nil
	}
	m.walk(root, src, file, &out)
	return out
}

func (m *Matcher) walk(n *sitter.Node, src []byte, file string, out *[]Located) {
	kind := n.Kind()

	if n.IsError() || n.IsMissing() {
		// malformed region: skip the whole subtree
		return
	}

	switch {
	case m.syntax.StringKinds[kind]:
		m.matchLiteral(n, src, file, false, out)
		return
	case m.syntax.CommentKinds[kind]:
		m.matchLiteral(n, src, file, true, out)
		return
	case m.syntax.ImportKinds[kind]:
		m.syntax.BindImports(n, src, m.binds)
		m.matchImport(n, src, file, out)
		// imports can still contain string literals worth scanning, fall
		// through to children
	case m.syntax.CallKinds[kind]:
		// descend afterwards regardless: nested calls and literal arguments
		// below a matched call are matched independently
		m.matchCall(n, src, file, out)
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		m.walk(n.NamedChild(i), src, file, out)
	}
}

// QualifiedName resolves a callee expression to its qualified dotted name by
// substituting the first segment through the import bindings recorded so far
// in this traversal. Resolution is local-only: aliases re-exported by other
// modules are not chased.
func (m *Matcher) QualifiedName(callee string) string {
	callee = strings.Join(strings.Fields(callee), "")
	first, rest := callee, ""
	if i := strings.IndexByte(callee, '.'); i >= 0 {
		first, rest = callee[:i], callee[i:]
	}
	if full, ok := m.binds[first]; ok && full != first {
		return full + rest
	}
	return callee
}

func (m *Matcher) matchCall(n *sitter.Node, src []byte, file string, out *[]Located) bool {
	callee := m.syntax.Callee(n, src)
	if callee == "" {
		return false
	}
	qualified := m.QualifiedName(callee)

	for _, e := range m.entries {
		if !e.MatchesQualified(qualified) {
			continue
		}
		match := Match{
			File:    file,
			Span:    spanOf(n),
			Wrapper: e.Wrapper,
			Text:    callee,
		}
		if sub := modelArgRe.FindStringSubmatch(languages.Text(n, src)); sub != nil {
			match.Model = sub[1]
		}
		*out = append(*out, Located{Match: match, Kind: catalog.KindQualifiedCall, node: n})
		return true
	}
	return false
}

func (m *Matcher) matchImport(n *sitter.Node, src []byte, file string, out *[]Located) {
	raw := languages.Text(n, src)
	for _, e := range m.entries {
		if e.Kind != catalog.KindImport {
			continue
		}
		if !containsWord(raw, e.Value) {
			continue
		}
		*out = append(*out, Located{
			Match: Match{
				File:    file,
				Span:    spanOf(n),
				Wrapper: e.Wrapper,
				Text:    strings.TrimSpace(raw),
			},
			Kind: catalog.KindImport,
			node: n,
		})
		return
	}
}

// matchLiteral applies literal-substring entries to string literals and,
// for entries tagged ScanComments, to comments. Call detection never enters
// these nodes, so commented-out SDK calls are not counted as call sites.
func (m *Matcher) matchLiteral(n *sitter.Node, src []byte, file string, isComment bool, out *[]Located) {
	text := languages.Text(n, src)
	for _, e := range m.entries {
		if e.Kind != catalog.KindLiteral {
			continue
		}
		if isComment && !e.ScanComments {
			continue
		}
		if !strings.Contains(text, e.Value) {
			continue
		}
		*out = append(*out, Located{
			Match: Match{
				File:    file,
				Span:    spanOf(n),
				Wrapper: e.Wrapper,
				Text:    e.Value,
			},
			Kind: catalog.KindLiteral,
			node: n,
		})
		return
	}
}

// containsWord reports whether value occurs in raw delimited by non-name
// characters, so the import value "autogen" does not match "autogenerate".
func containsWord(raw, value string) bool {
	for i := 0; ; {
		j := strings.Index(raw[i:], value)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(value)
		beforeOK := start == 0 || !isNameByte(raw[start-1])
		afterOK := end == len(raw) || !isNameByte(raw[end])
		if beforeOK && afterOK {
			return true
		}
		i = start + 1
	}
}

func isNameByte(b byte) bool {
	return b == '_' || b == '-' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func spanOf(n *sitter.Node) Span {
	start := n.StartPosition()
	end := n.EndPosition()
	return Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}
