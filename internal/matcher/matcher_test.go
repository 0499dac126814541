package matcher

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/llmscan/internal/catalog"
	"github.com/jenian/llmscan/internal/parser"
)

var registry = parser.NewRegistry()

func parse(t *testing.T, lang, src string) *sitter.Tree {
	t.Helper()
	tree, err := registry.Parse(lang, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func findAll(t *testing.T, lang, file, src string) []Located {
	t.Helper()
	m, err := New(lang)
	require.NoError(t, err)
	return m.FindMatches(parse(t, lang, src), []byte(src), file)
}

func TestFindMatches_PythonCallWithModel(t *testing.T) {
	src := `import openai

def ask(question):
    validate(question)
    return openai.chat.completions.create(model="gpt-4o-mini", messages=question)
`
	located := findAll(t, "python", "app.py", src)
	require.Len(t, located, 1)

	m := located[0]
	assert.Equal(t, "openai_api", m.Wrapper)
	assert.Equal(t, catalog.KindQualifiedCall, m.Kind)
	assert.Equal(t, "openai.chat.completions.create", m.Text)
	assert.Equal(t, "gpt-4o-mini", m.Model)
	assert.Equal(t, "app.py", m.File)
	assert.Equal(t, 5, m.Span.StartLine)
}

func TestFindMatches_AliasedImportResolved(t *testing.T) {
	src := `import openai as oa

oa.ChatCompletion.create(model="gpt-4")
`
	located := findAll(t, "python", "app.py", src)
	require.Len(t, located, 1)
	assert.Equal(t, "openai_api", located[0].Wrapper)
	assert.Equal(t, "gpt-4", located[0].Model)
}

func TestFindMatches_GoAliasedImportResolved(t *testing.T) {
	src := `package main

import oa "github.com/sashabaranov/go-openai"

func run() {
	client := oa.NewClient("key")
	_ = client
}
`
	located := findAll(t, "go", "main.go", src)
	require.Len(t, located, 1)
	assert.Equal(t, "openai_api", located[0].Wrapper)
	assert.Equal(t, catalog.KindQualifiedCall, located[0].Kind)
	assert.Equal(t, "oa.NewClient", located[0].Text)
	assert.Equal(t, 6, located[0].Span.StartLine)
}

func TestFindMatches_GoUnaliasedPackageName(t *testing.T) {
	// the import binds its final path segment, but the package clause names
	// the package openai, so the callee stays unresolved
	src := `package main

import "github.com/sashabaranov/go-openai"

func run() {
	client := openai.NewClient("key")
	_ = client
}
`
	located := findAll(t, "go", "main.go", src)
	require.Len(t, located, 1)
	assert.Equal(t, "openai_api", located[0].Wrapper)
	assert.Equal(t, catalog.KindQualifiedCall, located[0].Kind)
	assert.Equal(t, "openai.NewClient", located[0].Text)
}

func TestFindMatches_FromImportAndCall(t *testing.T) {
	src := `from langchain.llms import ChatOpenAI

llm = ChatOpenAI(model="gpt-4")
`
	located := findAll(t, "python", "chain.py", src)
	require.Len(t, located, 2)

	// document order: the import first, then the constructor call
	assert.Equal(t, "langchain", located[0].Wrapper)
	assert.Equal(t, catalog.KindImport, located[0].Kind)
	assert.Equal(t, "langchain", located[1].Wrapper)
	assert.Equal(t, catalog.KindQualifiedCall, located[1].Kind)
}

func TestFindMatches_CommentedOutCallNotCounted(t *testing.T) {
	src := `# disabled: openai.chat.completions.create("x")
x = 1
`
	located := findAll(t, "python", "app.py", src)
	assert.Empty(t, located)
}

func TestFindMatches_EndpointLiteralInString(t *testing.T) {
	src := `url = "https://api.openai.com/v1"
`
	located := findAll(t, "python", "cfg.py", src)
	require.Len(t, located, 1)
	assert.Equal(t, "openai_api", located[0].Wrapper)
	assert.Equal(t, catalog.KindLiteral, located[0].Kind)
	assert.Equal(t, "api.openai.com", located[0].Text)
}

func TestFindMatches_EndpointLiteralInComment(t *testing.T) {
	src := `# proxy for api.openai.com
x = 1
`
	located := findAll(t, "python", "cfg.py", src)
	require.Len(t, located, 1)
	assert.Equal(t, "openai_api", located[0].Wrapper)
	assert.Equal(t, catalog.KindLiteral, located[0].Kind)
}

func TestFindMatches_ImportWordBoundary(t *testing.T) {
	// "autogenerate" must not satisfy the "autogen" import signature
	src := `import autogenerate
`
	located := findAll(t, "python", "gen.py", src)
	assert.Empty(t, located)
}

func TestFindMatches_JavaScriptNewExpression(t *testing.T) {
	src := `import OpenAI from "openai";
const client = new OpenAI();
`
	located := findAll(t, "javascript", "client.js", src)
	require.NotEmpty(t, located)
	assert.Equal(t, "openai_api", located[0].Wrapper)
}

func TestFindMatches_FirstEntryWinsPerCall(t *testing.T) {
	// from_pretrained is both a huggingface idiom and a model_loader
	// signature; the call must be counted exactly once
	src := `from transformers import AutoModel

m = AutoModel.from_pretrained("bert-base-uncased")
`
	located := findAll(t, "python", "model.py", src)

	calls := 0
	for _, l := range located {
		if l.Kind == catalog.KindQualifiedCall {
			calls++
		}
	}
	assert.Equal(t, 1, calls)
}

func TestQualifiedName(t *testing.T) {
	m, err := New("python")
	require.NoError(t, err)
	m.binds["oa"] = "openai"

	assert.Equal(t, "openai.chat.create", m.QualifiedName("oa.chat.create"))
	assert.Equal(t, "openai", m.QualifiedName("oa"))
	assert.Equal(t, "requests.get", m.QualifiedName("requests.get"))
	assert.Equal(t, "openai.chat.create", m.QualifiedName("oa . chat . create"))
}

func TestContainsWord(t *testing.T) {
	assert.True(t, containsWord("from langchain.llms import x", "langchain"))
	assert.True(t, containsWord("import crewai", "crewai"))
	assert.False(t, containsWord("import autogenerate", "autogen"))
	assert.False(t, containsWord("mylangchainfork", "langchain"))
}

func TestFindMatches_MalformedRegionSkipped(t *testing.T) {
	src := `def broken(:
openai.chat.completions.create(
x = "https://api.openai.com/v1"
`
	m, err := New("python")
	require.NoError(t, err)
	tree := parse(t, "python", src)

	// must not panic; whatever parses cleanly is still matched
	assert.NotPanics(t, func() {
		m.FindMatches(tree, []byte(src), "broken.py")
	})
}
