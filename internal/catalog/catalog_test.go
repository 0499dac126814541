package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesQualified(t *testing.T) {
	entry := Entry{Wrapper: "openai_api", Kind: KindQualifiedCall, Value: "openai"}

	tests := []struct {
		name      string
		qualified string
		want      bool
	}{
		{"exact", "openai", true},
		{"dotted prefix", "openai.chat.completions.create", true},
		{"dotted suffix", "sdk.openai", true},
		{"interior segment", "vendor.openai.client", true},
		{"slash-delimited segment", "github.com/vendor/openai.Client", true},
		{"substring of a longer segment", "openaiclient.create", false},
		{"segment suffix only by characters", "myopenai.create", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entry.MatchesQualified(tt.qualified))
		})
	}
}

func TestMatchesQualified_ImportPathSegments(t *testing.T) {
	entry := Entry{Wrapper: "openai_api", Kind: KindQualifiedCall, Value: "go-openai"}
	assert.True(t, entry.MatchesQualified("github.com/sashabaranov/go-openai.NewClient"))
	assert.False(t, entry.MatchesQualified("github.com/sashabaranov/go-openai-compat.NewClient"))
}

func TestMatchesQualified_WrongKind(t *testing.T) {
	entry := Entry{Wrapper: "openai_api", Kind: KindLiteral, Value: "openai"}
	assert.False(t, entry.MatchesQualified("openai"))
}

func TestAppliesTo(t *testing.T) {
	scoped := Entry{Wrapper: "langchain", Langs: []string{"python"}, Kind: KindImport, Value: "langchain"}
	assert.True(t, scoped.AppliesTo("python"))
	assert.False(t, scoped.AppliesTo("go"))

	universal := Entry{Wrapper: "model_loader", Kind: KindQualifiedCall, Value: "load_model"}
	assert.True(t, universal.AppliesTo("rust"))
	assert.True(t, universal.AppliesTo("java"))
}

func TestEntriesFor_PreservesDeclarationOrder(t *testing.T) {
	all := Entries()
	py := EntriesFor("python")
	require.NotEmpty(t, py)

	// every python-applicable entry appears, in the same relative order
	i := 0
	for _, e := range all {
		if !e.AppliesTo("python") {
			continue
		}
		require.Less(t, i, len(py))
		assert.Equal(t, e, py[i])
		i++
	}
	assert.Equal(t, len(py), i)
}

func TestEntriesFor_LanguageScoping(t *testing.T) {
	for _, e := range EntriesFor("go") {
		assert.True(t, e.AppliesTo("go"), "entry %s/%s leaked into go", e.Wrapper, e.Value)
	}
	// the java-only service client must not show up for python
	for _, e := range EntriesFor("python") {
		assert.NotEqual(t, "OpenAiService", e.Value)
	}
}

func TestWrappers_DistinctFirstDeclared(t *testing.T) {
	wrappers := Wrappers()
	require.NotEmpty(t, wrappers)
	assert.Equal(t, "openai_api", wrappers[0])

	seen := make(map[string]bool)
	for _, w := range wrappers {
		assert.False(t, seen[w], "wrapper %s listed twice", w)
		seen[w] = true
	}
	assert.Contains(t, wrappers, "langchain")
	assert.Contains(t, wrappers, "model_loader")
}
