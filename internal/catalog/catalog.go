// Package catalog ships the versioned table of AI/LLM framework signatures.
//
// The table is a closed, declarative list: adding a wrapper means adding an
// entry, never touching matcher code. Entries are evaluated in declaration
// order and the first applicable entry wins, so declaration order is part of
// the catalog's contract and output stability.
package catalog

import "strings"

// Version identifies the shipped signature table. Bumped whenever entries
// are added or changed, so reports can record which table produced them.
const Version = "2024.2"

// MatchKind distinguishes how an entry's Value is compared.
type MatchKind string

const (
	// KindQualifiedCall matches against the resolved qualified name of a
	// call site (import bindings applied).
	KindQualifiedCall MatchKind = "qualified-call"
	// KindImport matches against raw import targets.
	KindImport MatchKind = "import"
	// KindLiteral matches a substring anywhere in a string literal, e.g. a
	// provider endpoint URL.
	KindLiteral MatchKind = "literal-substring"
)

// Entry is one AI-framework signature.
type Entry struct {
	// Wrapper is the stable logical identity ("openai_api", "langchain").
	// It is the inventory grouping key and part of baseline identity, so it
	// must never change across tool versions.
	Wrapper string
	// Langs is the language applicability set; empty means every language.
	Langs []string
	Kind  MatchKind
	Value string
	// ScanComments opts a literal-substring entry into comment regions.
	// String literals are always scanned for literal entries; call
	// detection enters neither.
	ScanComments bool
}

// AppliesTo reports whether the entry covers the given language tag.
func (e Entry) AppliesTo(lang string) bool {
	if len(e.Langs) == 0 {
		return true
	}
	for _, l := range e.Langs {
		if l == lang {
			return true
		}
	}
	return false
}

// MatchesQualified reports whether a resolved qualified call name matches a
// qualified-call entry. The value matches as a whole segment prefix,
// suffix, or exact name, so "openai" covers "openai.chat.completions.create"
// and "ChatOpenAI" covers "langchain.llms.ChatOpenAI". Slashes delimit
// segments like dots do, so an import-path-resolved callee such as
// "github.com/sashabaranov/go-openai.NewClient" matches "go-openai".
func (e Entry) MatchesQualified(qualified string) bool {
	if e.Kind != KindQualifiedCall || qualified == "" {
		return false
	}
	q := strings.ReplaceAll(qualified, "/", ".")
	v := e.Value
	return q == v ||
		strings.HasPrefix(q, v+".") ||
		strings.HasSuffix(q, "."+v) ||
		strings.Contains(q, "."+v+".")
}

var py = []string{"python"}
var script = []string{"javascript", "typescript"}
var pyScript = []string{"python", "javascript", "typescript"}

// entries is the shipped signature table, in declaration order.
var entries = []Entry{
	// OpenAI SDKs: python/js clients plus the Go community client.
	{Wrapper: "openai_api", Langs: pyScript, Kind: KindQualifiedCall, Value: "openai"},
	{Wrapper: "openai_api", Langs: script, Kind: KindQualifiedCall, Value: "OpenAI"},
	{Wrapper: "openai_api", Langs: []string{"go"}, Kind: KindQualifiedCall, Value: "go-openai"},
	// go-openai declares package openai, so an unaliased import leaves the
	// callee unresolved as openai.NewClient
	{Wrapper: "openai_api", Langs: []string{"go"}, Kind: KindQualifiedCall, Value: "openai"},
	{Wrapper: "openai_api", Langs: []string{"rust"}, Kind: KindQualifiedCall, Value: "async_openai"},
	{Wrapper: "openai_api", Langs: []string{"java"}, Kind: KindQualifiedCall, Value: "OpenAiService"},
	{Wrapper: "openai_api", Kind: KindLiteral, Value: "api.openai.com", ScanComments: true},

	// Anthropic SDKs.
	{Wrapper: "anthropic_api", Langs: pyScript, Kind: KindQualifiedCall, Value: "anthropic"},
	{Wrapper: "anthropic_api", Langs: script, Kind: KindQualifiedCall, Value: "Anthropic"},
	{Wrapper: "anthropic_api", Kind: KindLiteral, Value: "api.anthropic.com", ScanComments: true},

	// LangChain: match the import surface and the common chain/chat types.
	{Wrapper: "langchain", Langs: pyScript, Kind: KindImport, Value: "langchain"},
	{Wrapper: "langchain", Langs: py, Kind: KindQualifiedCall, Value: "ChatOpenAI"},
	{Wrapper: "langchain", Langs: py, Kind: KindQualifiedCall, Value: "ChatAnthropic"},
	{Wrapper: "langchain", Langs: py, Kind: KindQualifiedCall, Value: "LLMChain"},
	{Wrapper: "langchain", Langs: py, Kind: KindQualifiedCall, Value: "ConversationChain"},

	// Autogen multi-agent framework.
	{Wrapper: "autogen", Langs: py, Kind: KindImport, Value: "autogen"},
	{Wrapper: "autogen", Langs: py, Kind: KindQualifiedCall, Value: "AssistantAgent"},
	{Wrapper: "autogen", Langs: py, Kind: KindQualifiedCall, Value: "UserProxyAgent"},
	{Wrapper: "autogen", Langs: py, Kind: KindQualifiedCall, Value: "GroupChat"},

	// CrewAI agent framework.
	{Wrapper: "crewai", Langs: py, Kind: KindImport, Value: "crewai"},
	{Wrapper: "crewai", Langs: py, Kind: KindQualifiedCall, Value: "crewai.Agent"},
	{Wrapper: "crewai", Langs: py, Kind: KindQualifiedCall, Value: "crewai.Task"},
	{Wrapper: "crewai", Langs: py, Kind: KindQualifiedCall, Value: "crewai.Crew"},

	// Hugging Face transformers.
	{Wrapper: "huggingface", Langs: py, Kind: KindImport, Value: "transformers"},
	{Wrapper: "huggingface", Langs: py, Kind: KindQualifiedCall, Value: "transformers.pipeline"},
	{Wrapper: "huggingface", Langs: py, Kind: KindQualifiedCall, Value: "AutoModel"},
	{Wrapper: "huggingface", Langs: py, Kind: KindQualifiedCall, Value: "AutoTokenizer"},

	// Generic model loading, any language.
	{Wrapper: "model_loader", Kind: KindQualifiedCall, Value: "load_model"},
	{Wrapper: "model_loader", Kind: KindQualifiedCall, Value: "from_pretrained"},
	{Wrapper: "model_loader", Kind: KindQualifiedCall, Value: "load_checkpoint"},
}

// Entries returns every shipped entry in declaration order.
func Entries() []Entry {
	return entries
}

// EntriesFor returns the entries applicable to a language tag, preserving
// declaration order so matching is deterministic across runs.
func EntriesFor(lang string) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.AppliesTo(lang) {
			out = append(out, e)
		}
	}
	return out
}

// Wrappers returns the distinct wrapper identities in first-declared order.
func Wrappers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if !seen[e.Wrapper] {
			seen[e.Wrapper] = true
			out = append(out, e.Wrapper)
		}
	}
	return out
}
