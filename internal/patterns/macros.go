package patterns

import "github.com/dlclark/regexp2"

// Double-curly macro element names.
const (
	MacroAll         = "macro"
	Embed            = "embed"
	PageEmbed        = "page_embed"
	BlockEmbed       = "block_embed"
	NamespaceQuery   = "namespace_query"
	Card             = "card"
	Cloze            = "cloze"
	SimpleQuery      = "simple_query"
	QueryFunction    = "query_function"
	EmbedVideoURL    = "video"
	EmbedTweet       = "tweet"
	YouTubeTimestamp = "youtube_timestamp"
	Renderer         = "renderer"
)

// CompileMacros builds the {{...}} matchers, all non-greedy up to the first
// closing braces. Embed sub-forms require their inner bracket or paren form
// to be closed before the outer braces.
func CompileMacros() map[string]*regexp2.Regexp {
	var ic regexp2.RegexOptions = regexp2.IgnoreCase
	return map[string]*regexp2.Regexp{
		MacroAll:         mustCompile(`\{\{.*?\}\}`, ic),
		Embed:            mustCompile(`\{\{embed .*?\}\}`, ic),
		PageEmbed:        mustCompile(`\{\{embed \[\[.*?\]\]\}\}`, ic),
		BlockEmbed:       mustCompile(`\{\{embed \(\(`+uuidShape+`\)\)\}\}`, ic),
		NamespaceQuery:   mustCompile(`\{\{namespace .*?\}\}`, ic),
		Card:             mustCompile(`\{\{cards .*?\}\}`, ic),
		Cloze:            mustCompile(`\{\{cloze .*?\}\}`, ic),
		SimpleQuery:      mustCompile(`\{\{query .*?\}\}`, ic),
		QueryFunction:    mustCompile(`\{\{function .*?\}\}`, ic),
		EmbedVideoURL:    mustCompile(`\{\{video .*?\}\}`, ic),
		EmbedTweet:       mustCompile(`\{\{tweet .*?\}\}`, ic),
		YouTubeTimestamp: mustCompile(`\{\{youtube-timestamp .*?\}\}`, ic),
		Renderer:         mustCompile(`\{\{renderer .*?\}\}`, ic),
	}
}
