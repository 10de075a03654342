package patterns

import "github.com/dlclark/regexp2"

// Embedded-link element names. The leading ! distinguishes embeds from the
// external_link category.
const (
	EmbeddedLink         = "embedded_link"
	EmbeddedLinkInternet = "embedded_link_internet"
	EmbeddedLinkAsset    = "embedded_link_asset"
)

// External-link element names.
const (
	ExternalLink         = "external_link"
	ExternalLinkInternet = "external_link_internet"
	ExternalLinkAlias    = "external_link_alias"
)

// CompileEmbeddedLinks builds the ![label](target) matchers.
func CompileEmbeddedLinks() map[string]*regexp2.Regexp {
	var ic regexp2.RegexOptions = regexp2.IgnoreCase
	return map[string]*regexp2.Regexp{
		EmbeddedLink:         mustCompile(`!\[.*?\]\(.*?\)`, ic),
		EmbeddedLinkInternet: mustCompile(`!\[.*?\]\(http.*?\)`, ic),
		EmbeddedLinkAsset:    mustCompile(`!\[.*?\]\(\.\./assets/.*?\)`, ic),
	}
}

// CompileExternalLinks builds the [label](target) matchers. All three reject
// a preceding ! so that embeds never double-classify.
func CompileExternalLinks() map[string]*regexp2.Regexp {
	var ic regexp2.RegexOptions = regexp2.IgnoreCase
	return map[string]*regexp2.Regexp{
		ExternalLink:         mustCompile(`(?<!!)\[.*?\]\(.*?\)`, ic),
		ExternalLinkInternet: mustCompile(`(?<!!)\[.*?\]\(http.*?\)`, ic),
		// Target itself contains a nested [[...]] or ((...)) reference.
		ExternalLinkAlias: mustCompile(`(?<!!)\[.*?\]\((?:\[\[|\(\().*?(?:\]\]|\)\)).*?\)`, ic),
	}
}
