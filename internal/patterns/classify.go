package patterns

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Extraction is the classified element inventory of one note's text.
// Reference-style targets (pages, tags, properties) are lower-cased for
// name resolution; raw spans are kept for macro-like elements.
type Extraction struct {
	Bullets          int
	PageReferences   []string
	TaggedBacklinks  []string
	Tags             []string
	Properties       []string
	PropertyValues   map[string]string
	Assets           []string
	Draws            []string
	Blockquotes      int
	Flashcards       int
	References       []string
	BlockReferences  []string
	DynamicVariables []string
	AnyLinks         []string
	Macros           map[string][]string
	EmbeddedLinks    map[string][]string
	ExternalLinks    map[string][]string
	AdvancedCommands map[string][]string
	Code             map[string]int
}

// macroOrder lists the double-curly sub-forms narrowest first: the embed
// sub-forms are strict subsets of the generic embed, which is a subset of
// the generic macro.
var macroOrder = []string{
	PageEmbed,
	BlockEmbed,
	Embed,
	NamespaceQuery,
	Card,
	Cloze,
	SimpleQuery,
	QueryFunction,
	EmbedVideoURL,
	EmbedTweet,
	YouTubeTimestamp,
	Renderer,
}

// advCommandOrder lists command sub-forms narrowest first: the export
// sub-variants are keyed on the word following EXPORT and must be checked
// before the bare export matcher.
var advCommandOrder = []string{
	AdvCommandExportASCII,
	AdvCommandExportLatex,
	AdvCommandExport,
	AdvCommandCaution,
	AdvCommandCenter,
	AdvCommandComment,
	AdvCommandExample,
	AdvCommandImportant,
	AdvCommandNote,
	AdvCommandPinned,
	AdvCommandQuery,
	AdvCommandQuote,
	AdvCommandTip,
	AdvCommandVerse,
	AdvCommandWarning,
}

// embeddedLinkOrder and externalLinkOrder classify link spans narrowest
// first; unmatched spans fall back to the generic element.
var (
	embeddedLinkOrder = []string{EmbeddedLinkInternet, EmbeddedLinkAsset}
	externalLinkOrder = []string{ExternalLinkInternet, ExternalLinkAlias}
)

// Classify extracts every element from text, applying the catalog's
// precedence contract: tagged backlinks before bare tags, block references
// before generic references, embed sub-forms before generic embeds, and
// embedded links before external links. Each matched span is assigned to
// exactly one element.
func (c *Catalog) Classify(text string) *Extraction {
	ex := &Extraction{
		PropertyValues:   make(map[string]string),
		Macros:           make(map[string][]string),
		EmbeddedLinks:    make(map[string][]string),
		ExternalLinks:    make(map[string][]string),
		AdvancedCommands: make(map[string][]string),
		Code:             make(map[string]int),
	}

	ex.Bullets = len(FindAll(c.Content[Bullet], text))
	ex.Blockquotes = len(FindAll(c.Content[Blockquote], text))
	ex.Flashcards = len(FindAll(c.Content[Flashcard], text))

	// Tagged backlinks are matched before bare tags; the tag matcher's
	// lookahead already rejects the #[[ opening, so the same span is never
	// counted twice.
	ex.TaggedBacklinks = lowerAll(FindAllGroup(c.Content[TaggedBacklink], text))
	ex.Tags = lowerAll(FindAllGroup(c.Content[Tag], text))

	ex.Draws = lowerAll(FindAllGroup(c.Content[Draw], text))
	ex.PageReferences = lowerAll(FindAllGroup(c.Content[PageReference], text))
	ex.Assets = FindAllGroup(c.Content[Asset], text)
	ex.DynamicVariables = FindAllText(c.Content[DynamicVariable], text)
	ex.AnyLinks = FindAllText(c.Content[AnyLink], text)

	ex.Properties = lowerAll(FindAllGroup(c.Content[Property], text))
	for _, m := range FindAll(c.Content[PropertyValue], text) {
		if len(m.Groups) == 2 {
			ex.PropertyValues[strings.ToLower(m.Groups[0])] = strings.TrimSpace(m.Groups[1])
		}
	}

	// Block references are the narrow subset of generic references.
	for _, span := range FindAllText(c.Content[Reference], text) {
		if matches(c.Content[BlockReference], span) {
			ex.BlockReferences = append(ex.BlockReferences, span)
		} else {
			ex.References = append(ex.References, span)
		}
	}

	for _, span := range FindAllText(c.Macros[MacroAll], text) {
		name := c.classifySpan(c.Macros, macroOrder, span, MacroAll)
		ex.Macros[name] = append(ex.Macros[name], span)
	}
	for _, span := range FindAllText(c.EmbeddedLinks[EmbeddedLink], text) {
		name := c.classifySpan(c.EmbeddedLinks, embeddedLinkOrder, span, EmbeddedLink)
		ex.EmbeddedLinks[name] = append(ex.EmbeddedLinks[name], span)
	}
	for _, span := range FindAllText(c.ExternalLinks[ExternalLink], text) {
		name := c.classifySpan(c.ExternalLinks, externalLinkOrder, span, ExternalLink)
		ex.ExternalLinks[name] = append(ex.ExternalLinks[name], span)
	}
	for _, span := range FindAllText(c.AdvancedCommands[AdvCommandAll], text) {
		name := c.classifySpan(c.AdvancedCommands, advCommandOrder, span, AdvCommandAll)
		ex.AdvancedCommands[name] = append(ex.AdvancedCommands[name], span)
	}

	for name, re := range c.Code {
		if n := len(FindAll(re, text)); n > 0 {
			ex.Code[name] = n
		}
	}

	return ex
}

// classifySpan assigns a span to the first sub-form matcher that accepts
// it, falling back to the umbrella element name.
func (c *Catalog) classifySpan(category map[string]*regexp2.Regexp, order []string, span, fallback string) string {
	for _, name := range order {
		if matches(category[name], span) {
			return name
		}
	}
	return fallback
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
