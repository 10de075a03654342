package patterns

import "github.com/dlclark/regexp2"

// Content element names.
const (
	Bullet          = "bullet"
	PageReference   = "page_reference"
	TaggedBacklink  = "tagged_backlink"
	Tag             = "tag"
	Property        = "property"
	PropertyValue   = "property_value"
	Asset           = "asset"
	Draw            = "draw"
	Blockquote      = "blockquote"
	Flashcard       = "flashcard"
	Reference       = "reference"
	BlockReference  = "block_reference"
	DynamicVariable = "dynamic_variable"
	AnyLink         = "any_link"
)

// uuidShape is the strict 8-4-4-4-12 hex-digit block identifier.
const uuidShape = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

// CompileContent builds the structural-content matchers:
// bullets, page references, tagged backlinks, bare tags, property lines,
// asset and drawing paths, blockquotes, flashcards, block and generic
// parenthetical references, and dynamic variables.
func CompileContent() map[string]*regexp2.Regexp {
	var ic regexp2.RegexOptions = regexp2.IgnoreCase
	var icm regexp2.RegexOptions = regexp2.IgnoreCase | regexp2.Multiline

	return map[string]*regexp2.Regexp{
		// Line starting with a hyphen, optional surrounding whitespace.
		Bullet: mustCompile(`^\s*-\s*`, icm),

		// [[page]] not preceded by # (else it is a tagged backlink).
		PageReference: mustCompile(`(?<!#)\[\[(.+?)\]\]`, ic),

		// #[[page]]; capture stops at the first closing bracket followed by
		// whitespace, another bracket, or end of line.
		TaggedBacklink: mustCompile(`#\[\[([^\]#]+?)\]\](?=\s|\]|$)`, icm),

		// Bare #tag, not the opening of a tagged backlink.
		Tag: mustCompile(`#(?!\[\[)([^\]#\s]+?)(?=\s|$)`, icm),

		// key:: at line start; bullets are not property lines.
		Property: mustCompile(`^(?!\s*-\s)\s*?([A-Za-z0-9_-]+?)(?=::)`, icm),

		// key:: value to end of line.
		PropertyValue: mustCompile(`^(?!\s*-\s)\s*?([A-Za-z0-9_-]+?)::(.*)$`, icm),

		Asset: mustCompile(`assets/(.+)`, ic),

		Draw: mustCompile(`(?<!#)\[\[draws/(.+?)\.excalidraw\]\]`, ic),

		Blockquote: mustCompile(`(?:^|\s)- >.*`, icm),

		Flashcard: mustCompile(`(?:^|\s)- .*(?:#card|\[\[card\]\]).*`, icm),

		// ((...)) excluding the {{embed form.
		Reference: mustCompile(`(?<!\{\{embed )\(\((.*?)\)\)`, ic),

		// ((uuid)) with the strict hex shape.
		BlockReference: mustCompile(`(?<!\{\{embed )\(\(`+uuidShape+`\)\)`, ic),

		DynamicVariable: mustCompile(`<%\s*.*?\s*%>`, ic),

		// Bare URL anywhere in text.
		AnyLink: mustCompile(
			`\b(?:(?:https?|ftp)://(?:\S+(?::\S*)?@)?(?:\d{1,3}(?:\.\d{1,3}){3}|\[[0-9A-F:]+\]|(?:[A-Z0-9-]+\.)+[A-Z]{2,})(?::\d{2,5})?(?:/[^\s]*)?)\b`,
			ic),
	}
}
