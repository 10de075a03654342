// Package patterns holds the compiled pattern catalog that classifies raw
// note text into Logseq semantic elements.
//
// The catalog is organized into fixed categories (content, embedded links,
// external links, double-curly macros, advanced commands, configuration
// lines, code spans). Each category is a map from element name to a compiled
// matcher. Matchers are compiled with github.com/dlclark/regexp2 because the
// reference patterns rely on lookbehind and lookahead assertions that the
// standard library engine cannot express.
//
// A Catalog is read-only after construction and safe for unsynchronized
// concurrent reads.
package patterns

import (
	"sync"

	"github.com/dlclark/regexp2"
)

// Category names the six fixed pattern groupings plus the code group.
type Category string

// Catalog categories.
const (
	CategoryContent         Category = "content"
	CategoryEmbeddedLink    Category = "embedded_link"
	CategoryExternalLink    Category = "external_link"
	CategoryMacro           Category = "macro"
	CategoryAdvancedCommand Category = "advanced_command"
	CategoryConfig          Category = "config"
	CategoryCode            Category = "code"
)

// Catalog is the full set of compiled matchers, grouped by category.
type Catalog struct {
	Content          map[string]*regexp2.Regexp
	EmbeddedLinks    map[string]*regexp2.Regexp
	ExternalLinks    map[string]*regexp2.Regexp
	Macros           map[string]*regexp2.Regexp
	AdvancedCommands map[string]*regexp2.Regexp
	Config           map[string]*regexp2.Regexp
	Code             map[string]*regexp2.Regexp
}

// New compiles every category into a fresh catalog. Compilation is
// deterministic; repeated calls produce functionally equivalent catalogs.
func New() *Catalog {
	return &Catalog{
		Content:          CompileContent(),
		EmbeddedLinks:    CompileEmbeddedLinks(),
		ExternalLinks:    CompileExternalLinks(),
		Macros:           CompileMacros(),
		AdvancedCommands: CompileAdvancedCommands(),
		Config:           CompileConfig(),
		Code:             CompileCode(),
	}
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog, compiled on first use and shared
// read-only by every extraction call.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New()
	})
	return defaultCatalog
}

// Lookup returns the named matcher from a category, or nil.
func (c *Catalog) Lookup(cat Category, name string) *regexp2.Regexp {
	switch cat {
	case CategoryContent:
		return c.Content[name]
	case CategoryEmbeddedLink:
		return c.EmbeddedLinks[name]
	case CategoryExternalLink:
		return c.ExternalLinks[name]
	case CategoryMacro:
		return c.Macros[name]
	case CategoryAdvancedCommand:
		return c.AdvancedCommands[name]
	case CategoryConfig:
		return c.Config[name]
	case CategoryCode:
		return c.Code[name]
	}
	return nil
}

// Match is one occurrence of a pattern in the searched text.
type Match struct {
	Text   string   // whole matched span
	Groups []string // capture groups, in order (may be empty)
}

// FindAll runs the matcher over text and returns every occurrence. regexp2
// exposes only single-match iteration, so this is the catalog's standard
// query operation.
func FindAll(re *regexp2.Regexp, text string) []Match {
	var out []Match
	m, err := re.FindStringMatch(text)
	for err == nil && m != nil {
		match := Match{Text: m.String()}
		groups := m.Groups()
		for _, g := range groups[1:] {
			match.Groups = append(match.Groups, g.String())
		}
		out = append(out, match)
		m, err = re.FindNextMatch(m)
	}
	return out
}

// FindAllText returns just the whole matched spans.
func FindAllText(re *regexp2.Regexp, text string) []string {
	matches := FindAll(re, text)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Text)
	}
	return out
}

// FindAllGroup returns the first capture group of every occurrence; matches
// without groups contribute their whole span.
func FindAllGroup(re *regexp2.Regexp, text string) []string {
	matches := FindAll(re, text)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m.Groups) > 0 {
			out = append(out, m.Groups[0])
		} else {
			out = append(out, m.Text)
		}
	}
	return out
}

// matches reports whether re matches anywhere in text, swallowing the
// regexp2 timeout error (no timeouts are configured).
func matches(re *regexp2.Regexp, text string) bool {
	ok, err := re.MatchString(text)
	return err == nil && ok
}

func mustCompile(pattern string, opts regexp2.RegexOptions) *regexp2.Regexp {
	return regexp2.MustCompile(pattern, opts)
}
