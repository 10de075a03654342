// Package graphcfg extracts the analyzer-relevant settings from a Logseq
// graph's config.edn.
package graphcfg

import (
	"log/slog"

	"github.com/starford/ansuz/internal/edn"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/patterns"
)

// GraphConfig holds the directory names, feature flags, and journal formats
// a graph is configured with.
type GraphConfig struct {
	PagesDir               string
	JournalsDir            string
	WhiteboardsDir         string
	JournalsEnabled        bool
	WhiteboardsEnabled     bool
	JournalPageTitleFormat string
	JournalFileNameFormat  string
	FileNameFormat         string
}

// Defaults returns the settings Logseq assumes when config.edn is silent.
func Defaults() *GraphConfig {
	return &GraphConfig{
		PagesDir:               "pages",
		JournalsDir:            "journals",
		WhiteboardsDir:         "whiteboards",
		JournalsEnabled:        true,
		WhiteboardsEnabled:     true,
		JournalPageTitleFormat: journal.DefaultPageTitleFormat,
		JournalFileNameFormat:  journal.DefaultFileNameFormat,
	}
}

// Parse reads config.edn text. The notation parser is authoritative; when
// the whole document fails to parse, the per-key config patterns serve as a
// textual fallback so a graph with a damaged config still gets analyzed.
func Parse(text string, logger *slog.Logger) *GraphConfig {
	cfg := Defaults()

	v, err := edn.Loads(text)
	if err != nil {
		logger.Warn("graphcfg: config.edn is malformed, using pattern fallback",
			slog.String("error", err.Error()))
		cfg.applyPatterns(text)
		return cfg
	}
	cfg.applyEDN(v)
	return cfg
}

func (c *GraphConfig) applyEDN(v edn.Value) {
	if s, ok := lookupString(v, ":pages-directory"); ok {
		c.PagesDir = s
	}
	if s, ok := lookupString(v, ":journals-directory"); ok {
		c.JournalsDir = s
	}
	if s, ok := lookupString(v, ":whiteboards-directory"); ok {
		c.WhiteboardsDir = s
	}
	if b, ok := lookupBool(v, ":feature/enable-journals?"); ok {
		c.JournalsEnabled = b
	}
	if b, ok := lookupBool(v, ":feature/enable-whiteboards?"); ok {
		c.WhiteboardsEnabled = b
	}
	if s, ok := lookupString(v, ":journal/page-title-format"); ok {
		c.JournalPageTitleFormat = s
	}
	if s, ok := lookupString(v, ":journal/file-name-format"); ok {
		c.JournalFileNameFormat = s
	}
	if s, ok := lookupString(v, ":file/name-format"); ok {
		c.FileNameFormat = s
	} else if sym, ok := lookupSymbol(v, ":file/name-format"); ok {
		c.FileNameFormat = sym
	}
}

// applyPatterns extracts whatever individual keys still match as raw text
// lines.
func (c *GraphConfig) applyPatterns(text string) {
	catalog := patterns.Default()

	first := func(name string) (string, bool) {
		got := patterns.FindAllGroup(catalog.Config[name], text)
		if len(got) == 0 {
			return "", false
		}
		return got[0], true
	}

	if s, ok := first(patterns.PagesDirectory); ok {
		c.PagesDir = s
	}
	if s, ok := first(patterns.JournalsDirectory); ok {
		c.JournalsDir = s
	}
	if s, ok := first(patterns.WhiteboardsDirectory); ok {
		c.WhiteboardsDir = s
	}
	if s, ok := first(patterns.FeatureEnableJournals); ok {
		c.JournalsEnabled = s == "true"
	}
	if s, ok := first(patterns.FeatureEnableWhiteboards); ok {
		c.WhiteboardsEnabled = s == "true"
	}
	if s, ok := first(patterns.JournalPageTitleFormat); ok {
		c.JournalPageTitleFormat = s
	}
	if s, ok := first(patterns.JournalFileNameFormat); ok {
		c.JournalFileNameFormat = s
	}
	if s, ok := first(patterns.FileNameFormat); ok {
		c.FileNameFormat = s
	}
}

func lookupString(v edn.Value, kw string) (string, bool) {
	got, ok := v.Lookup(kw)
	if !ok || got.Kind != edn.KindString {
		return "", false
	}
	return got.Str, true
}

func lookupSymbol(v edn.Value, kw string) (string, bool) {
	got, ok := v.Lookup(kw)
	if !ok || (got.Kind != edn.KindSymbol && got.Kind != edn.KindKeyword) {
		return "", false
	}
	return got.Str, true
}

func lookupBool(v edn.Value, kw string) (bool, bool) {
	got, ok := v.Lookup(kw)
	if !ok || got.Kind != edn.KindBool {
		return false, false
	}
	return got.Bool, true
}
