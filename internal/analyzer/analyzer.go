// Package analyzer walks a Logseq graph, classifies every file's elements,
// keeps the SQLite index in sync with disk, and reconstructs the journal
// timeline from the indexed keys.
package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/graphcfg"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/journal"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/patterns"
	"github.com/starford/ansuz/internal/storage"
)

// Analyzer classifies graph files and maintains the index.
type Analyzer struct {
	catalog *patterns.Catalog
	cfg     *graphcfg.GraphConfig
	pageFmt journal.Format
	fileFmt journal.Format
	logger  *slog.Logger
}

// New builds an analyzer for a graph configured with cfg. The shared
// pattern catalog is reused across analyzers.
func New(cfg *graphcfg.GraphConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		catalog: patterns.Default(),
		cfg:     cfg,
		pageFmt: journal.NewFormat(cfg.JournalPageTitleFormat),
		fileFmt: journal.NewFormat(cfg.JournalFileNameFormat),
		logger:  logger,
	}
}

// PageTitleFormat returns the journal page-title format in effect.
func (a *Analyzer) PageTitleFormat() journal.Format { return a.pageFmt }

// FileResult is the classification of a single graph file.
type FileResult struct {
	Meta         models.FileMeta
	Type         models.FileType
	NameKey      string // lower-cased page name links resolve against
	JournalKey   string // page-title-formatted key, empty for non-journals
	Extraction   *patterns.Extraction
	BuiltinProps []string
	UserProps    []string
}

// Result aggregates one full analysis run.
type Result struct {
	Files    int
	Changed  int
	Removed  int
	Journal  journal.Result
	Dangling []index.DanglingRow
	Summary  models.Summary
}

// AnalyzeFile classifies one file's content and derives its page identity.
func (a *Analyzer) AnalyzeFile(meta models.FileMeta, content string) *FileResult {
	res := &FileResult{
		Meta:       meta,
		Type:       a.fileType(meta.Path),
		Extraction: a.catalog.Classify(content),
	}
	res.NameKey = pageNameKey(meta.Name)

	if res.Type == models.TypeJournal {
		if d, err := a.fileFmt.Parse(meta.Name); err == nil {
			res.JournalKey = a.pageFmt.Format(d)
		} else if d, err := a.pageFmt.Parse(meta.Name); err == nil {
			res.JournalKey = a.pageFmt.Format(d)
		}
		// A journal page is referenced by its page title, not its file name.
		if res.JournalKey != "" {
			res.NameKey = strings.ToLower(res.JournalKey)
		}
	}

	res.BuiltinProps, res.UserProps = splitProperties(res.Extraction.Properties)
	return res
}

// fileType classifies a file by the top-level directory it lives in.
func (a *Analyzer) fileType(path string) models.FileType {
	dir, _, found := strings.Cut(path, "/")
	if !found {
		return models.TypeOther
	}
	switch dir {
	case a.cfg.JournalsDir:
		if a.cfg.JournalsEnabled {
			return models.TypeJournal
		}
		return models.TypeOther
	case a.cfg.PagesDir:
		return models.TypePage
	case a.cfg.WhiteboardsDir:
		if a.cfg.WhiteboardsEnabled {
			return models.TypeWhiteboard
		}
		return models.TypeOther
	case "assets":
		return models.TypeAsset
	default:
		return models.TypeOther
	}
}

// Run brings the index up to date with disk and reconstructs the journal
// timeline:
//   - new and changed files are classified and upserted
//   - files removed from disk are deleted from the index
//   - the timeline is rebuilt from the surviving journal keys, with
//     journal-shaped dangling targets filling the gaps
func (a *Analyzer) Run(store storage.Provider, db *index.DB) (*Result, error) {
	metas, err := store.Scan("")
	if err != nil {
		return nil, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return nil, err
	}

	out := &Result{Files: len(metas)}
	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		data, err := store.Read(m.Path)
		if err != nil {
			a.logger.Warn("analyze: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		cs := checksumOf(data)
		if checksums[m.Path] == cs {
			continue
		}

		fr := a.AnalyzeFile(m, string(data))
		if err := db.UpsertFile(fileRow(fr, cs), elementRows(fr), linkRows(fr.Extraction)); err != nil {
			a.logger.Warn("analyze: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		out.Changed++
		a.logger.Debug("analyze: indexed", slog.String("path", m.Path), slog.String("type", string(fr.Type)))
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteFile(p); err != nil {
				a.logger.Warn("analyze: delete failed", slog.String("path", p), slog.String("error", err.Error()))
				continue
			}
			out.Removed++
			a.logger.Debug("analyze: removed stale", slog.String("path", p))
		}
	}

	if err := a.reconstruct(db, out); err != nil {
		return nil, err
	}
	if err := a.summarize(db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// reconstruct rebuilds the journal timeline from indexed keys and dangling
// targets, then persists it.
func (a *Analyzer) reconstruct(db *index.DB, out *Result) error {
	keys, err := db.JournalKeys()
	if err != nil {
		return err
	}
	dangling, err := db.Dangling()
	if err != nil {
		return err
	}
	out.Dangling = dangling

	// A dangling target counts once per occurrence: a reference made twice
	// can fill two distinct gap days.
	var targets []string
	for _, d := range dangling {
		for i := 0; i < d.Count; i++ {
			targets = append(targets, d.Target)
		}
	}
	out.Journal = journal.Reconstruct(keys, journal.ExtractJournalDates(targets, a.pageFmt), a.pageFmt)

	rows := make([]index.TimelineRow, len(out.Journal.Timeline))
	for i, e := range out.Journal.Timeline {
		rows[i] = index.TimelineRow{
			Date:   e.Date.Format("2006-01-02"),
			Status: e.Status.String(),
		}
	}
	return db.ReplaceTimeline(rows)
}

func (a *Analyzer) summarize(db *index.DB, out *Result) error {
	byType, total, err := db.CountFilesByType()
	if err != nil {
		return err
	}
	elements, err := db.ElementCounts()
	if err != nil {
		return err
	}
	keys, err := db.JournalKeys()
	if err != nil {
		return err
	}
	out.Summary = models.Summary{
		TotalFiles:    total,
		ByType:        byType,
		JournalKeys:   len(keys),
		DanglingLinks: len(out.Dangling),
		MissingDays:   len(out.Journal.Missing),
		TimelineDays:  len(out.Journal.Timeline),
		Elements:      elements,
		AnalyzedAt:    time.Now().UTC(),
	}
	return nil
}

func fileRow(fr *FileResult, cs string) index.FileRow {
	return index.FileRow{
		Path:       fr.Meta.Path,
		Name:       fr.Meta.Name,
		NameKey:    fr.NameKey,
		Type:       fr.Type,
		Checksum:   cs,
		Size:       fr.Meta.Size,
		ModifiedAt: fr.Meta.ModTime,
		JournalKey: fr.JournalKey,
	}
}

// elementRows flattens an extraction into index rows, one per occurrence.
func elementRows(fr *FileResult) []index.ElementRow {
	ex := fr.Extraction
	var rows []index.ElementRow
	add := func(category, name, value string) {
		rows = append(rows, index.ElementRow{Category: category, Name: name, Value: value})
	}
	addAll := func(category, name string, values []string) {
		for _, v := range values {
			add(category, name, v)
		}
	}
	addCount := func(category, name string, n int) {
		for i := 0; i < n; i++ {
			add(category, name, "")
		}
	}

	addCount("content", patterns.Bullet, ex.Bullets)
	addCount("content", patterns.Blockquote, ex.Blockquotes)
	addCount("content", patterns.Flashcard, ex.Flashcards)
	addAll("content", patterns.PageReference, ex.PageReferences)
	addAll("content", patterns.TaggedBacklink, ex.TaggedBacklinks)
	addAll("content", patterns.Tag, ex.Tags)
	addAll("content", patterns.Asset, ex.Assets)
	addAll("content", patterns.Draw, ex.Draws)
	addAll("content", patterns.Reference, ex.References)
	addAll("content", patterns.BlockReference, ex.BlockReferences)
	addAll("content", patterns.DynamicVariable, ex.DynamicVariables)
	addAll("content", patterns.AnyLink, ex.AnyLinks)
	for _, p := range fr.BuiltinProps {
		add("property_builtin", p, ex.PropertyValues[p])
	}
	for _, p := range fr.UserProps {
		add("property_user", p, ex.PropertyValues[p])
	}
	for name, spans := range ex.Macros {
		addAll("macro", name, spans)
	}
	for name, spans := range ex.EmbeddedLinks {
		addAll("embedded_link", name, spans)
	}
	for name, spans := range ex.ExternalLinks {
		addAll("external_link", name, spans)
	}
	for name, spans := range ex.AdvancedCommands {
		addAll("advanced_command", name, spans)
	}
	for name, n := range ex.Code {
		addCount("code", name, n)
	}
	return rows
}

// linkRows collects the outgoing page-name references used for dangling
// link resolution.
func linkRows(ex *patterns.Extraction) []index.LinkRow {
	var rows []index.LinkRow
	for _, t := range ex.PageReferences {
		rows = append(rows, index.LinkRow{Target: t, Kind: "page"})
	}
	for _, t := range ex.TaggedBacklinks {
		rows = append(rows, index.LinkRow{Target: t, Kind: "tagged_backlink"})
	}
	for _, t := range ex.Tags {
		rows = append(rows, index.LinkRow{Target: t, Kind: "tag"})
	}
	return rows
}

// pageNameKey normalizes a file name stem into the lower-cased page name
// Logseq resolves references against: triple lowbars encode namespace
// separators and percent escapes encode reserved characters.
func pageNameKey(name string) string {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, "___", "/")
	if dec, err := url.PathUnescape(key); err == nil {
		key = dec
	}
	return key
}

func checksumOf(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
