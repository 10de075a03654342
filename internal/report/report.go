// Package report renders an analysis run into plain-text files, one topic
// per file, one entry per line.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/starford/ansuz/internal/analyzer"
	"github.com/starford/ansuz/internal/journal"
)

// Report file names.
const (
	FileTimeline       = "complete_timeline.txt"
	FileProcessedKeys  = "processed_keys.txt"
	FileMissingKeys    = "missing_keys.txt"
	FileDangling       = "dangling_journals.txt"
	FileDanglingPast   = "dangling_journals_past.txt"
	FileDanglingFuture = "dangling_journals_future.txt"
	FileDanglingLinks  = "dangling_links.txt"
	FileTimelineStats  = "timeline_stats.txt"
	FileSummary        = "summary.txt"
)

// Write renders every report for one analysis run into dir. The past and
// future dangling files are only written when they have entries.
func Write(dir string, res *analyzer.Result, pageFmt journal.Format) error {
	w := NewWriter(dir)

	timeline := make([]string, len(res.Journal.Timeline))
	var processed []string
	for i, e := range res.Journal.Timeline {
		timeline[i] = fmt.Sprintf("%s\t%s", pageFmt.Format(e.Date), e.Status)
		if e.Status == journal.Present {
			processed = append(processed, pageFmt.Format(e.Date))
		}
	}

	files := map[string][]string{
		FileTimeline:      timeline,
		FileProcessedKeys: processed,
		FileMissingKeys:   keyLines(res.Journal.Missing, pageFmt),
		FileDangling:      keyLines(res.Journal.DanglingRemaining, pageFmt),
		FileDanglingLinks: danglingLinkLines(res),
		FileTimelineStats: statsLines(res),
		FileSummary:       summaryLines(res),
	}
	if len(res.Journal.PastDangling) > 0 {
		files[FileDanglingPast] = keyLines(res.Journal.PastDangling, pageFmt)
	}
	if len(res.Journal.FutureDangling) > 0 {
		files[FileDanglingFuture] = keyLines(res.Journal.FutureDangling, pageFmt)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := w.WriteLines(name, files[name]); err != nil {
			return err
		}
	}
	return nil
}

func keyLines(dates []time.Time, f journal.Format) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = f.Format(d)
	}
	return out
}

func danglingLinkLines(res *analyzer.Result) []string {
	out := make([]string, len(res.Dangling))
	for i, d := range res.Dangling {
		out[i] = fmt.Sprintf("%s\t%d", d.Target, d.Count)
	}
	return out
}

func statsLines(res *analyzer.Result) []string {
	var out []string
	out = append(out, "timeline:")
	out = append(out, statLines(res.Journal.TimelineStats)...)
	out = append(out, "dangling:")
	out = append(out, statLines(res.Journal.DanglingStats)...)
	return out
}

func statLines(s *journal.Stats) []string {
	if s == nil {
		return []string{"  (empty)"}
	}
	return []string{
		fmt.Sprintf("  first: %s", s.First.Format("2006-01-02")),
		fmt.Sprintf("  last: %s", s.Last.Format("2006-01-02")),
		fmt.Sprintf("  days: %d", s.Days),
		fmt.Sprintf("  weeks: %.2f", s.Weeks),
		fmt.Sprintf("  months: %.2f", s.Months),
		fmt.Sprintf("  years: %.2f", s.Years),
	}
}

func summaryLines(res *analyzer.Result) []string {
	s := res.Summary
	out := []string{
		fmt.Sprintf("analyzed_at: %s", s.AnalyzedAt.Format(time.RFC3339)),
		fmt.Sprintf("total_files: %d", s.TotalFiles),
	}
	for _, typ := range sortedKeys(s.ByType) {
		out = append(out, fmt.Sprintf("files_%s: %d", typ, s.ByType[typ]))
	}
	out = append(out,
		fmt.Sprintf("journal_keys: %d", s.JournalKeys),
		fmt.Sprintf("timeline_days: %d", s.TimelineDays),
		fmt.Sprintf("missing_days: %d", s.MissingDays),
		fmt.Sprintf("dangling_links: %d", s.DanglingLinks),
	)
	for _, name := range sortedKeys(s.Elements) {
		out = append(out, fmt.Sprintf("elements_%s: %d", name, s.Elements[name]))
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
