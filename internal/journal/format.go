// Package journal parses journal keys and reconstructs the continuous daily
// timeline implied by a graph's journal notes.
package journal

import (
	"regexp"
	"strings"
	"time"
)

// DefaultPageTitleFormat is the journal page title format Logseq ships with:
// 4-digit year, 2-digit month, 2-digit day, full weekday name.
const DefaultPageTitleFormat = "yyyy-MM-dd EEEE"

// DefaultFileNameFormat names journal files on disk.
const DefaultFileNameFormat = "yyyy_MM_dd"

// formatTokens maps Logseq date-format tokens to Go reference-time layouts.
// Longest token wins at each position; unrecognized characters pass through
// verbatim.
var formatTokens = []struct {
	token  string
	layout string
}{
	{"yyyy", "2006"},
	{"xxxx", "2006"},
	{"yy", "06"},
	{"xx", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"do", "2"},
	{"dd", "02"},
	{"d", "2"},
	{"EEEE", "Monday"},
	{"EEE", "Mon"},
	{"EE", "Mon"},
	{"E", "Mon"},
	{"HH", "15"},
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"a", "pm"},
	{"A", "PM"},
	{"ZZ", "-0700"},
	{"Z", "-0700"},
}

// ordinalRe strips the st/nd/rd/th suffix after a day number. Anchoring on
// the digits keeps month and weekday names ("August", "Monday") intact.
var ordinalRe = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)\b`)

// ordinalMarker sits after the day number in the render layout; time.Format
// copies bytes it does not recognize, so Format can splice the suffix in.
const ordinalMarker = "\x00"

// Format converts journal key strings to dates and back, configured from a
// Logseq date-format string.
type Format struct {
	source  string
	layout  string
	render  string
	ordinal bool
}

// NewFormat translates a Logseq token format (e.g. "yyyy-MM-dd EEEE") into
// a Format backed by the equivalent Go layout. The ordinal day token "do"
// has no layout equivalent; its suffix is stripped before parsing and
// re-attached when rendering.
func NewFormat(tokens string) Format {
	var layout, render strings.Builder
	ordinal := false
	i := 0
	for i < len(tokens) {
		matched := false
		for _, t := range formatTokens {
			if strings.HasPrefix(tokens[i:], t.token) {
				layout.WriteString(t.layout)
				render.WriteString(t.layout)
				if t.token == "do" {
					render.WriteString(ordinalMarker)
					ordinal = true
				}
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			layout.WriteByte(tokens[i])
			render.WriteByte(tokens[i])
			i++
		}
	}
	return Format{source: tokens, layout: layout.String(), render: render.String(), ordinal: ordinal}
}

// Layout exposes the derived Go layout.
func (f Format) Layout() string { return f.layout }

// Source returns the original Logseq token string.
func (f Format) Source() string { return f.source }

// Parse converts a journal key string to its date. A string that does not
// match the format is not a journal reference; the error is a signal to
// exclude it, never to abort.
func (f Format) Parse(key string) (time.Time, error) {
	if f.ordinal {
		key = ordinalRe.ReplaceAllString(key, "$1")
	}
	t, err := time.Parse(f.layout, key)
	if err != nil {
		return time.Time{}, err
	}
	return day(t), nil
}

// Format renders a date as a journal key string.
func (f Format) Format(t time.Time) string {
	out := t.Format(f.render)
	if f.ordinal {
		out = strings.ReplaceAll(out, ordinalMarker, ordinalSuffix(t.Day()))
	}
	return out
}

func ordinalSuffix(d int) string {
	if d >= 11 && d <= 13 {
		return "th"
	}
	switch d % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// day truncates a time to midnight UTC so dates compare by calendar day.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
