package journal

import (
	"math"
	"sort"
	"time"
)

// Status classifies one day of the reconstructed timeline.
type Status int

const (
	// Present days are backed by a journal file.
	Present Status = iota
	// Missing days have no file and no dangling reference.
	Missing
	// FilledByDangling days have no file but were referenced elsewhere; the
	// reference is consumed from the dangling set during reconstruction.
	FilledByDangling
)

// String returns the report label for a status.
func (s Status) String() string {
	switch s {
	case Present:
		return "present"
	case Missing:
		return "missing"
	case FilledByDangling:
		return "filled_by_dangling"
	}
	return "unknown"
}

// Entry is one calendar day of the timeline.
type Entry struct {
	Date   time.Time
	Status Status
}

// Stats describes the span of a date collection. Weeks, months, and years
// use fixed divisors (7, 30, 365) rounded to two decimals; they are
// approximate by design, not calendar-exact.
type Stats struct {
	First  time.Time
	Last   time.Time
	Days   int
	Weeks  float64
	Months float64
	Years  float64
}

// Result is the output of one reconstruction.
type Result struct {
	Timeline          []Entry
	Missing           []time.Time
	DanglingRemaining []time.Time
	TimelineStats     *Stats // nil when the timeline is empty
	DanglingStats     *Stats // nil when no dangling dates remain
	PastDangling      []time.Time
	FutureDangling    []time.Time
}

// ExtractJournalDates filters strings down to journal-shaped keys under the
// given format and returns their dates sorted ascending. Unparsable strings
// are silently excluded; they are simply not journal references.
func ExtractJournalDates(keys []string, f Format) []time.Time {
	var out []time.Time
	for _, k := range keys {
		d, err := f.Parse(k)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Reconstruct builds the gap-filled timeline from journal key strings and a
// set of dangling journal dates.
//
// Keys that fail to parse under f are dropped. The remaining dates are
// sorted and walked pairwise; every day strictly between two known dates is
// appended as either filled-by-dangling (consuming one matching entry from
// the dangling set) or missing. Duplicate journal dates produce a
// zero-length gap, a tolerated no-op.
//
// The dangling collection is treated as a multiset: one occurrence is
// consumed per matched gap day, so duplicate equivalent references do not
// collapse.
func Reconstruct(journalKeys []string, dangling []time.Time, f Format) Result {
	dates := ExtractJournalDates(journalKeys, f)

	remaining := make(map[time.Time]int, len(dangling))
	for _, d := range dangling {
		remaining[day(d)]++
	}

	var timeline []Entry
	var missing []time.Time

	for i := 0; i+1 < len(dates); i++ {
		current := dates[i]
		nextActual := dates[i+1]
		timeline = append(timeline, Entry{Date: current, Status: Present})

		for cursor := current.AddDate(0, 0, 1); cursor.Before(nextActual); cursor = cursor.AddDate(0, 0, 1) {
			if remaining[cursor] > 0 {
				remaining[cursor]--
				if remaining[cursor] == 0 {
					delete(remaining, cursor)
				}
				timeline = append(timeline, Entry{Date: cursor, Status: FilledByDangling})
			} else {
				missing = append(missing, cursor)
				timeline = append(timeline, Entry{Date: cursor, Status: Missing})
			}
		}
	}
	// The final date has no successor to bound a gap.
	if len(dates) > 0 {
		timeline = append(timeline, Entry{Date: dates[len(dates)-1], Status: Present})
	}

	res := Result{
		Timeline:          timeline,
		Missing:           missing,
		DanglingRemaining: flattenMultiset(remaining),
		TimelineStats:     timelineStats(timeline),
		DanglingStats:     dateStats(flattenMultiset(remaining)),
	}

	// Dangling references outside the known range are classified as past or
	// future reports, emitted only when non-empty.
	if res.TimelineStats != nil {
		for _, d := range res.DanglingRemaining {
			switch {
			case d.Before(res.TimelineStats.First):
				res.PastDangling = append(res.PastDangling, d)
			case d.After(res.TimelineStats.Last):
				res.FutureDangling = append(res.FutureDangling, d)
			}
		}
	}

	return res
}

func flattenMultiset(m map[time.Time]int) []time.Time {
	var out []time.Time
	for d, n := range m {
		for i := 0; i < n; i++ {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func timelineStats(timeline []Entry) *Stats {
	dates := make([]time.Time, 0, len(timeline))
	for _, e := range timeline {
		dates = append(dates, e.Date)
	}
	return dateStats(dates)
}

// dateStats computes range statistics, or nil for an empty collection — an
// expected steady state, not an error.
func dateStats(dates []time.Time) *Stats {
	if len(dates) == 0 {
		return nil
	}
	first, last := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	days := int(last.Sub(first).Hours()/24) + 1
	return &Stats{
		First:  first,
		Last:   last,
		Days:   days,
		Weeks:  round2(float64(days) / 7),
		Months: round2(float64(days) / 30),
		Years:  round2(float64(days) / 365),
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
