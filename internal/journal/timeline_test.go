package journal

import (
	"testing"
	"time"
)

var testFormat = NewFormat(DefaultPageTitleFormat)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReconstruct_GapFilling(t *testing.T) {
	keys := []string{"2024-01-01 Monday", "2024-01-03 Wednesday"}
	res := Reconstruct(keys, nil, testFormat)

	if len(res.Timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(res.Timeline))
	}
	wantDates := []time.Time{date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3)}
	wantStatus := []Status{Present, Missing, Present}
	for i, e := range res.Timeline {
		if !e.Date.Equal(wantDates[i]) || e.Status != wantStatus[i] {
			t.Errorf("timeline[%d] = %v %v, want %v %v", i, e.Date, e.Status, wantDates[i], wantStatus[i])
		}
	}
	if len(res.Missing) != 1 || !res.Missing[0].Equal(date(2024, 1, 2)) {
		t.Errorf("missing = %v", res.Missing)
	}
	if res.TimelineStats == nil || res.TimelineStats.Days != 3 {
		t.Errorf("stats = %+v, want 3 days", res.TimelineStats)
	}
}

func TestReconstruct_DanglingConsumption(t *testing.T) {
	keys := []string{"2024-01-01 Monday", "2024-01-03 Wednesday"}
	dangling := []time.Time{date(2024, 1, 2)}
	res := Reconstruct(keys, dangling, testFormat)

	if len(res.Timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(res.Timeline))
	}
	if res.Timeline[1].Status != FilledByDangling {
		t.Errorf("timeline[1].Status = %v, want FilledByDangling", res.Timeline[1].Status)
	}
	if len(res.Missing) != 0 {
		t.Errorf("missing = %v, want empty", res.Missing)
	}
	if len(res.DanglingRemaining) != 0 {
		t.Errorf("dangling remaining = %v, want empty", res.DanglingRemaining)
	}
}

func TestReconstruct_DanglingMultiset(t *testing.T) {
	// Two equivalent dangling entries: only one is consumed by the single
	// gap day; the other survives.
	keys := []string{"2024-01-01 Monday", "2024-01-03 Wednesday"}
	dangling := []time.Time{date(2024, 1, 2), date(2024, 1, 2)}
	res := Reconstruct(keys, dangling, testFormat)

	if len(res.DanglingRemaining) != 1 {
		t.Errorf("dangling remaining = %v, want one surviving duplicate", res.DanglingRemaining)
	}
}

func TestReconstruct_PastAndFutureDangling(t *testing.T) {
	keys := []string{"2024-01-10 Wednesday", "2024-01-11 Thursday"}
	dangling := []time.Time{date(2023, 12, 1), date(2024, 2, 1)}
	res := Reconstruct(keys, dangling, testFormat)

	if len(res.PastDangling) != 1 || !res.PastDangling[0].Equal(date(2023, 12, 1)) {
		t.Errorf("past = %v", res.PastDangling)
	}
	if len(res.FutureDangling) != 1 || !res.FutureDangling[0].Equal(date(2024, 2, 1)) {
		t.Errorf("future = %v", res.FutureDangling)
	}
}

func TestReconstruct_EmptyInputs(t *testing.T) {
	res := Reconstruct(nil, nil, testFormat)
	if len(res.Timeline) != 0 {
		t.Errorf("timeline = %v, want empty", res.Timeline)
	}
	if res.TimelineStats != nil || res.DanglingStats != nil {
		t.Errorf("stats must be absent for empty inputs")
	}
}

func TestReconstruct_UnparsableKeysDropped(t *testing.T) {
	keys := []string{"not a journal", "2024-01-01 Monday", "Project Ideas"}
	res := Reconstruct(keys, nil, testFormat)
	if len(res.Timeline) != 1 {
		t.Fatalf("timeline = %v, want single parsed key", res.Timeline)
	}
}

func TestReconstruct_DuplicateDatesTolerated(t *testing.T) {
	keys := []string{"2024-01-01 Monday", "2024-01-01 Monday", "2024-01-02 Tuesday"}
	res := Reconstruct(keys, nil, testFormat)
	// The duplicate yields a zero-length gap: both occurrences appear, no
	// missing days are invented.
	if len(res.Timeline) != 3 {
		t.Errorf("timeline length = %d, want 3", len(res.Timeline))
	}
	if len(res.Missing) != 0 {
		t.Errorf("missing = %v, want empty", res.Missing)
	}
}

func TestReconstruct_RangeStatDivisors(t *testing.T) {
	// 31 days inclusive: Jan 1 .. Jan 31.
	keys := []string{"2024-01-01 Monday", "2024-01-31 Wednesday"}
	res := Reconstruct(keys, nil, testFormat)
	s := res.TimelineStats
	if s == nil {
		t.Fatal("stats absent")
	}
	if s.Days != 31 {
		t.Errorf("days = %d, want 31", s.Days)
	}
	if s.Weeks != 4.43 {
		t.Errorf("weeks = %v, want 4.43", s.Weeks)
	}
	if s.Months != 1.03 {
		t.Errorf("months = %v, want 1.03", s.Months)
	}
	if s.Years != 0.08 {
		t.Errorf("years = %v, want 0.08", s.Years)
	}
}

func TestExtractJournalDates_FiltersAndSorts(t *testing.T) {
	in := []string{"2024-03-02 Saturday", "nope", "2024-03-01 Friday"}
	got := ExtractJournalDates(in, testFormat)
	if len(got) != 2 {
		t.Fatalf("dates = %v", got)
	}
	if !got[0].Equal(date(2024, 3, 1)) || !got[1].Equal(date(2024, 3, 2)) {
		t.Errorf("dates not sorted: %v", got)
	}
}
