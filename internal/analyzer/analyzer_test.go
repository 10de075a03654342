package analyzer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/graphcfg"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testAnalyzer() *Analyzer {
	return New(graphcfg.Defaults(), testLogger())
}

func TestAnalyzeFileJournal(t *testing.T) {
	a := testAnalyzer()
	fr := a.AnalyzeFile(models.FileMeta{
		Path: "journals/2024_01_01.md",
		Name: "2024_01_01",
	}, "- morning notes\n- [[Project Alpha]]\n")

	if fr.Type != models.TypeJournal {
		t.Errorf("type = %s, want journal", fr.Type)
	}
	if fr.JournalKey != "2024-01-01 Monday" {
		t.Errorf("journal key = %q, want 2024-01-01 Monday", fr.JournalKey)
	}
	if fr.NameKey != "2024-01-01 monday" {
		t.Errorf("name key = %q, want the lower-cased page title", fr.NameKey)
	}
	if len(fr.Extraction.PageReferences) != 1 || fr.Extraction.PageReferences[0] != "project alpha" {
		t.Errorf("page refs = %v, want [project alpha]", fr.Extraction.PageReferences)
	}
}

func TestAnalyzeFilePage(t *testing.T) {
	a := testAnalyzer()
	content := "alias:: alpha\nstatus:: active\n- body\n"
	fr := a.AnalyzeFile(models.FileMeta{
		Path: "pages/work___projects___Alpha.md",
		Name: "work___projects___Alpha",
	}, content)

	if fr.Type != models.TypePage {
		t.Errorf("type = %s, want page", fr.Type)
	}
	if fr.NameKey != "work/projects/alpha" {
		t.Errorf("name key = %q, want namespace separators decoded", fr.NameKey)
	}
	if fr.JournalKey != "" {
		t.Errorf("journal key = %q, want empty for a page", fr.JournalKey)
	}
	if len(fr.BuiltinProps) != 1 || fr.BuiltinProps[0] != "alias" {
		t.Errorf("builtin props = %v, want [alias]", fr.BuiltinProps)
	}
	if len(fr.UserProps) != 1 || fr.UserProps[0] != "status" {
		t.Errorf("user props = %v, want [status]", fr.UserProps)
	}
}

func TestFileTypeByDirectory(t *testing.T) {
	a := testAnalyzer()
	cases := map[string]models.FileType{
		"journals/2024_01_01.md": models.TypeJournal,
		"pages/topic.md":         models.TypePage,
		"whiteboards/sketch.md":  models.TypeWhiteboard,
		"assets/diagram.md":      models.TypeAsset,
		"logseq/custom.md":       models.TypeOther,
		"README.md":              models.TypeOther,
	}
	for path, want := range cases {
		if got := a.fileType(path); got != want {
			t.Errorf("fileType(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestFileTypeDisabledJournals(t *testing.T) {
	cfg := graphcfg.Defaults()
	cfg.JournalsEnabled = false
	a := New(cfg, testLogger())
	if got := a.fileType("journals/2024_01_01.md"); got != models.TypeOther {
		t.Errorf("fileType = %s, want other when journals are disabled", got)
	}
}

func TestRunIncremental(t *testing.T) {
	root, store := testutil.TestGraph(t)
	db := testutil.TestDB(t)
	a := testAnalyzer()

	testutil.WriteFile(t, root, "journals/2024_01_01.md", "- day one\n")
	testutil.WriteFile(t, root, "pages/alpha.md", "- [[beta]]\n")

	res, err := a.Run(store, db)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Files != 2 || res.Changed != 2 || res.Removed != 0 {
		t.Errorf("first run = %d files, %d changed, %d removed; want 2/2/0", res.Files, res.Changed, res.Removed)
	}

	res, err = a.Run(store, db)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Changed != 0 {
		t.Errorf("unchanged graph reindexed %d files", res.Changed)
	}

	testutil.WriteFile(t, root, "pages/alpha.md", "- [[beta]] updated\n")
	if err := os.Remove(filepath.Join(root, "journals", "2024_01_01.md")); err != nil {
		t.Fatal(err)
	}

	res, err = a.Run(store, db)
	if err != nil {
		t.Fatalf("third Run: %v", err)
	}
	if res.Changed != 1 || res.Removed != 1 {
		t.Errorf("third run = %d changed, %d removed; want 1/1", res.Changed, res.Removed)
	}
}

func TestRunTimelineAndDangling(t *testing.T) {
	root, store := testutil.TestGraph(t)
	db := testutil.TestDB(t)
	a := testAnalyzer()

	testutil.WriteFile(t, root, "journals/2024_01_01.md", "- start\n")
	testutil.WriteFile(t, root, "journals/2024_01_03.md", "- end\n")
	testutil.WriteFile(t, root, "pages/alpha.md", "- see [[2024-01-02 Tuesday]] and [[ghost]]\n")

	res, err := a.Run(store, db)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Journal.Timeline) != 3 {
		t.Fatalf("timeline = %d days, want 3", len(res.Journal.Timeline))
	}
	statuses := make([]string, len(res.Journal.Timeline))
	for i, e := range res.Journal.Timeline {
		statuses[i] = e.Status.String()
	}
	want := []string{"present", "filled_by_dangling", "present"}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("timeline[%d] = %s, want %s", i, statuses[i], want[i])
		}
	}

	var ghost bool
	for _, d := range res.Dangling {
		if d.Target == "ghost" {
			ghost = true
		}
	}
	if !ghost {
		t.Errorf("dangling = %+v, want ghost present", res.Dangling)
	}

	rows, err := db.Timeline()
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if len(rows) != 3 || rows[1].Status != "filled_by_dangling" {
		t.Errorf("stored timeline = %+v, want the gap day persisted", rows)
	}

	if res.Summary.TotalFiles != 3 || res.Summary.JournalKeys != 2 {
		t.Errorf("summary = %+v, want 3 files and 2 journal keys", res.Summary)
	}
	if res.Summary.Elements["bullet"] == 0 {
		t.Errorf("summary elements missing bullets: %v", res.Summary.Elements)
	}
}

func TestSplitProperties(t *testing.T) {
	builtins, user := splitProperties([]string{"alias", "status", "tags", "mood"})
	if len(builtins) != 2 || builtins[0] != "alias" || builtins[1] != "tags" {
		t.Errorf("builtins = %v, want [alias tags]", builtins)
	}
	if len(user) != 2 || user[0] != "status" || user[1] != "mood" {
		t.Errorf("user = %v, want [status mood]", user)
	}
}
