package edn

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenize_SkipsCommasAndComments(t *testing.T) {
	got := Tokenize("1, 2 ; comment\n 3")
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenize_SemicolonInsideString(t *testing.T) {
	got := Tokenize(`"a;b" ; trailing`)
	if len(got) != 1 || got[0] != `"a;b"` {
		t.Errorf("tokens = %v, want [%q]", got, `"a;b"`)
	}
}

func TestTokenize_SetOpenIsOneToken(t *testing.T) {
	got := Tokenize(`#{:a :b}`)
	want := []string{"#{", ":a", ":b", "}"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
}

func TestLoads_Scalars(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
		str  string
	}{
		{"42", KindInt, ""},
		{"-7", KindInt, ""},
		{"3.14", KindFloat, ""},
		{"1e3", KindFloat, ""},
		{"-2.5E-2", KindFloat, ""},
		{"true", KindBool, ""},
		{"false", KindBool, ""},
		{"nil", KindNil, ""},
		{`"hi\nthere"`, KindString, "hi\nthere"},
		{":journal/page-title-format", KindKeyword, ":journal/page-title-format"},
		{"some-symbol", KindSymbol, "some-symbol"},
	}
	for _, tc := range tests {
		v, err := Loads(tc.in)
		if err != nil {
			t.Fatalf("Loads(%q): %v", tc.in, err)
		}
		if v.Kind != tc.kind {
			t.Errorf("Loads(%q).Kind = %v, want %v", tc.in, v.Kind, tc.kind)
		}
		if tc.str != "" && v.Str != tc.str {
			t.Errorf("Loads(%q).Str = %q, want %q", tc.in, v.Str, tc.str)
		}
	}
}

func TestLoads_NumberVariant(t *testing.T) {
	v, err := Loads("10")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindInt || v.Int != 10 {
		t.Errorf("got %+v, want Int 10", v)
	}
	v, err = Loads("10.0")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindFloat || v.Float != 10.0 {
		t.Errorf("got %+v, want Float 10.0", v)
	}
}

func TestLoads_Collections(t *testing.T) {
	v, err := Loads(`{:a [1 2] :b (3 4) :c #{5 5 6}}`)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != KindMap || len(v.Entries) != 3 {
		t.Fatalf("got %+v, want 3-entry map", v)
	}
	a, ok := v.Lookup(":a")
	if !ok || a.Kind != KindSequence || len(a.Items) != 2 {
		t.Errorf(":a = %+v, want 2-item sequence", a)
	}
	b, _ := v.Lookup(":b")
	if b.Kind != KindSequence || len(b.Items) != 2 {
		t.Errorf(":b = %+v, want 2-item sequence (lists collapse to sequences)", b)
	}
	c, _ := v.Lookup(":c")
	if c.Kind != KindSet || len(c.Items) != 2 {
		t.Errorf(":c = %+v, want deduplicated 2-item set", c)
	}
}

func TestLoads_MapPreservesEntryOrder(t *testing.T) {
	v, err := Loads(`{:z 1 :a 2 :m 3}`)
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, e := range v.Entries {
		keys = append(keys, e.Key.Str)
	}
	if strings.Join(keys, " ") != ":z :a :m" {
		t.Errorf("entry order = %v", keys)
	}
}

func TestLoads_SequenceKeyNormalizesToTuple(t *testing.T) {
	v, err := Loads(`{[1 2] "value"}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(v.Entries))
	}
	tuple := Value{Kind: KindSequence, Items: []Value{
		{Kind: KindInt, Int: 1},
		{Kind: KindInt, Int: 2},
	}}
	if CanonicalKey(v.Entries[0].Key) != CanonicalKey(tuple) {
		t.Errorf("key canon = %q, want tuple canon %q",
			CanonicalKey(v.Entries[0].Key), CanonicalKey(tuple))
	}
	got, ok := v.Get(tuple)
	if !ok || got.Str != "value" {
		t.Errorf("Get(tuple) = %+v, %v", got, ok)
	}
}

func TestLoads_MapKeyNormalizesOrderIndependently(t *testing.T) {
	v, err := Loads(`{{:x 10} :val}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(v.Entries))
	}
	pairSet := Value{Kind: KindMap, Entries: []Entry{
		{Key: Value{Kind: KindKeyword, Str: ":x"}, Value: Value{Kind: KindInt, Int: 10}},
	}}
	if CanonicalKey(v.Entries[0].Key) != CanonicalKey(pairSet) {
		t.Errorf("map-as-key canon mismatch")
	}
}

func TestCanonicalKey_SetOrderIndependent(t *testing.T) {
	a, err := Loads(`#{1 2 3}`)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Loads(`#{3 2 1}`)
	if err != nil {
		t.Fatal(err)
	}
	if CanonicalKey(a) != CanonicalKey(b) {
		t.Errorf("set canon differs: %q vs %q", CanonicalKey(a), CanonicalKey(b))
	}
	seq1, _ := Loads(`[1 2]`)
	seq2, _ := Loads(`[2 1]`)
	if CanonicalKey(seq1) == CanonicalKey(seq2) {
		t.Errorf("sequence canon must be order-dependent")
	}
}

func TestLoads_TrailingDataFails(t *testing.T) {
	_, err := Loads("1 2")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Token != "2" || perr.EOF {
		t.Errorf("ParseError = %+v, want Token \"2\"", perr)
	}
}

func TestLoads_EmptyInputFails(t *testing.T) {
	_, err := Loads("")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if !perr.EOF {
		t.Errorf("ParseError = %+v, want EOF marker", perr)
	}
}

func TestLoads_UnterminatedCollectionFails(t *testing.T) {
	for _, in := range []string{"{:a 1", "[1 2", "(1", "#{1"} {
		_, err := Loads(in)
		var perr *ParseError
		if !errors.As(err, &perr) || !perr.EOF {
			t.Errorf("Loads(%q) err = %v, want EOF ParseError", in, err)
		}
	}
}

func TestLoads_DepthCeiling(t *testing.T) {
	in := strings.Repeat("[", maxDepth+1) + strings.Repeat("]", maxDepth+1)
	if _, err := Loads(in); err == nil {
		t.Error("expected error beyond nesting ceiling")
	}
	ok := strings.Repeat("[", 64) + "1" + strings.Repeat("]", 64)
	if _, err := Loads(ok); err != nil {
		t.Errorf("64-deep nesting should parse: %v", err)
	}
}

func TestLoads_RealConfigShape(t *testing.T) {
	cfg := `
;; Logseq user config
{:feature/enable-journals? true
 :journal/page-title-format "yyyy-MM-dd EEEE"
 :journals-directory "journals"
 :pages-directory "pages"
 :default-queries
 {:journals
  [{:title "🔨 NOW" :query [:find (pull ?h [*])]}]}
 :favorites ["page a", "page b"]}
`
	v, err := Loads(cfg)
	if err != nil {
		t.Fatal(err)
	}
	enabled, ok := v.Lookup(":feature/enable-journals?")
	if !ok || enabled.Kind != KindBool || !enabled.Bool {
		t.Errorf(":feature/enable-journals? = %+v", enabled)
	}
	dir, _ := v.Lookup(":journals-directory")
	if dir.Str != "journals" {
		t.Errorf(":journals-directory = %q", dir.Str)
	}
	fav, _ := v.Lookup(":favorites")
	if fav.Kind != KindSequence || len(fav.Items) != 2 {
		t.Errorf(":favorites = %+v", fav)
	}
}
