// Package edn parses the restricted EDN subset used by Logseq configuration
// files into typed in-memory values.
//
// The grammar covers maps, vectors, lists, sets, strings, numbers, booleans,
// nil, symbols, and keywords. Tagged literals, character literals, and
// namespaced map syntax are not part of the subset.
package edn

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds. Vectors and lists are structurally identical once parsed and
// both yield KindSequence.
const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSymbol
	KindKeyword
	KindSequence
	KindSet
	KindMap
)

// String returns the lower-case variant name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindKeyword:
		return "keyword"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Entry is one key/value pair of a map, in source order.
type Entry struct {
	Key   Value
	Value Value
}

// Value is a closed variant over every EDN type the subset supports.
// A Value is immutable once returned by Loads.
type Value struct {
	Kind    Kind
	Str     string  // KindString, KindSymbol, KindKeyword (keyword keeps its colon)
	Int     int64   // KindInt
	Float   float64 // KindFloat
	Bool    bool    // KindBool
	Items   []Value // KindSequence (ordered), KindSet (deduplicated)
	Entries []Entry // KindMap (ordered)
}

// Lookup returns the value mapped to the given keyword (colon included),
// e.g. v.Lookup(":journals-directory").
func (v Value) Lookup(keyword string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.Entries {
		if e.Key.Kind == KindKeyword && e.Key.Str == keyword {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Get returns the value for an arbitrary key, matched by canonical key form.
func (v Value) Get(key Value) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	want := CanonicalKey(key)
	for _, e := range v.Entries {
		if CanonicalKey(e.Key) == want {
			return e.Value, true
		}
	}
	return Value{}, false
}

// CanonicalKey renders a Value as a hashable lookup key. Scalars encode as
// tagged literals; sequences encode as order-preserving tuples; sets and maps
// (a map acts as a set of pairs) encode order-independently so that two
// structurally equal collections always produce the same key.
func CanonicalKey(v Value) string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "b:" + strconv.FormatBool(v.Bool)
	case KindInt:
		return "i:" + strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return "s:" + strconv.Quote(v.Str)
	case KindSymbol:
		return "y:" + v.Str
	case KindKeyword:
		return "k:" + v.Str
	case KindSequence:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = CanonicalKey(item)
		}
		return "(" + strings.Join(parts, " ") + ")"
	case KindSet:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = CanonicalKey(item)
		}
		sort.Strings(parts)
		return "#{" + strings.Join(parts, " ") + "}"
	case KindMap:
		parts := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			parts[i] = "[" + CanonicalKey(e.Key) + " " + CanonicalKey(e.Value) + "]"
		}
		sort.Strings(parts)
		return "#{" + strings.Join(parts, " ") + "}"
	}
	return ""
}

// ParseError reports malformed notation. Token holds the offending token;
// EOF is set when the input ended before a complete value was read.
type ParseError struct {
	Token string
	EOF   bool
}

func (e *ParseError) Error() string {
	if e.EOF {
		return "edn: unexpected end of input"
	}
	return fmt.Sprintf("edn: unexpected token %q", e.Token)
}

var (
	tokenRe = regexp.MustCompile(`"(?:\\.|[^"\\])*"|#\{|[{}\[\]()]|[^"\s{}\[\](),]+`)
	// Signed integer or decimal with optional exponent. Full-token match only.
	numberRe = regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?$`)
)

// Tokenize splits text into EDN tokens. Comments (an unescaped semicolon
// outside a string, to end of line), commas, and whitespace are discarded.
// A quoted string is a single token; "#{" is a single token; each bracket
// and paren is its own token; any other maximal run of non-whitespace,
// non-comma, non-delimiter characters is one token.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(stripComments(text), -1)
}

// stripComments removes ';' comments line by line, skipping semicolons that
// occur inside double-quoted strings.
func stripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString := false
	escaped := false
	skipping := false
	for _, r := range text {
		if r == '\n' {
			skipping = false
			b.WriteRune(r)
			continue
		}
		if skipping {
			continue
		}
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case !inString && r == ';':
			skipping = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// maxDepth bounds collection nesting so that adversarial input cannot
// exhaust the goroutine stack.
const maxDepth = 512

type parser struct {
	tokens []string
	pos    int
	depth  int
}

// Loads parses a complete EDN document. It fails when the token stream is
// empty, when structure is malformed, or when tokens remain after one
// complete value. Loads is a pure function of its input.
func Loads(text string) (Value, error) {
	p := &parser{tokens: Tokenize(text)}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	if tok, ok := p.peek(); ok {
		return Value{}, &ParseError{Token: tok}
	}
	return v, nil
}

func (p *parser) peek() (string, bool) {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos], true
	}
	return "", false
}

func (p *parser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) parseValue() (Value, error) {
	tok, ok := p.peek()
	if !ok {
		return Value{}, &ParseError{EOF: true}
	}
	switch {
	case tok == "{":
		return p.parseMap()
	case tok == "[":
		return p.parseSequence("]")
	case tok == "(":
		return p.parseSequence(")")
	case tok == "#{":
		return p.parseSet()
	case strings.HasPrefix(tok, `"`):
		return p.parseString()
	case tok == "true" || tok == "false":
		p.pos++
		return Value{Kind: KindBool, Bool: tok == "true"}, nil
	case tok == "nil":
		p.pos++
		return Value{Kind: KindNil}, nil
	case numberRe.MatchString(tok):
		return p.parseNumber()
	case strings.HasPrefix(tok, ":"):
		p.pos++
		return Value{Kind: KindKeyword, Str: tok}, nil
	default:
		p.pos++
		return Value{Kind: KindSymbol, Str: tok}, nil
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		tok, _ := p.peek()
		return &ParseError{Token: tok}
	}
	return nil
}

func (p *parser) parseMap() (Value, error) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	defer func() { p.depth-- }()
	p.pos++ // consume '{'

	var entries []Entry
	seen := make(map[string]int)
	for {
		tok, ok := p.peek()
		if !ok {
			return Value{}, &ParseError{EOF: true}
		}
		if tok == "}" {
			p.pos++
			break
		}
		key, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		// Duplicate keys keep the last value, preserving first position.
		ck := CanonicalKey(key)
		if i, dup := seen[ck]; dup {
			entries[i].Value = val
			continue
		}
		seen[ck] = len(entries)
		entries = append(entries, Entry{Key: key, Value: val})
	}
	return Value{Kind: KindMap, Entries: entries}, nil
}

func (p *parser) parseSequence(closer string) (Value, error) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	defer func() { p.depth-- }()
	p.pos++ // consume '[' or '('

	var items []Value
	for {
		tok, ok := p.peek()
		if !ok {
			return Value{}, &ParseError{EOF: true}
		}
		if tok == closer {
			p.pos++
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	return Value{Kind: KindSequence, Items: items}, nil
}

func (p *parser) parseSet() (Value, error) {
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	defer func() { p.depth-- }()
	p.pos++ // consume '#{'

	var items []Value
	seen := make(map[string]struct{})
	for {
		tok, ok := p.peek()
		if !ok {
			return Value{}, &ParseError{EOF: true}
		}
		if tok == "}" {
			p.pos++
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		ck := CanonicalKey(v)
		if _, dup := seen[ck]; dup {
			continue
		}
		seen[ck] = struct{}{}
		items = append(items, v)
	}
	return Value{Kind: KindSet, Items: items}, nil
}

func (p *parser) parseString() (Value, error) {
	tok, _ := p.next()
	s, err := unquote(tok)
	if err != nil {
		return Value{}, &ParseError{Token: tok}
	}
	return Value{Kind: KindString, Str: s}, nil
}

func (p *parser) parseNumber() (Value, error) {
	tok, _ := p.next()
	if strings.ContainsAny(tok, ".eE") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return Value{}, &ParseError{Token: tok}
		}
		return Value{Kind: KindFloat, Float: f}, nil
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Value{}, &ParseError{Token: tok}
	}
	return Value{Kind: KindInt, Int: n}, nil
}

// unquote decodes a double-quoted EDN string token including its escapes.
func unquote(tok string) (string, error) {
	if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return "", fmt.Errorf("edn: malformed string token")
	}
	body := tok[1 : len(tok)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("edn: dangling escape")
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			// Unknown escapes pass through verbatim, backslash included.
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String(), nil
}
