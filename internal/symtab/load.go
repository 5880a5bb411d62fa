package symtab

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"fuhao/internal/token"
)

//go:embed vocab/*.toml
var embedded embed.FS

// Имена файлов словаря, одинаковые для встроенного и пользовательского каталога.
const (
	KeywordsFile   = "keywords.toml"
	NumeralsFile   = "numerals.toml"
	DelimitersFile = "delimiters.toml"
)

// defaultTolerance applies to constants without an explicit [tolerance] entry.
const defaultTolerance = 1e-4

// KeywordTable mirrors keywords.toml.
type KeywordTable struct {
	Category  map[string]string `toml:"category"`
	Expansion map[string]string `toml:"expansion"`
}

// NumeralTable mirrors numerals.toml.
type NumeralTable struct {
	Marker    string             `toml:"marker"`
	Tens      string             `toml:"tens"`
	Radix     string             `toml:"radix"`
	Percent   string             `toml:"percent"`
	ShortSign string             `toml:"short_sign"`
	Sign      string             `toml:"sign"`
	Digits    map[string]int     `toml:"digits"`
	Powers    map[string]int     `toml:"powers"`
	Constants map[string]float64 `toml:"constants"`
	Fractions map[string]float64 `toml:"fractions"`
	Tolerance map[string]float64 `toml:"tolerance"`
	Aliases   map[string]float64 `toml:"aliases"`
	Vectors   map[string]float64 `toml:"vectors"`
}

// DelimiterTable mirrors delimiters.toml.
type DelimiterTable struct {
	Open      map[string]string `toml:"open"`
	Close     map[string]string `toml:"close"`
	Separator map[string]string `toml:"separator"`
}

// VocabError reports a malformed vocabulary table.
type VocabError struct {
	File  string
	Glyph string
	Msg   string
}

func (e *VocabError) Error() string {
	if e.Glyph == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	}
	return fmt.Sprintf("%s: %q: %s", e.File, e.Glyph, e.Msg)
}

func embeddedVocab() fs.FS {
	sub, err := fs.Sub(embedded, "vocab")
	if err != nil {
		panic(err)
	}
	return sub
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(embeddedVocab())
	if err != nil {
		panic(fmt.Errorf("embedded vocabulary: %w", err))
	}
	return t
})

// Default returns the process-wide embedded vocabulary.
func Default() *Table {
	return defaultTable()
}

// Load reads the three vocabulary files from fsys. Files missing from fsys
// fall back to the embedded ones, so a directory may override a single table.
func Load(fsys fs.FS) (*Table, error) {
	var (
		kw    KeywordTable
		num   NumeralTable
		delim DelimiterTable
	)
	if err := decodeVocab(fsys, KeywordsFile, &kw); err != nil {
		return nil, err
	}
	if err := decodeVocab(fsys, NumeralsFile, &num); err != nil {
		return nil, err
	}
	if err := decodeVocab(fsys, DelimitersFile, &delim); err != nil {
		return nil, err
	}
	return New(kw, num, delim)
}

func decodeVocab(fsys fs.FS, name string, v any) error {
	if _, err := fs.Stat(fsys, name); errors.Is(err, fs.ErrNotExist) {
		fsys = embeddedVocab()
	}
	if _, err := toml.DecodeFS(fsys, name, v); err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", name, err)
	}
	return nil
}

// New builds a table from decoded vocabulary tables.
// Every glyph must be a single rune and may hold only one role.
func New(kw KeywordTable, num NumeralTable, delim DelimiterTable) (*Table, error) {
	b := builder{t: &Table{entries: make(map[rune]Entry)}}
	b.keywords(kw)
	b.numerals(num)
	b.delimiters(delim)
	if b.err != nil {
		return nil, b.err
	}
	return b.t, nil
}

type builder struct {
	t    *Table
	file string
	err  error
}

func (b *builder) fail(glyph, format string, args ...any) {
	if b.err == nil {
		b.err = &VocabError{File: b.file, Glyph: glyph, Msg: fmt.Sprintf(format, args...)}
	}
}

// glyph проверяет, что ключ таблицы ровно одна руна.
func (b *builder) glyph(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || r == utf8.RuneError || size != len(s) {
		b.fail(s, "glyph must be a single character")
		return 0, false
	}
	return r, true
}

func (b *builder) add(s string, e Entry) (rune, bool) {
	r, ok := b.glyph(s)
	if !ok {
		return 0, false
	}
	if prev, dup := b.t.entries[r]; dup {
		b.fail(s, "already registered as %s", prev.Role)
		return 0, false
	}
	e.Glyph = r
	b.t.entries[r] = e
	return r, true
}

func (b *builder) keywords(kw KeywordTable) {
	b.file = KeywordsFile
	for _, g := range sortedKeys(kw.Category) {
		cat, ok := token.LookupCategory(kw.Category[g])
		if !ok {
			b.fail(g, "unknown category %q", kw.Category[g])
			continue
		}
		exp := kw.Expansion[g]
		if exp == "" {
			exp = cat.String()
		}
		b.add(g, Entry{Role: RoleKeyword, Category: cat, Expansion: exp})
	}
	for _, g := range sortedKeys(kw.Expansion) {
		if _, ok := kw.Category[g]; !ok {
			b.fail(g, "expansion for a glyph without category")
		}
	}
}

func (b *builder) numerals(num NumeralTable) {
	b.file = NumeralsFile
	n := &b.t.numerals
	n.Powers = make(map[int]rune)

	single := func(s string, role Role, dst *rune) {
		if s == "" {
			b.fail("", "%s glyph is required", role)
			return
		}
		if r, ok := b.add(s, Entry{Role: role}); ok {
			*dst = r
		}
	}
	single(num.Marker, RoleMarker, &n.Marker)
	single(num.Tens, RoleTens, &n.Tens)
	single(num.Radix, RoleRadix, &n.Radix)
	single(num.Percent, RolePercent, &n.Percent)
	single(num.ShortSign, RoleShortSign, &n.ShortSign)
	single(num.Sign, RoleSign, &n.Sign)

	seen := [10]bool{}
	for _, g := range sortedKeys(num.Digits) {
		d := num.Digits[g]
		if d < 0 || d > 9 || seen[d] {
			b.fail(g, "digit value %d out of range or duplicated", d)
			continue
		}
		if r, ok := b.add(g, Entry{Role: RoleDigit, Value: float64(d)}); ok {
			n.Digits[d] = r
			seen[d] = true
		}
	}
	for d, ok := range seen {
		if !ok {
			b.fail("", "digit %d has no glyph", d)
		}
	}
	for _, g := range sortedKeys(num.Powers) {
		p := num.Powers[g]
		if p < 2 {
			b.fail(g, "power %d must be at least 2", p)
			continue
		}
		if r, ok := b.add(g, Entry{Role: RolePower, Value: float64(p)}); ok {
			n.Powers[p] = r
		}
	}
	n.Constants = b.valued(num.Constants, RoleConstant)
	for i := range n.Constants {
		c := &n.Constants[i]
		c.Tolerance = defaultTolerance
		if tol, ok := num.Tolerance[string(c.Glyph)]; ok {
			c.Tolerance = tol
		}
		b.t.entries[c.Glyph] = *c
	}
	for _, g := range sortedKeys(num.Tolerance) {
		if _, ok := num.Constants[g]; !ok {
			b.fail(g, "tolerance for a glyph that is not a constant")
		}
	}
	n.Fractions = b.valued(num.Fractions, RoleFraction)
	b.valued(num.Aliases, RoleAlias)

	for _, body := range sortedKeys(num.Vectors) {
		n.Vectors = append(n.Vectors, Vector{Body: body, Value: num.Vectors[body]})
	}
}

func (b *builder) valued(m map[string]float64, role Role) []Entry {
	out := make([]Entry, 0, len(m))
	for _, g := range sortedKeys(m) {
		e := Entry{Role: role, Value: m[g]}
		if r, ok := b.add(g, e); ok {
			e.Glyph = r
			out = append(out, e)
		}
	}
	return out
}

func (b *builder) delimiters(delim DelimiterTable) {
	b.file = DelimitersFile
	opens := make(map[string]rune)
	closes := make(map[string]rune)
	side := func(m map[string]string, open bool, byRole map[string]rune) {
		role := RoleClose
		if open {
			role = RoleOpen
		}
		for _, g := range sortedKeys(m) {
			kind, ok := token.DelimiterKind(m[g], open)
			if !ok {
				b.fail(g, "unknown delimiter role %q", m[g])
				continue
			}
			if _, dup := byRole[m[g]]; dup {
				b.fail(g, "role %q already has a %s glyph", m[g], role)
				continue
			}
			if r, ok := b.add(g, Entry{Role: role, Kind: kind}); ok {
				byRole[m[g]] = r
			}
		}
	}
	side(delim.Open, true, opens)
	side(delim.Close, false, closes)

	for role, open := range opens {
		closeGlyph, ok := closes[role]
		if !ok {
			b.fail(string(open), "open delimiter without a close partner")
			continue
		}
		o, c := b.t.entries[open], b.t.entries[closeGlyph]
		o.Partner, c.Partner = closeGlyph, open
		b.t.entries[open], b.t.entries[closeGlyph] = o, c
	}
	for role, c := range closes {
		if _, ok := opens[role]; !ok {
			b.fail(string(c), "close delimiter without an open partner")
		}
	}

	for _, g := range sortedKeys(delim.Separator) {
		kind, ok := token.SeparatorKind(delim.Separator[g])
		if !ok {
			b.fail(g, "unknown separator role %q", delim.Separator[g])
			continue
		}
		b.add(g, Entry{Role: RoleSeparator, Kind: kind})
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
