// Package symtab holds the glyph vocabulary of the language: keyword categories,
// numeral glyphs, delimiters and separators.
//
// A Table is immutable after construction and safe for concurrent use.
// Default returns the embedded vocabulary; Load and New build alternative
// tables that callers inject into the lexer and transformer.
package symtab

import (
	"sort"
	"strings"

	"fuhao/internal/token"
)

// Role describes what a glyph does in the language.
type Role uint8

const (
	RoleNone Role = iota
	RoleKeyword
	RoleDigit
	RoleTens
	RolePower
	RoleConstant
	RoleFraction
	RoleShortSign
	RoleSign
	RoleRadix
	RolePercent
	RoleMarker
	RoleAlias
	RoleOpen
	RoleClose
	RoleSeparator
)

var roleNames = [...]string{
	RoleNone:      "none",
	RoleKeyword:   "keyword",
	RoleDigit:     "digit",
	RoleTens:      "tens",
	RolePower:     "power",
	RoleConstant:  "constant",
	RoleFraction:  "fraction",
	RoleShortSign: "short-sign",
	RoleSign:      "sign",
	RoleRadix:     "radix",
	RolePercent:   "percent",
	RoleMarker:    "marker",
	RoleAlias:     "alias",
	RoleOpen:      "open",
	RoleClose:     "close",
	RoleSeparator: "separator",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "role(?)"
}

// IsNumeral reports whether glyphs of this role belong to the numeral alphabet.
func (r Role) IsNumeral() bool {
	return r >= RoleDigit && r <= RoleAlias
}

// Entry describes one registered glyph.
type Entry struct {
	Glyph     rune
	Role      Role
	Category  token.Category // RoleKeyword
	Expansion string         // RoleKeyword
	Kind      token.Kind     // RoleOpen, RoleClose, RoleSeparator
	Partner   rune           // RoleOpen, RoleClose
	Value     float64        // цифра, степень, константа, дробь или псевдоним
	Tolerance float64        // RoleConstant: допуск при кодировании
}

// Vector is a precomputed numeral body (without the marker) and its value.
type Vector struct {
	Body  string
	Value float64
}

// Numerals is the numeral alphabet consumed by the numeral codec.
type Numerals struct {
	Marker    rune
	Digits    [10]rune
	Tens      rune
	Powers    map[int]rune // показатель степени -> глиф
	Constants []Entry      // отсортированы по глифу
	Fractions []Entry
	ShortSign rune
	Sign      rune
	Radix     rune
	Percent   rune
	Vectors   []Vector // отсортированы по Body
}

// Table is an immutable glyph vocabulary.
type Table struct {
	entries  map[rune]Entry
	numerals Numerals
}

// Lookup returns the entry for glyph. Unknown glyphs are a normal outcome.
func (t *Table) Lookup(glyph rune) (Entry, bool) {
	e, ok := t.entries[glyph]
	return e, ok
}

// IsOpenDelimiter reports whether glyph opens a delimited group.
func (t *Table) IsOpenDelimiter(glyph rune) bool {
	e, ok := t.entries[glyph]
	return ok && e.Role == RoleOpen
}

// IsCloseDelimiter reports whether glyph closes a delimited group.
func (t *Table) IsCloseDelimiter(glyph rune) bool {
	e, ok := t.entries[glyph]
	return ok && e.Role == RoleClose
}

// IsNumeralGlyph reports whether glyph belongs to the numeral alphabet (marker included).
func (t *Table) IsNumeralGlyph(glyph rune) bool {
	e, ok := t.entries[glyph]
	return ok && e.Role.IsNumeral()
}

// IsRegistered reports whether glyph has any role in the vocabulary.
func (t *Table) IsRegistered(glyph rune) bool {
	_, ok := t.entries[glyph]
	return ok
}

// Closer returns the close delimiter paired with open.
func (t *Table) Closer(open rune) (rune, bool) {
	e, ok := t.entries[open]
	if !ok || e.Role != RoleOpen {
		return 0, false
	}
	return e.Partner, true
}

// Numerals returns the numeral alphabet. The result must not be modified.
func (t *Table) Numerals() *Numerals {
	return &t.numerals
}

// Expand substitutes every keyword glyph in text with its expansion.
// Other characters, numeral glyphs included, are kept as is.
func (t *Table) Expand(text string) string {
	var b strings.Builder
	changed := false
	for _, r := range text {
		if e, ok := t.entries[r]; ok && e.Role == RoleKeyword {
			if !changed {
				b.Grow(len(text) + 16)
				changed = true
			}
			b.WriteString(e.Expansion)
			continue
		}
		b.WriteRune(r)
	}
	if !changed {
		return text
	}
	return b.String()
}

// Keywords returns keyword entries ordered by category.
func (t *Table) Keywords() []Entry {
	return t.byRole(func(e Entry) bool { return e.Role == RoleKeyword }, func(a, b Entry) bool {
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Glyph < b.Glyph
	})
}

// Entries returns every entry ordered by role, then glyph.
func (t *Table) Entries() []Entry {
	return t.byRole(func(Entry) bool { return true }, func(a, b Entry) bool {
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		return a.Glyph < b.Glyph
	})
}

func (t *Table) byRole(keep func(Entry) bool, less func(a, b Entry) bool) []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
