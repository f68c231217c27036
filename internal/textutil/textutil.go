// Package textutil provides the small text primitives used to turn card
// fields into SQL fragments:
//
//   - ParseManaCost / ParseTypeLine / ParseColourIdentity split compound
//     card text into normalized sequences.
//   - EscapeQuotes / QuotedString / QuotedStringOrNullLiteral / DelimitedString
//     build literals that are safe to embed in a generated SQL script.
//
// Every function is total: malformed input degrades to an empty result and
// never panics or returns an error.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"scryfallsql/internal/model"
)

// NullLiteral is the SQL NULL keyword.
const NullLiteral = "NULL"

var (
	manaSymbolRe = regexp.MustCompile(`\{([^{}]+)\}`)

	// manaCostShapeRe accepts a sequence of {symbols}, optionally split into
	// faces with "//" (split cards), separated by any whitespace.
	manaCostShapeRe = regexp.MustCompile(`^\s*(?:(?:\{[^{}]+\}|//)\s*)*$`)
)

// ParseManaCost splits a cost string such as "{2}{W}{W}" into its symbols
// ("2", "W", "W"), preserving order. Empty or malformed input yields an empty
// slice.
func ParseManaCost(s string) []string {
	if strings.TrimSpace(s) == "" || !manaCostShapeRe.MatchString(s) {
		return []string{}
	}
	matches := manaSymbolRe.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if sym := strings.TrimSpace(m[1]); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}

// isTypeSeparator reports whether tok splits a type line into its left
// (supertypes and types) and right (subtypes) halves. Hyphens only count as
// separators when they stand alone, so "Assembly-Worker" stays one token.
func isTypeSeparator(tok string) bool {
	switch tok {
	case "—", "–", "-", "--":
		return true
	}
	return false
}

// ParseTypeLine splits "Legendary Creature — Elf Warrior" into types
// [Legendary Creature] and subtypes [Elf Warrior]. A line without a
// separator has no subtypes. Lines with more than one separator, a face
// divider ("//"), or subtypes without types are treated as malformed and
// yield two empty slices.
func ParseTypeLine(s string) (types, subtypes []string) {
	types, subtypes = []string{}, []string{}

	sep := -1
	fields := strings.Fields(s)
	for i, f := range fields {
		if f == "//" {
			return []string{}, []string{}
		}
		if isTypeSeparator(f) {
			if sep >= 0 {
				return []string{}, []string{}
			}
			sep = i
		}
	}

	if sep < 0 {
		return append(types, fields...), subtypes
	}
	if sep == 0 {
		return []string{}, []string{}
	}
	types = append(types, fields[:sep]...)
	subtypes = append(subtypes, fields[sep+1:]...)
	return types, subtypes
}

// ParseColourIdentity collects the colours named by tokens. Tokens may be
// single letters ("W", "U") or mana symbols ("2/W", "G/U/P"); every W, U, B,
// R or G letter contributes its colour and anything else is ignored. The
// result is ordered W, U, B, R, G and never nil.
func ParseColourIdentity(tokens []string) []model.Colour {
	var found []model.Colour
	for _, tok := range tokens {
		for _, r := range tok {
			if c, ok := model.ColourFromSymbol(r); ok {
				found = append(found, c)
			}
		}
	}
	return model.SortedSet(found)
}

// Clean puts free text into NFC form and drops NUL bytes, which text columns
// cannot store.
func Clean(s string) string {
	if s == "" {
		return s
	}
	if strings.IndexByte(s, 0) >= 0 {
		s = strings.ReplaceAll(s, "\x00", "")
	}
	return norm.NFC.String(s)
}

// EscapeQuotes doubles every single quote so that the result can be placed
// between single quotes in a standard SQL string literal.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(Clean(s), "'", "''")
}

// QuotedString returns s as a single-quoted, escaped SQL literal.
func QuotedString(s string) string {
	return "'" + EscapeQuotes(s) + "'"
}

// QuotedStringOrNullLiteral returns NULL for a nil s, otherwise the quoted
// literal of *s.
func QuotedStringOrNullLiteral(s *string) string {
	if s == nil {
		return NullLiteral
	}
	return QuotedString(*s)
}

// DelimitedString joins items with commas for use inside an ARRAY[...]
// constructor. With quote set each item is escaped and single-quoted (text
// arrays); otherwise items are written as given, which is only safe for
// literals drawn from a closed set such as enum values. An empty input
// yields "".
func DelimitedString(items []string, quote bool) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		if quote {
			b.WriteString(QuotedString(it))
		} else {
			b.WriteString(it)
		}
	}
	return b.String()
}
