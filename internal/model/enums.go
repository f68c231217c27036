package model

import (
	"slices"
	"strings"
)

// Colour is one of the five Magic colours. The zero value is not a colour.
type Colour uint8

const (
	White Colour = iota + 1
	Blue
	Black
	Red
	Green
)

var colourNames = [...]string{"", "white", "blue", "black", "red", "green"}

// ColourFromSymbol maps a single-letter colour code (W, U, B, R, G) to a
// Colour. Lowercase letters are accepted.
func ColourFromSymbol(r rune) (Colour, bool) {
	switch r {
	case 'W', 'w':
		return White, true
	case 'U', 'u':
		return Blue, true
	case 'B', 'b':
		return Black, true
	case 'R', 'r':
		return Red, true
	case 'G', 'g':
		return Green, true
	}
	return 0, false
}

func (c Colour) String() string {
	if int(c) < len(colourNames) {
		return colourNames[c]
	}
	return ""
}

// Format is a recognised competitive format.
type Format uint8

const (
	Standard Format = iota + 1
	Future
	Historic
	Timeless
	Gladiator
	Pioneer
	Explorer
	Modern
	Legacy
	Pauper
	Vintage
	Penny
	Commander
	Oathbreaker
	StandardBrawl
	Brawl
	Alchemy
	PauperCommander
	Duel
	OldSchool
	Premodern
	Predh
)

var formatNames = [...]string{
	"",
	"standard",
	"future",
	"historic",
	"timeless",
	"gladiator",
	"pioneer",
	"explorer",
	"modern",
	"legacy",
	"pauper",
	"vintage",
	"penny",
	"commander",
	"oathbreaker",
	"standardbrawl",
	"brawl",
	"alchemy",
	"paupercommander",
	"duel",
	"oldschool",
	"premodern",
	"predh",
}

var formatByKey = func() map[string]Format {
	m := make(map[string]Format, len(formatNames))
	for i, n := range formatNames {
		if n != "" {
			m[n] = Format(i)
		}
	}
	return m
}()

// LookupFormat maps a legality key to a Format. Unknown keys report false.
func LookupFormat(key string) (Format, bool) {
	f, ok := formatByKey[strings.ToLower(key)]
	return f, ok
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return ""
}

// Game is a platform a printing is available on.
type Game uint8

const (
	Paper Game = iota + 1
	Arena
	MTGO
	Astral
	Sega
)

var gameNames = [...]string{"", "paper", "arena", "mtgo", "astral", "sega"}

// LookupGame maps a platform name to a Game. Unknown names report false.
func LookupGame(name string) (Game, bool) {
	name = strings.ToLower(name)
	for i, n := range gameNames {
		if n != "" && n == name {
			return Game(i), true
		}
	}
	return 0, false
}

func (g Game) String() string {
	if int(g) < len(gameNames) {
		return gameNames[g]
	}
	return ""
}

// Rarity of a printing.
type Rarity uint8

const (
	UnknownRarity Rarity = iota
	Common
	Uncommon
	Rare
	Mythic
	Special
	Bonus
)

var rarityNames = [...]string{"", "common", "uncommon", "rare", "mythic", "special", "bonus"}

// LookupRarity maps a rarity name to a Rarity; unknown names yield
// UnknownRarity.
func LookupRarity(name string) Rarity {
	name = strings.ToLower(name)
	for i, n := range rarityNames {
		if n != "" && n == name {
			return Rarity(i)
		}
	}
	return UnknownRarity
}

func (r Rarity) String() string {
	if int(r) < len(rarityNames) {
		return rarityNames[r]
	}
	return ""
}

// enum is satisfied by every enumeration above.
type enum interface {
	~uint8
	String() string
}

// SortedSet returns the distinct, non-zero members of in, ordered by their
// declaration order. The result is never nil.
func SortedSet[E enum](in []E) []E {
	out := make([]E, 0, len(in))
	for _, e := range in {
		if e != 0 {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Names returns the string form of each member, preserving order.
func Names[E enum](in []E) []string {
	out := make([]string, len(in))
	for i, e := range in {
		out[i] = e.String()
	}
	return out
}

// Labels of every declared member, in declaration order. Used to render the
// CREATE TYPE ... AS ENUM statements.
func ColourLabels() []string { return slices.Clone(colourNames[1:]) }
func FormatLabels() []string { return slices.Clone(formatNames[1:]) }
func GameLabels() []string   { return slices.Clone(gameNames[1:]) }
func RarityLabels() []string { return slices.Clone(rarityNames[1:]) }
