package textutil

import (
	"reflect"
	"testing"

	"scryfallsql/internal/model"
)

func strPtr(s string) *string { return &s }

func TestParseManaCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"blank", "   ", []string{}},
		{"generic and coloured", "{2}{W}{W}", []string{"2", "W", "W"}},
		{"hybrid and phyrexian", "{G/U}{W/P}{X}", []string{"G/U", "W/P", "X"}},
		{"split card halves", "{1}{R} // {2}{U}", []string{"1", "R", "2", "U"}},
		{"unterminated symbol", "{2}{W", []string{}},
		{"bare letters", "2WW", []string{}},
		{"nested braces", "{{W}}", []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseManaCost(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseManaCost(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTypeLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           string
		wantTypes    []string
		wantSubtypes []string
	}{
		{"no subtypes", "Instant", []string{"Instant"}, []string{}},
		{"em dash", "Legendary Creature — Elf Warrior", []string{"Legendary", "Creature"}, []string{"Elf", "Warrior"}},
		{"hyphen separator", "Artifact Creature - Assembly-Worker", []string{"Artifact", "Creature"}, []string{"Assembly-Worker"}},
		{"trailing separator", "Creature —", []string{"Creature"}, []string{}},
		{"empty", "", []string{}, []string{}},
		{"missing types", "— Elf", []string{}, []string{}},
		{"two separators", "Creature — Elf — Druid", []string{}, []string{}},
		{"two faces", "Creature — Human // Creature — Werewolf", []string{}, []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			types, subtypes := ParseTypeLine(tt.in)
			if !reflect.DeepEqual(types, tt.wantTypes) {
				t.Errorf("types = %#v, want %#v", types, tt.wantTypes)
			}
			if !reflect.DeepEqual(subtypes, tt.wantSubtypes) {
				t.Errorf("subtypes = %#v, want %#v", subtypes, tt.wantSubtypes)
			}
		})
	}
}

func TestParseColourIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []model.Colour
	}{
		{"nil", nil, []model.Colour{}},
		{"letters", []string{"G", "W"}, []model.Colour{model.White, model.Green}},
		{"mana symbols", []string{"2", "W", "W"}, []model.Colour{model.White}},
		{"hybrid", []string{"G/U", "2/B"}, []model.Colour{model.Blue, model.Black, model.Green}},
		{"colourless and unknown", []string{"C", "X", "S", "Z"}, []model.Colour{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ParseColourIdentity(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseColourIdentity(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeQuotes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Urza's Tower", "Urza''s Tower"},
		{"''", "''''"},
		{`back\slash`, `back\slash`},
		{"nul\x00byte", "nulbyte"},
		{"'; DROP TABLE scryfall.card; --", "''; DROP TABLE scryfall.card; --"},
		// "e" followed by a combining acute accent composes to a single rune.
		{"Se\u0301ance", "S\u00e9ance"},
	}
	for _, tt := range tests {
		tt := tt
		if got := EscapeQuotes(tt.in); got != tt.want {
			t.Errorf("EscapeQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuotedStringOrNullLiteral(t *testing.T) {
	t.Parallel()

	if got := QuotedStringOrNullLiteral(nil); got != "NULL" {
		t.Fatalf("nil -> %q, want NULL", got)
	}
	if got := QuotedStringOrNullLiteral(strPtr("*")); got != "'*'" {
		t.Fatalf("* -> %q", got)
	}
	if got := QuotedStringOrNullLiteral(strPtr("")); got != "''" {
		t.Fatalf("empty -> %q, want ''", got)
	}
	if got := QuotedStringOrNullLiteral(strPtr("Jace's")); got != "'Jace''s'" {
		t.Fatalf("quote -> %q", got)
	}
}

func TestDelimitedString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []string
		quote bool
		want  string
	}{
		{"empty quoted", nil, true, ""},
		{"empty bare", []string{}, false, ""},
		{"quoted", []string{"Flying", "Hexproof"}, true, "'Flying','Hexproof'"},
		{"quoted escape", []string{"Urza's"}, true, "'Urza''s'"},
		{"bare", []string{"'white'", "'blue'"}, false, "'white','blue'"},
	}
	for _, tt := range tests {
		tt := tt
		if got := DelimitedString(tt.items, tt.quote); got != tt.want {
			t.Errorf("%s: DelimitedString = %q, want %q", tt.name, got, tt.want)
		}
	}
}
