// Package render turns converted entities into PostgreSQL upsert statements.
//
// Every statement is an INSERT ... ON CONFLICT DO NOTHING built with squirrel.
// Values are inlined as literal expressions rather than bound as parameters,
// because the output is a standalone script and not a prepared query: free
// text goes through textutil's escaping, enum arrays are cast to the schema's
// enum types, and numbers and booleans use locale-independent formatting.
package render

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"scryfallsql/internal/model"
	"scryfallsql/internal/textutil"
)

// DefaultSchema is the schema that owns the tables and enum types.
const DefaultSchema = "scryfall"

const (
	tableSet         = "set"
	tableCard        = "card"
	tableCardFace    = "card_face"
	tableCardEdition = "card_edition"

	typeColour = "colour"
	typeFormat = "format"
	typeGame   = "game"
	typeRarity = "rarity"

	dateLayout = "2006-01-02"
)

var (
	setColumns     = []string{"code", "name", "release_date"}
	cardColumns    = []string{"id", "name", "formats", "colour_identity", "keywords"}
	faceColumns    = []string{"card_id", "name", "mana_value", "mana_cost", "colours", "types", "subtypes", "oracle_text", "power", "toughness", "loyalty"}
	editionColumns = []string{"id", "card_id", "set_code", "collector_number", "rarity", "is_reprint", "games", "scryfall_url"}
)

// Renderer renders statements against one schema. It holds no mutable state
// and is safe for concurrent use.
type Renderer struct {
	schema string

	setTable, cardTable, faceTable, editionTable string
}

// New returns a Renderer for schema; an empty schema selects DefaultSchema.
// The schema is expected to be a plain lower-case identifier (config
// validation enforces this) because enum type names are emitted unquoted.
func New(schema string) *Renderer {
	schema = strings.TrimSpace(schema)
	if schema == "" {
		schema = DefaultSchema
	}
	return &Renderer{
		schema:       schema,
		setTable:     pgx.Identifier{schema, tableSet}.Sanitize(),
		cardTable:    pgx.Identifier{schema, tableCard}.Sanitize(),
		faceTable:    pgx.Identifier{schema, tableCardFace}.Sanitize(),
		editionTable: pgx.Identifier{schema, tableCardEdition}.Sanitize(),
	}
}

// Schema returns the schema name statements are rendered against.
func (r *Renderer) Schema() string { return r.schema }

// Set renders the upsert for one set.
func (r *Renderer) Set(s model.MagicSet) (string, error) {
	date := textutil.NullLiteral
	if s.ReleaseDate != nil {
		date = textutil.QuotedString(s.ReleaseDate.Format(dateLayout)) + "::date"
	}
	return r.upsert(r.setTable, setColumns,
		textutil.QuotedString(s.Code),
		textutil.QuotedString(s.Name),
		date,
	)
}

// Card renders the card upsert followed by one card_face upsert per face,
// separated by newlines.
func (r *Renderer) Card(c model.Card) (string, error) {
	head, err := r.upsert(r.cardTable, cardColumns,
		uuidLiteral(c.ID),
		textutil.QuotedString(c.Name),
		enumArray(c.Formats, r.typeName(typeFormat)),
		enumArray(c.ColourIdentity, r.typeName(typeColour)),
		textArray(c.Keywords),
	)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(head)
	for i, f := range c.Faces {
		stmt, err := r.Face(f)
		if err != nil {
			return "", fmt.Errorf("face %d: %w", i, err)
		}
		b.WriteByte('\n')
		b.WriteString(stmt)
	}
	return b.String(), nil
}

// Face renders the upsert for a single card face.
func (r *Renderer) Face(f model.CardFace) (string, error) {
	return r.upsert(r.faceTable, faceColumns,
		uuidLiteral(f.CardID),
		textutil.QuotedString(f.Name),
		strconv.FormatFloat(f.ManaValue, 'f', -1, 64),
		textArray(f.ManaCost),
		enumArray(f.Colours, r.typeName(typeColour)),
		textArray(f.Types),
		textArray(f.Subtypes),
		textutil.QuotedString(f.OracleText),
		textutil.QuotedStringOrNullLiteral(f.Power),
		textutil.QuotedStringOrNullLiteral(f.Toughness),
		textutil.QuotedStringOrNullLiteral(f.Loyalty),
	)
}

// Edition renders the upsert for one printing. An unrecognised rarity is
// written as NULL.
func (r *Renderer) Edition(e model.CardEdition) (string, error) {
	rarity := textutil.NullLiteral
	if e.Rarity != model.UnknownRarity {
		rarity = textutil.QuotedString(e.Rarity.String()) + "::" + r.typeName(typeRarity)
	}
	return r.upsert(r.editionTable, editionColumns,
		uuidLiteral(e.ID),
		uuidLiteral(e.CardID),
		textutil.QuotedString(e.SetCode),
		textutil.QuotedString(e.CollectorNumber),
		rarity,
		strconv.FormatBool(e.IsReprint),
		enumArray(e.Games, r.typeName(typeGame)),
		textutil.QuotedString(e.ScryfallURL),
	)
}

func (r *Renderer) typeName(name string) string {
	return r.schema + "." + name
}

// upsert builds "INSERT INTO table (cols) VALUES (literals) ON CONFLICT DO
// NOTHING;". literals must already be valid SQL expressions.
func (r *Renderer) upsert(table string, columns []string, literals ...string) (string, error) {
	if len(columns) != len(literals) {
		return "", fmt.Errorf("render %s: %d columns but %d values", table, len(columns), len(literals))
	}
	values := make([]any, len(literals))
	for i, lit := range literals {
		values[i] = sq.Expr(lit)
	}
	stmt, args, err := sq.Insert(table).
		Columns(columns...).
		Values(values...).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("render %s: %w", table, err)
	}
	if len(args) != 0 {
		return "", fmt.Errorf("render %s: unexpected bind arguments", table)
	}
	return stmt + ";", nil
}

func uuidLiteral(id uuid.UUID) string {
	return textutil.QuotedString(id.String())
}

// enumArray renders ARRAY['a','b']::typ[]. Labels come from a closed set and
// are quoted without escaping.
func enumArray[E interface {
	~uint8
	String() string
}](vals []E, typ string) string {
	lits := make([]string, 0, len(vals))
	for _, v := range vals {
		lits = append(lits, "'"+v.String()+"'")
	}
	return "ARRAY[" + textutil.DelimitedString(lits, false) + "]::" + typ + "[]"
}

// textArray renders ARRAY['a','b']::text[]. The cast keeps empty arrays typed.
func textArray(items []string) string {
	return "ARRAY[" + textutil.DelimitedString(items, true) + "]::text[]"
}
