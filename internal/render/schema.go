package render

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"scryfallsql/internal/model"
)

// ColumnDef describes one column of a generated table.
//
// Fields:
//   - Name: column name (unquoted)
//   - SQLType: target SQL type (e.g., TEXT, UUID, scryfall.colour[])
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - References: optional "table(column)" foreign key target, emitted raw
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	References string
}

// TableDef holds a table's fully-qualified, already-quoted name and its
// ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// BuildCreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement.
//
// A column is rendered as:
//
//	<Name> <SQLType> [NOT NULL] [REFERENCES <References>]
//
// and primary key columns are collected into a trailing PRIMARY KEY clause.
func BuildCreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(name)
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if ref := strings.TrimSpace(c.References); ref != "" {
			sb.WriteString(" REFERENCES ")
			sb.WriteString(ref)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, name)
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", fqn, strings.Join(cols, ",\n  ")), nil
}

// BuildCreateEnumSQL renders an idempotent CREATE TYPE ... AS ENUM. Postgres
// has no IF NOT EXISTS for types, so the statement swallows duplicate_object.
func BuildCreateEnumSQL(typeName string, labels []string) (string, error) {
	typeName = strings.TrimSpace(typeName)
	if typeName == "" {
		return "", fmt.Errorf("ddl: enum type name must not be empty")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("ddl: enum %s has no labels", typeName)
	}
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = "'" + strings.ReplaceAll(l, "'", "''") + "'"
	}
	return fmt.Sprintf(
		"DO $$ BEGIN\n  CREATE TYPE %s AS ENUM (%s);\nEXCEPTION WHEN duplicate_object THEN NULL;\nEND $$;",
		typeName, strings.Join(quoted, ", "),
	), nil
}

// Tables returns the definitions of the four tables, parents first.
func (r *Renderer) Tables() []TableDef {
	return []TableDef{
		{
			FQN: r.setTable,
			Columns: []ColumnDef{
				{Name: "code", SQLType: "TEXT", PrimaryKey: true},
				{Name: "name", SQLType: "TEXT"},
				{Name: "release_date", SQLType: "DATE", Nullable: true},
			},
		},
		{
			FQN: r.cardTable,
			Columns: []ColumnDef{
				{Name: "id", SQLType: "UUID", PrimaryKey: true},
				{Name: "name", SQLType: "TEXT"},
				{Name: "formats", SQLType: r.typeName(typeFormat) + "[]"},
				{Name: "colour_identity", SQLType: r.typeName(typeColour) + "[]"},
				{Name: "keywords", SQLType: "TEXT[]"},
			},
		},
		{
			FQN: r.faceTable,
			Columns: []ColumnDef{
				{Name: "card_id", SQLType: "UUID", PrimaryKey: true, References: r.cardTable + "(id)"},
				{Name: "name", SQLType: "TEXT", PrimaryKey: true},
				{Name: "mana_value", SQLType: "NUMERIC"},
				{Name: "mana_cost", SQLType: "TEXT[]"},
				{Name: "colours", SQLType: r.typeName(typeColour) + "[]"},
				{Name: "types", SQLType: "TEXT[]"},
				{Name: "subtypes", SQLType: "TEXT[]"},
				{Name: "oracle_text", SQLType: "TEXT"},
				{Name: "power", SQLType: "TEXT", Nullable: true},
				{Name: "toughness", SQLType: "TEXT", Nullable: true},
				{Name: "loyalty", SQLType: "TEXT", Nullable: true},
			},
		},
		{
			FQN: r.editionTable,
			Columns: []ColumnDef{
				{Name: "id", SQLType: "UUID", PrimaryKey: true},
				{Name: "card_id", SQLType: "UUID", References: r.cardTable + "(id)"},
				{Name: "set_code", SQLType: "TEXT", References: r.setTable + "(code)"},
				{Name: "collector_number", SQLType: "TEXT"},
				{Name: "rarity", SQLType: r.typeName(typeRarity), Nullable: true},
				{Name: "is_reprint", SQLType: "BOOLEAN"},
				{Name: "games", SQLType: r.typeName(typeGame) + "[]"},
				{Name: "scryfall_url", SQLType: "TEXT"},
			},
		},
	}
}

// SchemaDDL renders the schema, its enum types and its tables as one script.
// Every statement is idempotent so the script may be re-applied.
func (r *Renderer) SchemaDDL() (string, error) {
	stmts := []string{"CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{r.schema}.Sanitize() + ";"}

	enums := []struct {
		name   string
		labels []string
	}{
		{typeColour, model.ColourLabels()},
		{typeFormat, model.FormatLabels()},
		{typeGame, model.GameLabels()},
		{typeRarity, model.RarityLabels()},
	}
	for _, e := range enums {
		s, err := BuildCreateEnumSQL(r.typeName(e.name), e.labels)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, s)
	}

	for _, t := range r.Tables() {
		s, err := BuildCreateTableSQL(t)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, s)
	}
	return strings.Join(stmts, "\n") + "\n", nil
}
