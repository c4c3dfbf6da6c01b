package schema

import (
	"strings"

	"github.com/roach88/recstore/internal/record"
)

// Column is a data column in a table definition. The id column is implied by
// the table's Strategy and never listed.
type Column struct {
	Name string
	Type record.ColumnType
}

// TableDef holds a table name, its key strategy and its data columns in order.
type TableDef struct {
	Name     string
	Strategy Strategy
	Columns  []Column
}

// Build derives a TableDef from a sample record.
//
// Columns follow the sample's field order with types from record.TypeOf.
// The sample's own id field, in any letter case, is ignored. ok is false when
// the sample has no data fields, in which case there is nothing to create.
func Build(name string, sample *record.Record, strategy Strategy) (def TableDef, ok bool) {
	def = TableDef{Name: name, Strategy: strategy}
	for k, v := range sample.All() {
		if record.IsIDField(k) {
			continue
		}
		def.Columns = append(def.Columns, Column{Name: k, Type: record.TypeOf(v)})
	}
	return def, len(def.Columns) > 0
}

// ColumnNames returns the data column names in order.
func (d TableDef) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// CreateSQL renders the create table statement:
//
//	create table "npcs" (
//	  "id" integer not null unique,
//	  "name" text,
//	  primary key("id" autoincrement)
//	);
//
// Typeless columns are emitted without a declared type.
func (d TableDef) CreateSQL() string {
	var b strings.Builder
	b.WriteString("create table ")
	b.WriteString(QuoteIdent(d.Name))
	b.WriteString(" (\n")

	b.WriteString("  ")
	b.WriteString(QuoteIdent(record.IDField))
	b.WriteString(" ")
	b.WriteString(string(d.Strategy.IDType()))
	b.WriteString(" not null unique,\n")

	for _, c := range d.Columns {
		b.WriteString("  ")
		b.WriteString(QuoteIdent(c.Name))
		if c.Type != record.TypeNone {
			b.WriteString(" ")
			b.WriteString(string(c.Type))
		}
		b.WriteString(",\n")
	}

	b.WriteString("  primary key(")
	b.WriteString(QuoteIdent(record.IDField))
	if d.Strategy == Sequential {
		b.WriteString(" autoincrement")
	}
	b.WriteString(")\n);")
	return b.String()
}

// QuoteIdent quotes an SQL identifier, doubling embedded quotes.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
