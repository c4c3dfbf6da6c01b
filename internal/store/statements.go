package store

import (
	"fmt"
	"strings"

	"github.com/roach88/recstore/internal/record"
	"github.com/roach88/recstore/internal/schema"
)

const (
	tableExistsSQL = `select count(*) from sqlite_master where type = 'table' and name = ?;`
	tablesSQL      = `select name from sqlite_master where type = 'table' and name not like 'sqlite\_%' escape '\' order by name;`
	columnsSQL     = `select name, type from pragma_table_info(?) order by cid;`
)

// insertSQL renders: insert into "t" ("a", "b") values (?, ?);
func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = schema.QuoteIdent(c)
		placeholders[i] = "?"
	}
	return fmt.Sprintf("insert into %s (%s) values (%s);",
		schema.QuoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}

// updateSQL renders: update "t" set "a" = ?, "b" = ? where id = ?;
func updateSQL(table string, columns []string) string {
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = schema.QuoteIdent(c) + " = ?"
	}
	return fmt.Sprintf("update %s set %s where %s = ?;",
		schema.QuoteIdent(table),
		strings.Join(sets, ", "),
		record.IDField,
	)
}

// selectSQL renders: select * from "t" where id = ?;
func selectSQL(table string) string {
	return fmt.Sprintf("select * from %s where %s = ?;", schema.QuoteIdent(table), record.IDField)
}

// countSQL renders: select count(*) from "t" where id = ?;
func countSQL(table string) string {
	return fmt.Sprintf("select count(*) from %s where %s = ?;", schema.QuoteIdent(table), record.IDField)
}
