package database

import (
	"strconv"
	"strings"

	"github.com/rickgao/polygon-tickers/internal/model"
)

// placeholder renders the n-th (1-based) bind parameter.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return "$" + strconv.Itoa(n) }

// countSQL returns the partition row count query.
func countSQL(t TableName, ph placeholder) string {
	return "SELECT COUNT(1) FROM " + t.Quoted() + " WHERE " + QuoteIdent(model.ColDS) + " = " + ph(1)
}

// insertSQL returns a multi-row INSERT for rows rows of model.Columns.
func insertSQL(t TableName, rows int, ph placeholder) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(t.Quoted())
	b.WriteString(" (")
	b.WriteString(quoteColumns(model.Columns))
	b.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range model.Columns {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteString(ph(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}
