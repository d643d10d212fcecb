package database

import (
	"errors"
	"fmt"
	"strings"
)

// TableName is a [database.][schema.]table identifier.
type TableName struct {
	Database string
	Schema   string
	Table    string
}

// ParseTableName splits a dotted table name. Parts may be wrapped in double
// quotes, in which case dots inside them are kept and "" stands for one quote.
func ParseTableName(s string) (TableName, error) {
	parts, err := splitIdent(strings.TrimSpace(s))
	if err != nil {
		return TableName{}, fmt.Errorf("parse table name %q: %w", s, err)
	}

	switch len(parts) {
	case 1:
		return TableName{Table: parts[0]}, nil
	case 2:
		return TableName{Schema: parts[0], Table: parts[1]}, nil
	case 3:
		return TableName{Database: parts[0], Schema: parts[1], Table: parts[2]}, nil
	default:
		return TableName{}, fmt.Errorf("parse table name %q: expected at most 3 parts, got %d", s, len(parts))
	}
}

func splitIdent(s string) ([]string, error) {
	var (
		parts  []string
		cur    strings.Builder
		quoted bool
		wasQ   bool // current part was quoted
	)
	flush := func() error {
		if cur.Len() == 0 {
			return errors.New("empty identifier")
		}
		parts = append(parts, cur.String())
		cur.Reset()
		wasQ = false
		return nil
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoted && c == '"':
			if i+1 < len(s) && s[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			quoted = false
		case quoted:
			cur.WriteByte(c)
		case c == '"':
			if cur.Len() > 0 {
				return nil, errors.New("quote inside unquoted identifier")
			}
			quoted = true
			wasQ = true
		case c == '.':
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			if wasQ {
				return nil, errors.New("text after closing quote")
			}
			cur.WriteByte(c)
		}
	}
	if quoted {
		return nil, errors.New("unterminated quote")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return parts, nil
}

// Parts returns the non-empty name parts, outermost first.
func (t TableName) Parts() []string {
	out := make([]string, 0, 3)
	for _, p := range []string{t.Database, t.Schema, t.Table} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Quoted renders the name with every part double-quoted.
func (t TableName) Quoted() string {
	parts := t.Parts()
	for i, p := range parts {
		parts[i] = QuoteIdent(p)
	}
	return strings.Join(parts, ".")
}

func (t TableName) String() string {
	return strings.Join(t.Parts(), ".")
}

// QuoteIdent double-quotes an identifier, escaping embedded quotes.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = QuoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
