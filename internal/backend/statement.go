package backend

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Statement is a parameterized SQL statement using "?" placeholders.
// Both sqlite and gorm's postgres dialect accept that form.
type Statement struct {
	SQL  string
	Args []any
}

func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("invalid identifier %q", name)
	}
	return `"` + name + `"`, nil
}

// SelectStatement renders q as SELECT * with its filters, order and limit.
func SelectStatement(q Query) (Statement, error) {
	table, err := quoteIdent(q.Table)
	if err != nil {
		return Statement{}, err
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(table)

	where, args, err := whereClause(q.Filters)
	if err != nil {
		return Statement{}, err
	}
	b.WriteString(where)

	if q.Order != nil {
		col, err := quoteIdent(q.Order.Column)
		if err != nil {
			return Statement{}, err
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(col)
		if q.Order.Descending {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}
	if q.Single {
		b.WriteString(" LIMIT 1")
	}
	return Statement{SQL: b.String(), Args: args}, nil
}

// InsertStatement renders an INSERT ... RETURNING * for rec. With conflict
// columns it becomes an upsert that updates every other column except id.
func InsertStatement(table string, rec Record, conflict []string) (Statement, error) {
	qt, err := quoteIdent(table)
	if err != nil {
		return Statement{}, err
	}

	cols := SortedColumns(rec)
	if len(cols) == 0 {
		return Statement{}, fmt.Errorf("insert into %s: empty record", table)
	}

	quoted := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		if quoted[i], err = quoteIdent(c); err != nil {
			return Statement{}, err
		}
		args[i] = bindValue(rec[c])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s)",
		qt,
		strings.Join(quoted, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)

	if len(conflict) > 0 {
		target := make([]string, len(conflict))
		for i, c := range conflict {
			if target[i], err = quoteIdent(c); err != nil {
				return Statement{}, err
			}
		}

		var sets []string
		for i, c := range cols {
			if c == "id" || slices.Contains(conflict, c) {
				continue
			}
			sets = append(sets, quoted[i]+" = excluded."+quoted[i])
		}
		// DO NOTHING would suppress RETURNING for the existing row.
		if len(sets) == 0 {
			sets = append(sets, target[0]+" = excluded."+target[0])
		}
		fmt.Fprintf(&b, " ON CONFLICT (%s) DO UPDATE SET %s",
			strings.Join(target, ", "),
			strings.Join(sets, ", "),
		)
	}

	b.WriteString(" RETURNING *")
	return Statement{SQL: b.String(), Args: args}, nil
}

// DeleteStatement renders a DELETE for the filters. An empty filter list
// is rejected rather than truncating the table.
func DeleteStatement(table string, filters []Filter) (Statement, error) {
	qt, err := quoteIdent(table)
	if err != nil {
		return Statement{}, err
	}
	if len(filters) == 0 {
		return Statement{}, fmt.Errorf("delete from %s: no filters", table)
	}
	where, args, err := whereClause(filters)
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: "DELETE FROM " + qt + where, Args: args}, nil
}

func whereClause(filters []Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(filters))
	var args []any
	for _, f := range filters {
		col, err := quoteIdent(f.Column)
		if err != nil {
			return "", nil, err
		}
		if f.Value == nil {
			parts = append(parts, col+" IS NULL")
			continue
		}
		parts = append(parts, col+" = ?")
		args = append(args, bindValue(f.Value))
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

// bindValue passes scalars through and renders anything else as text.
func bindValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int32, int64, float64, []byte:
		return v
	default:
		return CanonicalText(v)
	}
}
