// Package scope builds firm-isolated read queries compositionally. The firm
// predicate is a first-class condition appended alongside every other
// condition, never pattern-matched into query text, so a scoped query is
// structurally guaranteed to carry it.
package scope

import (
	"strconv"
	"strings"

	"github.com/estateflow/backend/internal/firm"
)

// Query accumulates a base SELECT, conditions, ordering and a limit.
// Conditions use `?` placeholders and are renumbered to PostgreSQL `$n`
// placeholders when the query is rendered.
type Query struct {
	base   string
	conds  []string
	args   []any
	order  string
	limitN int
}

// Select starts a query from a base SELECT statement without a WHERE clause.
func Select(base string) *Query {
	return &Query{base: base}
}

// Where conjoins a condition. All conditions are ANDed.
func (q *Query) Where(cond string, args ...any) *Query {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
	return q
}

// ForFirm scopes the query to the context's firm. The predicate is skipped
// only in the explicit platform-admin all-firms state; any other context
// without a firm id (including nil) yields a query matching no rows.
func (q *Query) ForFirm(fc *firm.Context) *Query {
	if fc.AllFirms() {
		return q
	}
	if fc == nil || fc.FirmID == nil {
		q.conds = append(q.conds, "FALSE")
		return q
	}
	return q.Where("firm_id = ?", *fc.FirmID)
}

// OrderBy sets the ORDER BY expression.
func (q *Query) OrderBy(expr string) *Query {
	q.order = expr
	return q
}

// Limit caps the number of returned rows. Non-positive values are ignored.
func (q *Query) Limit(n int) *Query {
	q.limitN = n
	return q
}

// SQL renders the statement and its arguments. `?` placeholders are
// rewritten to `$1..$n` in order of appearance.
func (q *Query) SQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString(q.base)
	if len(q.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.conds, " AND "))
	}
	if q.order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.order)
	}
	if q.limitN > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(q.limitN))
	}

	sql := sb.String()
	var out strings.Builder
	out.Grow(len(sql) + 8)
	n := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' {
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			continue
		}
		out.WriteByte(sql[i])
	}
	return out.String(), q.args
}
