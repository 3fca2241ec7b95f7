package backend

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/offroutechronicles/offroute-server/internal/domain"
)

// MatchRecord reports whether rec satisfies every filter. Values are
// compared by their canonical text form, so "1" matches 1 and true
// matches "true", the way PostgREST compares query-string filters.
func MatchRecord(rec Record, filters []Filter) bool {
	for _, f := range filters {
		v, ok := rec[f.Column]
		if !ok || v == nil {
			if f.Value == nil {
				continue
			}
			return false
		}
		if CanonicalText(v) != CanonicalText(f.Value) {
			return false
		}
	}
	return true
}

// Evaluate applies q's filters, order and limit to rows in memory.
// The input slice is not modified. Ordering is stable.
func Evaluate(rows []Record, q Query) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		if MatchRecord(r, q.Filters) {
			out = append(out, r.Clone())
		}
	}

	if q.Order != nil {
		col := q.Order.Column
		slices.SortStableFunc(out, func(a, b Record) int {
			c := CompareValues(a[col], b[col])
			if q.Order.Descending {
				return -c
			}
			return c
		})
	}

	if q.Single && len(out) > 1 {
		out = out[:1]
	}
	return out
}

// CompareValues orders two column values. Timestamps compare as instants,
// numbers numerically, everything else by text. Nil sorts first.
func CompareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb.Time)
		}
	}
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return cmp.Compare(CanonicalText(a), CanonicalText(b))
}

// CanonicalText renders a scalar column value as text.
func CanonicalText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func asTime(v any) (domain.Timestamp, bool) {
	switch x := v.(type) {
	case domain.Timestamp:
		return x, true
	case string:
		if len(x) < len("2006-01-02") {
			return domain.Timestamp{}, false
		}
		ts, err := domain.ParseTimestamp(x)
		// Plain integers parse as epoch millis; leave them to the numeric path.
		if err != nil || isInteger(x) {
			return domain.Timestamp{}, false
		}
		return ts, true
	}
	if t, ok := v.(interface{ UTC() time.Time }); ok {
		return domain.NewTimestamp(t.UTC()), true
	}
	return domain.Timestamp{}, false
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
