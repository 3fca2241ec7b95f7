package backend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/offroutechronicles/offroute-server/internal/id"
)

// Column kinds the SQL drivers cannot store natively.
//
//nolint:gochecknoglobals // Static column tables
var (
	arrayColumns = map[string]bool{"highlights": true, "gallery_images": true}
	boolColumns  = map[string]bool{"featured": true}
)

// EncodeRecord converts a record into its SQL storage form: list columns
// become JSON text. The input is not modified.
func EncodeRecord(rec Record) (Record, error) {
	out := make(Record, len(rec))
	for col, v := range rec {
		if arrayColumns[col] && v != nil {
			if _, isText := v.(string); !isText {
				b, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("encode column %s: %w", col, err)
				}
				v = string(b)
			}
		}
		out[col] = v
	}
	return out, nil
}

// DecodeRecord converts a row read from SQL back to the shape the REST
// backend returns: JSON text list columns become []any, integer booleans
// become bool, and byte slices become strings.
func DecodeRecord(rec Record) (Record, error) {
	out := make(Record, len(rec))
	for col, v := range rec {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}

		switch {
		case arrayColumns[col]:
			s, ok := v.(string)
			if !ok {
				break
			}
			if s == "" {
				v = nil
				break
			}
			var list []any
			if err := json.Unmarshal([]byte(s), &list); err != nil {
				return nil, fmt.Errorf("decode column %s: %w", col, err)
			}
			v = list
		case boolColumns[col]:
			v = decodeBool(v)
		}
		out[col] = v
	}
	return out, nil
}

func decodeBool(v any) any {
	switch x := v.(type) {
	case int64:
		return x != 0
	case int:
		return x != 0
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b
		}
	}
	return v
}

// SortedColumns returns rec's column names in a stable order, so the SQL
// built from a record is deterministic.
func SortedColumns(rec Record) []string {
	cols := make([]string, 0, len(rec))
	for c := range rec {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// WithID returns a copy of rec with a generated id when it has none.
func WithID(rec Record) Record {
	row := rec.Clone()
	if v, ok := row["id"].(string); !ok || v == "" {
		row["id"] = id.Row()
	}
	return row
}
