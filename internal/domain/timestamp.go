package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a time that unmarshals from any of the forms the backends
// produce:
//   - RFC3339 / RFC3339Nano: "2024-01-15T10:30:00Z"
//   - zone-less Postgres timestamps: "2024-01-15T10:30:00.123456" (read as UTC)
//   - SQL text timestamps: "2024-01-15 10:30:00"
//   - date only: "2024-01-15"
//   - epoch milliseconds, as a number or a numeric string
//
// It always marshals to RFC3339Nano in UTC, or null when zero.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Now returns the current time as a Timestamp.
func Now() Timestamp {
	return Timestamp{Time: time.Now().UTC()}
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) Timestamp {
	return Timestamp{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseTimestamp parses any of the accepted string forms.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp{Time: time.UnixMilli(ms)}, nil
	}
	return Timestamp{}, fmt.Errorf("cannot parse time string: %s", s)
}

// String formats the timestamp the way it is stored and sent.
func (t Timestamp) String() string {
	return t.UTC().Format(time.RFC3339Nano)
}

// UnmarshalJSON handles flexible time parsing from JSON.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		t.Time = time.UnixMilli(int64(ms))
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into Timestamp", string(data))
}

// MarshalJSON outputs RFC3339Nano in UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}
