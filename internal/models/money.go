package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// displayPrecision is the number of decimals shown for money amounts
const displayPrecision int32 = 2

// FormatMoney renders an amount for display, e.g. "$75.00". The value itself is not rounded.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(displayPrecision)
}

// JSONAmount encodes an amount as a JSON number carrying its exact decimal text
func JSONAmount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// stores may emit naive datetimes without a zone
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a time.Time that also accepts ISO-8601 values without a zone (read as UTC)
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON parses RFC 3339 or zone-less ISO-8601 strings; null leaves the zero value
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	s = strings.Trim(s, `"`)

	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON emits RFC 3339 in UTC
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
