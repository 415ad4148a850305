package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timestampLayouts are the textual forms accepted for version timestamps.
// Manifests written by .NET tooling omit the zone and carry 7 fraction digits.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp is an instant that remembers the JSON literal it was read from,
// so a manifest rewritten without changes is byte-identical to its input.
type Timestamp struct {
	time.Time
	raw json.RawMessage
}

// NewTimestamp returns a Timestamp for t, serialized as RFC 3339 in UTC.
func NewTimestamp(t time.Time) Timestamp {
	raw, _ := json.Marshal(t.UTC().Format(time.RFC3339))
	return Timestamp{Time: t.UTC(), raw: raw}
}

// ParseTimestamp parses a textual timestamp in any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := parseTime(s)
	if err != nil {
		return Timestamp{}, err
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return Timestamp{}, err
	}
	return Timestamp{Time: t, raw: raw}, nil
}

// UnixTimestamp returns a Timestamp serialized as a number of seconds.
func UnixTimestamp(sec int64) Timestamp {
	return Timestamp{
		Time: time.Unix(sec, 0).UTC(),
		raw:  json.RawMessage(strconv.FormatInt(sec, 10)),
	}
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// IsZero reports whether the timestamp was never set.
func (t Timestamp) IsZero() bool {
	return len(t.raw) == 0 && t.Time.IsZero()
}

// Before reports whether t is strictly earlier than u.
func (t Timestamp) Before(u Timestamp) bool {
	return t.Time.Before(u.Time)
}

// String returns the timestamp as it appears in the manifest.
func (t Timestamp) String() string {
	if len(t.raw) == 0 {
		return t.Time.UTC().Format(time.RFC3339)
	}
	if s, err := unmarshalString(t.raw); err == nil {
		return s
	}
	return string(t.raw)
}

// MarshalJSON writes the original literal back unchanged.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if len(t.raw) == 0 {
		return json.Marshal(t.Time.UTC().Format(time.RFC3339))
	}
	return t.raw, nil
}

// UnmarshalJSON accepts a timestamp string or a number of Unix seconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("timestamp is required")
	}

	if data[0] == '"' {
		s, err := unmarshalString(data)
		if err != nil {
			return err
		}
		parsed, err := parseTime(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		t.raw = append(json.RawMessage(nil), data...)
		return nil
	}

	sec, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("unrecognized timestamp %s", data)
	}
	whole := int64(sec)
	t.Time = time.Unix(whole, int64((sec-float64(whole))*float64(time.Second))).UTC()
	t.raw = append(json.RawMessage(nil), data...)
	return nil
}
