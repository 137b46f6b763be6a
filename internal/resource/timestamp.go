// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order. The zone-less layouts come from
// datetime-local form inputs and older backend rows.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp is a time that accepts the loose formats the backend and the
// browser send, and always writes RFC 3339.
type Timestamp struct {
	time.Time
}

// ParseTimestamp reads value in any accepted layout.
func ParseTimestamp(value string) (Timestamp, error) {
	return ParseTimestampIn(value, time.UTC)
}

// ParseTimestampIn is ParseTimestamp with zone-less values read in loc.
// Values carrying their own offset keep it.
func ParseTimestampIn(value string, loc *time.Location) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return Timestamp{Time: parsed}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("resource: unrecognised time %q", value)
}

// MustTimestamp is ParseTimestamp for literals known to be valid.
func MustTimestamp(value string) Timestamp {
	ts, err := ParseTimestamp(value)
	if err != nil {
		panic(err)
	}
	return ts
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("resource: time must be a string: %w", err)
	}
	if raw == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
