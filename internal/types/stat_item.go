// Package types provides type definitions for the statistics artifacts produced by the BPK aggregation pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// StatItem is a single {label, value} pair of a ranked list.
type StatItem struct {
	Label string    `json:"label"`
	Value StatValue `json:"value"`
}

// StatValue holds either a number or a string, remembering which one the source carried.
type StatValue struct {
	Number float64
	Text   string
	IsText bool
}

// NumberValue returns a numeric StatValue.
func NumberValue(n float64) StatValue {
	return StatValue{Number: n}
}

// TextValue returns a string StatValue.
func TextValue(s string) StatValue {
	return StatValue{Text: s, IsText: true}
}

// String renders the value for display.
func (v StatValue) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// MarshalJSON writes the value back in the shape it was read.
func (v StatValue) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Number)
}

// UnmarshalJSON accepts a JSON number, a JSON string or null. Any other
// literal is kept verbatim as text so one odd entry does not discard the list.
func (v *StatValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = StatValue{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		*v = TextValue(string(data))
		return nil
	}
	*v = NumberValue(n)
	return nil
}

// DateRange is the [start, end] publish date range of a corpus. Either bound may be null.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}
