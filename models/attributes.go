// ABOUTME: Lenient JSON types for records imported from browser backups
// ABOUTME: RecordID accepts numeric ids and Attributes stringifies scalar values
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RecordID is an opaque customer identifier.
// Older backups carry numeric ids; they decode to their decimal string.
type RecordID string

func (id RecordID) String() string {
	return string(id)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("invalid record id %s: %w", string(data), err)
	}
	*id = RecordID(n.String())
	return nil
}

// Attributes is the free-form general attribute bag of a record.
type Attributes map[string]string

// Get returns the value for key, or "" when unset.
func (a Attributes) Get(key string) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// Clone returns a copy of the bag.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	out := make(Attributes, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			encoded, err := json.Marshal(val)
			if err != nil {
				return err
			}
			out[k] = string(encoded)
		}
	}
	*a = out
	return nil
}
