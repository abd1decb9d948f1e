package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an opaque record identifier. The backend sends identifiers either as
// JSON strings or as JSON numbers; both decode to the same ID ("1" and 1 are
// equal). The empty ID means "absent".
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is absent.
func (id ID) IsZero() bool { return id == "" }

// isInteger reports whether the identifier is a plain base-10 integer.
func (id ID) isInteger() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// MarshalJSON encodes integer identifiers as JSON numbers and everything else
// as JSON strings, so round-tripping preserves the backend's representation.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isInteger() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// IDsToStrings converts a slice of IDs to plain strings.
func IDsToStrings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// IDsFromStrings converts plain strings to IDs, skipping empty values.
func IDsFromStrings(values []string) []ID {
	out := make([]ID, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, ID(v))
	}
	return out
}
