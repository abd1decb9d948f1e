package models

import (
	"bytes"
	"encoding/json"
)

// Project groups tasks.
type Project struct {
	ID          ID     `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tag is a label attached to tasks.
type Tag struct {
	ID    ID     `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// UnmarshalJSON accepts either a tag object or a bare identifier, since
// some endpoints embed tags and others send only their ids.
func (t *Tag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] != '{' {
		var id ID
		if err := id.UnmarshalJSON(data); err != nil {
			return err
		}
		*t = Tag{ID: id}
		return nil
	}
	type plain Tag
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Tag(p)
	return nil
}
