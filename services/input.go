package services

import (
	"bytes"
	"encoding/json"
)

// Field is a string request attribute that remembers how it arrived. An
// omitted attribute leaves Set false; an explicit JSON null sets both Set and
// Null and leaves Value empty.
type Field struct {
	Set   bool
	Null  bool
	Value string
}

// Value builds a Field holding s, for callers that construct input directly.
func Value(s string) Field {
	return Field{Set: true, Value: s}
}

// Null builds a Field that was sent as JSON null.
func Null() Field {
	return Field{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for attributes present in the document,
// including those whose value is null.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		f.Value = ""
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
