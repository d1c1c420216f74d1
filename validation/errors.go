package validation

import (
	"strings"
	"unicode"
)

// Errors is a field-keyed collection of validation messages. Fields keep the
// order in which their first message was added.
type Errors struct {
	fields   []string
	messages map[string][]string
}

func NewErrors() *Errors {
	return &Errors{messages: map[string][]string{}}
}

// Add records a message against field.
func (e *Errors) Add(field, message string) {
	if e.messages == nil {
		e.messages = map[string][]string{}
	}
	if _, seen := e.messages[field]; !seen {
		e.fields = append(e.fields, field)
	}
	e.messages[field] = append(e.messages[field], message)
}

// Merge appends every message of other.
func (e *Errors) Merge(other *Errors) {
	if other == nil {
		return
	}
	for _, f := range other.fields {
		for _, m := range other.messages[f] {
			e.Add(f, m)
		}
	}
}

// Without returns a copy of e with field's messages dropped.
func (e *Errors) Without(field string) *Errors {
	out := NewErrors()
	if e == nil {
		return out
	}
	for _, f := range e.fields {
		if f == field {
			continue
		}
		for _, m := range e.messages[f] {
			out.Add(f, m)
		}
	}
	return out
}

func (e *Errors) Empty() bool { return e == nil || len(e.fields) == 0 }

// On returns the messages recorded for field.
func (e *Errors) On(field string) []string {
	if e == nil {
		return nil
	}
	return e.messages[field]
}

func (e *Errors) Fields() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.fields...)
}

// Map returns a copy of the collection as a plain map.
func (e *Errors) Map() map[string][]string {
	if e == nil {
		return nil
	}
	out := make(map[string][]string, len(e.fields))
	for _, f := range e.fields {
		out[f] = append([]string(nil), e.messages[f]...)
	}
	return out
}

// FullMessages renders one "<Humanized field> <message>" line per violated rule.
func (e *Errors) FullMessages() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		name := Humanize(f)
		for _, m := range e.messages[f] {
			out = append(out, name+" "+m)
		}
	}
	return out
}

func (e *Errors) Error() string {
	return "validation failed: " + strings.Join(e.FullMessages(), "; ")
}

// OrNil returns e as an error, or nil when nothing was recorded.
func (e *Errors) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Humanize turns a snake_case attribute into a label: "published_at" -> "Published at".
func Humanize(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
