package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ArticleStatus is the publication state of an article. Storage uses the
// ordinal, the wire format uses the name.
type ArticleStatus int8

const (
	StatusDraft     ArticleStatus = 0
	StatusPublished ArticleStatus = 1
	StatusArchived  ArticleStatus = 2

	// StatusInvalid marks a blank or unrecognised status on the way in.
	StatusInvalid ArticleStatus = -1
)

var statusNames = map[ArticleStatus]string{
	StatusDraft:     "draft",
	StatusPublished: "published",
	StatusArchived:  "archived",
}

// ParseArticleStatus maps a wire name to its status. Unknown or blank names
// yield StatusInvalid and false.
func ParseArticleStatus(name string) (ArticleStatus, bool) {
	for _, s := range Statuses() {
		if s.String() == name {
			return s, true
		}
	}
	return StatusInvalid, false
}

// Statuses lists the known states in ordinal order.
func Statuses() []ArticleStatus {
	return []ArticleStatus{StatusDraft, StatusPublished, StatusArchived}
}

func (s ArticleStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s ArticleStatus) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return ""
}

func (s ArticleStatus) IsDraft() bool     { return s == StatusDraft }
func (s ArticleStatus) IsPublished() bool { return s == StatusPublished }
func (s ArticleStatus) IsArchived() bool  { return s == StatusArchived }

// Value stores the ordinal.
func (s ArticleStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid article status %d", int8(s))
	}
	return int64(s), nil
}

// Scan reads the ordinal back from the database.
func (s *ArticleStatus) Scan(src any) error {
	var n int64
	switch v := src.(type) {
	case int64:
		n = v
	case int32:
		n = int64(v)
	case uint8:
		n = int64(v)
	case []byte:
		if _, err := fmt.Sscan(string(v), &n); err != nil {
			return fmt.Errorf("scan article status %q: %w", v, err)
		}
	case string:
		if _, err := fmt.Sscan(v, &n); err != nil {
			return fmt.Errorf("scan article status %q: %w", v, err)
		}
	default:
		return fmt.Errorf("scan article status: unsupported type %T", src)
	}
	st := ArticleStatus(n)
	if !st.Valid() {
		return fmt.Errorf("scan article status: unknown ordinal %d", n)
	}
	*s = st
	return nil
}

func (s ArticleStatus) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *ArticleStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("article status must be a string: %w", err)
	}
	st, ok := ParseArticleStatus(name)
	if !ok {
		return fmt.Errorf("unknown article status %q", name)
	}
	*s = st
	return nil
}
