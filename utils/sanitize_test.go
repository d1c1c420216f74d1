package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain text", "plain text", "plain text"},
		{"allowed markup", "<b>bold</b>", "<b>bold</b>"},
		{"script", "<script>alert(1)</script>", ""},
		{"event handler", `<a href="https://example.com" onclick="x()">link</a>`, `<a href="https://example.com" rel="nofollow">link</a>`},
		{"multibyte", "日本語のタイトル", "日本語のタイトル"},
		{"ampersand and apostrophe", "Tom & Jerry's", "Tom & Jerry's"},
		{"quotes and comparison", `say "hi" if a < b`, `say "hi" if a < b`},
		{"entity encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_KeepsRuneCount(t *testing.T) {
	in := "O'Brien" + strings.Repeat("a", 42) + "&"
	assert.Equal(t, 50, utf8.RuneCountInString(Sanitize(in)))
}
