package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want []Entry
	}{
		{"http://x.com", []Entry{}},
		{"http://x.com/path?", []Entry{}},
		{"http://x.com/path?a=1&b", []Entry{{"a", "1"}, {"b", nil}}},
		{"/search?q=go%20lang#results", []Entry{{"q", "go lang"}}},
		{"?a=", []Entry{{"a", ""}}},
		{"/p#frag?not=query", []Entry{}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FromURL(tt.url).ToArray())
		})
	}
}

func TestStripURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://x.com", "http://x.com"},
		{"http://x.com/path?a=1", "http://x.com/path"},
		{"http://x.com/path?a=1#top", "http://x.com/path"},
		{"/search?q=go", "/search"},
		{"/search?", "/search"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, StripURL(tt.url))
		})
	}
}

func TestSplitURL_Unparseable(t *testing.T) {
	base, query := splitURL("http://[::1/bad?a=1#f")
	assert.Equal(t, "http://[::1/bad", base)
	assert.Equal(t, "a=1", query)
}
