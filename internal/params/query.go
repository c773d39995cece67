package params

import (
	"net/url"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s like JavaScript's encodeURIComponent:
// everything except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) is escaped byte by byte.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unescaped(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// DecodeComponent reverses EncodeComponent. "+" is not treated as a space.
// Malformed escapes leave s unchanged.
func DecodeComponent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// AddAllFromQuery parses query and appends its entries. Empty segments are
// skipped. A segment without "=" yields a nil value, "name=" yields "".
func (p *Params) AddAllFromQuery(query string) {
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		name, value, hasValue := strings.Cut(part, "=")
		if hasValue {
			p.Add(DecodeComponent(name), DecodeComponent(value))
		} else {
			p.Add(DecodeComponent(name), nil)
		}
	}
}
