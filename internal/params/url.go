package params

import (
	"net/url"
	"strings"
)

// FromURL builds params from the query component of rawURL. A URL without a
// query yields empty params.
func FromURL(rawURL string) *Params {
	_, query := splitURL(rawURL)
	return FromQuery(query)
}

// StripURL returns rawURL without its query and fragment.
func StripURL(rawURL string) string {
	base, _ := splitURL(rawURL)
	return base
}

// splitURL separates rawURL into the URL without query and fragment, and the
// raw query without its leading "?".
func splitURL(rawURL string) (base, query string) {
	if u, err := url.Parse(rawURL); err == nil {
		query = u.RawQuery
		u.RawQuery = ""
		u.ForceQuery = false
		u.Fragment = ""
		u.RawFragment = ""
		return u.String(), query
	}

	// Not parseable as a URL; fall back to cutting at the delimiters.
	s, _, _ := strings.Cut(rawURL, "#")
	base, query, _ = strings.Cut(s, "?")
	return base, query
}
