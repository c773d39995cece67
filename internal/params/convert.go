package params

import (
	"fmt"
	"strings"
)

// ToObject folds the entries into a map. A plain name takes the value of its
// last entry; an array key collects all of its values as []any.
func (p *Params) ToObject() map[string]any {
	obj := make(map[string]any, len(p.entries))
	for _, e := range p.entries {
		if IsArrayKey(e.Name) {
			list, _ := obj[e.Name].([]any)
			obj[e.Name] = append(list, e.Value)
		} else {
			obj[e.Name] = e.Value
		}
	}
	return obj
}

// ToArray returns a copy of the entries in insertion order.
func (p *Params) ToArray() []Entry {
	entries := make([]Entry, len(p.entries))
	copy(entries, p.entries)
	return entries
}

// ToQuery encodes the entries as a query string without a leading "?".
// Binary values are skipped.
func (p *Params) ToQuery() string {
	parts := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		if IsBinary(e.Value) {
			continue
		}
		parts = append(parts, encodeEntry(e))
	}
	return strings.Join(parts, "&")
}

// ToURL appends the query string to base, using "&" when base already has a
// query. base is returned unchanged when there is nothing to append.
func (p *Params) ToURL(base string) string {
	query := p.ToQuery()
	if query == "" {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query
}

// encodeEntry encodes one entry, keeping the nil / empty / non-empty
// distinction.
func encodeEntry(e Entry) string {
	name := EncodeComponent(e.Name)
	switch v := e.Value.(type) {
	case nil:
		return name
	case string:
		return name + "=" + EncodeComponent(v)
	default:
		return name + "=" + EncodeComponent(fmt.Sprint(v))
	}
}

// stringValue renders a non-binary value as form text. nil becomes "".
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
