package params

import (
	"mime/multipart"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// arraySuffix marks names whose values always resolve to a list.
const arraySuffix = "[]"

// Entry is one (name, value) pair.
type Entry struct {
	Name  string
	Value any
}

// Params is an ordered, multi-valued list of entries.
// The zero value is an empty list ready to use. Params is not safe for
// concurrent mutation.
type Params struct {
	entries []Entry
}

// New builds params from raw, which may be nil, *Params, []Entry,
// map[string]any, map[string]string, map[string][]string, url.Values, a query
// string, *multipart.Form or *FormData. Any other shape fails with an
// *UnsupportedTypeError.
func New(raw any) (*Params, error) {
	p := &Params{}
	if err := p.AddAll(raw); err != nil {
		return nil, err
	}
	return p, nil
}

// Wrap returns raw itself if it already is *Params and New(raw) otherwise.
func Wrap(raw any) (*Params, error) {
	if p, ok := raw.(*Params); ok && p != nil {
		return p, nil
	}
	return New(raw)
}

// FromEntries builds params from a list of entries.
func FromEntries(entries []Entry) *Params {
	p := &Params{}
	p.AddAllFromEntries(entries)
	return p
}

// FromMap builds params from a map. Keys are added in sorted order; slice
// values add one entry per element.
func FromMap(m map[string]any) *Params {
	p := &Params{}
	p.AddAllFromMap(m)
	return p
}

// FromQuery builds params from a query string without a leading "?".
func FromQuery(query string) *Params {
	p := &Params{}
	p.AddAllFromQuery(query)
	return p
}

// FromMultipart builds params from a parsed multipart form.
func FromMultipart(form *multipart.Form) *Params {
	p := &Params{}
	p.AddAllFromMultipart(form)
	return p
}

// Copy returns an independent copy of p.
func (p *Params) Copy() *Params {
	return FromEntries(p.entries)
}

// AddAll adds every entry of raw, dispatching on its shape like New.
func (p *Params) AddAll(raw any) error {
	switch v := raw.(type) {
	case nil:
	case *Params:
		if v != nil {
			p.AddAllFromEntries(v.entries)
		}
	case []Entry:
		p.AddAllFromEntries(v)
	case map[string]any:
		p.AddAllFromMap(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		p.AddAllFromMap(m)
	case url.Values:
		p.addAllFromValues(v)
	case map[string][]string:
		p.addAllFromValues(v)
	case string:
		p.AddAllFromQuery(v)
	case *multipart.Form:
		p.AddAllFromMultipart(v)
	case *FormData:
		if v != nil {
			p.AddAllFromEntries(v.entries)
		}
	default:
		return &UnsupportedTypeError{Value: raw}
	}
	return nil
}

// AddAllFromEntries appends a copy of every entry.
func (p *Params) AddAllFromEntries(entries []Entry) {
	p.entries = append(p.entries, entries...)
}

// AddAllFromMap appends the entries of m, keys in sorted order.
func (p *Params) AddAllFromMap(m map[string]any) {
	for _, name := range sortedKeys(m) {
		p.addValues(name, m[name])
	}
}

// addAllFromValues appends the entries of a string multimap.
func (p *Params) addAllFromValues(m map[string][]string) {
	for _, name := range sortedKeys(m) {
		for _, v := range m[name] {
			p.Add(name, v)
		}
	}
}

// AddAllFromMultipart appends the values and files of form. For each name in
// sorted order the text values come before the files.
func (p *Params) AddAllFromMultipart(form *multipart.Form) {
	if form == nil {
		return
	}

	names := make(map[string]struct{}, len(form.Value)+len(form.File))
	for name := range form.Value {
		names[name] = struct{}{}
	}
	for name := range form.File {
		names[name] = struct{}{}
	}

	for _, name := range sortedKeys(names) {
		for _, v := range form.Value[name] {
			p.Add(name, v)
		}
		for _, fh := range form.File[name] {
			p.Add(name, FileHeaderBlob(fh))
		}
	}
}

// addValues adds one entry per element when value is a slice.
func (p *Params) addValues(name string, value any) {
	switch vs := value.(type) {
	case []any:
		for _, v := range vs {
			p.Add(name, v)
		}
	case []string:
		for _, v := range vs {
			p.Add(name, v)
		}
	default:
		p.Add(name, value)
	}
}

// Add appends an entry. Existing entries with the same name are kept.
func (p *Params) Add(name string, value any) {
	p.entries = append(p.entries, Entry{Name: name, Value: value})
}

// Set replaces all entries named name with a single entry.
func (p *Params) Set(name string, value any) {
	p.Delete(name)
	p.Add(name, value)
}

// Delete removes all entries named name.
func (p *Params) Delete(name string) {
	kept := p.entries[:0:0]
	for _, e := range p.entries {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	p.entries = kept
}

// Get returns the value for name. For array keys it returns every value as
// []any, empty when there is none. For other names it returns the first
// matching value, or nil.
func (p *Params) Get(name string) any {
	if IsArrayKey(name) {
		return p.GetAll(name)
	}
	for _, e := range p.entries {
		if e.Name == name {
			return e.Value
		}
	}
	return nil
}

// GetAll returns every value for name in entry order. The result is never nil.
func (p *Params) GetAll(name string) []any {
	values := []any{}
	for _, e := range p.entries {
		if e.Name == name {
			values = append(values, e.Value)
		}
	}
	return values
}

// IsEmpty reports whether p has no entries.
func (p *Params) IsEmpty() bool {
	return len(p.entries) == 0
}

// Len returns the number of entries.
func (p *Params) Len() int {
	return len(p.entries)
}

// HasBinaryValues reports whether any value is binary.
func (p *Params) HasBinaryValues() bool {
	for _, e := range p.entries {
		if IsBinary(e.Value) {
			return true
		}
	}
	return false
}

// Equal reports whether other holds the same entries in the same order.
func (p *Params) Equal(other *Params) bool {
	if p == nil || other == nil {
		return p == other
	}
	return cmp.Equal(p.entries, other.entries,
		cmpopts.EquateEmpty(),
		cmp.Exporter(func(reflect.Type) bool { return true }),
	)
}

// IsArrayKey reports whether name ends in "[]".
func IsArrayKey(name string) bool {
	return strings.HasSuffix(name, arraySuffix)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
