// Package params models request parameters as an ordered list of
// (name, value) entries.
//
// The same parameters show up in four shapes: a map, a list of entries, a
// query string and a multipart/form-data payload. Params keeps the entry list
// as the only state and derives the other shapes on demand:
//
//	p, err := params.New("a=1&tags[]=x&tags[]=y")
//	p.Get("a")          // "1"
//	p.Get("tags[]")     // []any{"x", "y"}
//	p.ToObject()        // map[string]any{"a": "1", "tags[]": []any{"x", "y"}}
//	p.ToURL("/search")  // "/search?a=1&tags%5B%5D=x&tags%5B%5D=y"
//
// # Names and values
//
// Names may repeat. A name ending in "[]" is an array key: Get returns every
// value for it, even when there is only one or none.
//
// A value is any Go value. Three values matter to the query encoding:
//
//	nil    encodes as "name"
//	""     encodes as "name="
//	"x"    encodes as "name=x"
//
// Values implementing Blob (and *multipart.FileHeader) are binary. They are
// dropped from query strings and written as file parts to form payloads.
//
// # Forms
//
// AddField follows browser form submission: unnamed and disabled fields are
// skipped, checkboxes and radio buttons count only when checked, multi-selects
// contribute one entry per selected option and file inputs one entry per
// file. The Field and Form interfaces are implemented by package htmlform.
package params
