package params

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ToJSON encodes the object view as a JSON object. Keys appear in the order
// their names first occur in the entries, and any name is a valid key,
// including "". Binary values are written as
// {"filename": ..., "contentType": ...}.
func (p *Params) ToJSON() ([]byte, error) {
	obj := p.ToObject()
	seen := make(map[string]bool, len(obj))

	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, e := range p.entries {
		if seen[e.Name] {
			continue
		}
		if len(seen) > 0 {
			buf.WriteByte(',')
		}
		seen[e.Name] = true

		if err := writeJSON(&buf, e.Name); err != nil {
			return nil, fmt.Errorf("encode name %q: %w", e.Name, err)
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, jsonValue(obj[e.Name])); err != nil {
			return nil, fmt.Errorf("encode %q: %w", e.Name, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON appends the encoding of v without HTML escaping.
func writeJSON(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// FromJSON builds params from a JSON object, in document order. Array values
// add one entry per element. Numbers are kept as json.Number.
func FromJSON(data []byte) (*Params, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrInvalidJSON
	}

	p := &Params{}
	doc.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if value.IsArray() {
			for _, item := range value.Array() {
				p.Add(name, goValue(item))
			}
			return true
		}
		p.Add(name, goValue(value))
		return true
	})
	return p, nil
}

func goValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		return r.String()
	case gjson.Number:
		return json.Number(r.Raw)
	case gjson.True, gjson.False:
		return r.Bool()
	default:
		return r.Value()
	}
}

func jsonValue(v any) any {
	if blob, ok := asBlob(v); ok {
		return map[string]any{
			"filename":    blob.Filename(),
			"contentType": blob.ContentType(),
		}
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = jsonValue(item)
		}
		return out
	}
	return v
}
