package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/narsis77/unpoly/internal/config"
	"github.com/narsis77/unpoly/internal/params"
)

// printParams writes p in the configured output format.
func printParams(w io.Writer, p *params.Params, out config.OutputConfig) error {
	var data []byte
	switch out.Format {
	case config.FormatQuery:
		_, err := fmt.Fprintln(w, p.ToQuery())
		return err
	case config.FormatEntries:
		var err error
		if data, err = entriesJSON(p); err != nil {
			return err
		}
	default:
		var err error
		if data, err = p.ToJSON(); err != nil {
			return err
		}
	}

	if out.Pretty {
		data = pretty.Pretty(data)
	} else {
		data = append(data, '\n')
	}
	_, err := w.Write(data)
	return err
}

// entriesJSON renders the entries as an array of {"name", "value"} objects.
// Entries without a value have a null value; files show their metadata.
func entriesJSON(p *params.Params) ([]byte, error) {
	data := []byte("[]")
	for i, e := range p.ToArray() {
		prefix := strconv.Itoa(i)

		var err error
		if data, err = sjson.SetBytes(data, prefix+".name", e.Name); err != nil {
			return nil, err
		}
		if data, err = sjson.SetBytes(data, prefix+".value", entryValue(e.Value)); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func entryValue(v any) any {
	if blob, ok := v.(params.Blob); ok {
		return map[string]any{
			"filename":    blob.Filename(),
			"contentType": blob.ContentType(),
		}
	}
	return v
}
