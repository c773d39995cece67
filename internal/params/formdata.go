package params

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// FormData is a multipart/form-data payload built from params.
type FormData struct {
	contentType string
	boundary    string
	body        []byte
	entries     []Entry
}

// ContentType returns the Content-Type header value, boundary included.
func (f *FormData) ContentType() string { return f.contentType }

// Boundary returns the multipart boundary.
func (f *FormData) Boundary() string { return f.boundary }

// Bytes returns the encoded payload.
func (f *FormData) Bytes() []byte { return f.body }

// Reader returns a reader over the encoded payload.
func (f *FormData) Reader() io.Reader { return bytes.NewReader(f.body) }

// Entries returns the entries the payload was built from, for inspection
// without parsing the body.
func (f *FormData) Entries() []Entry {
	entries := make([]Entry, len(f.entries))
	copy(entries, f.entries)
	return entries
}

// ToFormData encodes every entry, in order, as a multipart/form-data part.
// Binary values become file parts; nil values are written as empty fields.
func (p *Params) ToFormData() (*FormData, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, e := range p.entries {
		if blob, ok := asBlob(e.Value); ok {
			if err := writeFilePart(w, e.Name, blob); err != nil {
				return nil, fmt.Errorf("write file part %q: %w", e.Name, err)
			}
			continue
		}
		if err := writeField(w, e.Name, stringValue(e.Value)); err != nil {
			return nil, fmt.Errorf("write field %q: %w", e.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return &FormData{
		contentType: w.FormDataContentType(),
		boundary:    w.Boundary(),
		body:        buf.Bytes(),
		entries:     p.ToArray(),
	}, nil
}

func writeField(w *multipart.Writer, name, value string) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, escapeDisposition(name)))

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.WriteString(part, value)
	return err
}

func writeFilePart(w *multipart.Writer, name string, blob Blob) error {
	contentType := headerLineEscaper.Replace(blob.ContentType())
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeDisposition(name), escapeDisposition(blob.Filename())))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	r, err := blob.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = io.Copy(part, r)
	return err
}

// Names and filenames percent-encode CR, LF and the double quote the way
// browsers encode form-data, so no value can end the quoted parameter or the
// header line. Backslashes are escaped for mime's quoted-string parsing.
var dispositionEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\r", "%0D",
	"\n", "%0A",
	`"`, "%22",
)

// headerLineEscaper drops line breaks from a free-form header value.
var headerLineEscaper = strings.NewReplacer("\r", "", "\n", "")

func escapeDisposition(s string) string {
	return dispositionEscaper.Replace(s)
}

// ParseFormData reads a multipart/form-data body and returns its parts as
// params, in payload order. File parts are read into memory as *File values.
func ParseFormData(r io.Reader, boundary string) (*Params, error) {
	mr := multipart.NewReader(r, boundary)
	p := &Params{}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read part: %w", err)
		}

		content, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("read part %q: %w", part.FormName(), err)
		}

		if part.FileName() != "" {
			p.Add(part.FormName(), NewFile(part.FileName(), part.Header.Get("Content-Type"), content))
		} else {
			p.Add(part.FormName(), string(content))
		}
	}
}
