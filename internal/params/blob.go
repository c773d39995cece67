package params

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Blob is an opaque binary value, typically a file picked in a file input.
type Blob interface {
	// Filename is the name reported in form payloads.
	Filename() string

	// ContentType is the MIME type of the content, may be empty.
	ContentType() string

	// Open returns a reader over the content.
	Open() (io.ReadCloser, error)
}

// File is an in-memory Blob.
type File struct {
	Name    string
	Type    string
	Content []byte
}

// NewFile creates an in-memory file.
func NewFile(name, contentType string, content []byte) *File {
	return &File{Name: name, Type: contentType, Content: content}
}

// Filename implements Blob.
func (f *File) Filename() string { return f.Name }

// ContentType implements Blob.
func (f *File) ContentType() string { return f.Type }

// Open implements Blob.
func (f *File) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

// Size returns the content length in bytes.
func (f *File) Size() int { return len(f.Content) }

// headerBlob adapts an uploaded multipart file to Blob.
type headerBlob struct {
	h *multipart.FileHeader
}

// FileHeaderBlob wraps a parsed multipart file as a Blob.
func FileHeaderBlob(h *multipart.FileHeader) Blob {
	return headerBlob{h: h}
}

func (b headerBlob) Filename() string { return b.h.Filename }

func (b headerBlob) ContentType() string { return b.h.Header.Get("Content-Type") }

func (b headerBlob) Open() (io.ReadCloser, error) { return b.h.Open() }

// asBlob returns v as a Blob if it is binary.
func asBlob(v any) (Blob, bool) {
	switch b := v.(type) {
	case Blob:
		return b, true
	case *multipart.FileHeader:
		return FileHeaderBlob(b), true
	default:
		return nil, false
	}
}

// IsBinary reports whether v is a binary value.
func IsBinary(v any) bool {
	_, ok := asBlob(v)
	return ok
}
