package htmlform

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/narsis77/unpoly/internal/params"
)

// Errors returned while resolving forms.
var (
	// ErrInvalidSelector is returned when a selector does not compile.
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrFormNotFound is returned when no element matches the selector.
	ErrFormNotFound = errors.New("form not found")
)

// controls matches the elements that can take part in a submission.
const controls = "input, select, textarea"

// Document is a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Form returns the first element matching selector as a form. The element
// is usually a <form>, but any container works: its fields are then the
// controls inside it.
func (d *Document) Form(selector string) (*Form, error) {
	// goquery treats a bad selector as matching nothing, so compile it here
	// to tell the two cases apart.
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	match := d.doc.FindMatcher(sel).First()
	if match.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, selector)
	}
	return newForm(d, match), nil
}

// ResolveForm implements params.FormResolver.
func (d *Document) ResolveForm(selector string) (params.Form, error) {
	f, err := d.Form(selector)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Forms returns every <form> element in document order.
func (d *Document) Forms() []*Form {
	var forms []*Form
	d.doc.Find("form").Each(func(_ int, s *goquery.Selection) {
		forms = append(forms, newForm(d, s))
	})
	return forms
}

// Form is a form element, or a container standing in for one.
type Form struct {
	doc   *Document
	sel   *goquery.Selection
	files map[string][]params.Blob
}

func newForm(d *Document, s *goquery.Selection) *Form {
	return &Form{
		doc:   d,
		sel:   s,
		files: make(map[string][]params.Blob),
	}
}

// Node returns the underlying element.
func (f *Form) Node() *html.Node {
	return f.sel.Get(0)
}

// ID returns the element's id attribute.
func (f *Form) ID() string {
	return f.sel.AttrOr("id", "")
}

// Action returns the action attribute.
func (f *Form) Action() string {
	return f.sel.AttrOr("action", "")
}

// Method returns the upper-cased method attribute, GET when absent.
func (f *Form) Method() string {
	m := strings.ToUpper(strings.TrimSpace(f.sel.AttrOr("method", "")))
	if m == "" {
		return "GET"
	}
	return m
}

// AttachFiles sets the files chosen in the file inputs named name.
func (f *Form) AttachFiles(name string, files ...params.Blob) {
	f.files[name] = files
}

// Fields implements params.Form. Fields are returned in document order.
//
// A control with a form attribute belongs to the <form> with that id,
// wherever it sits. Other controls belong to the element containing them.
func (f *Form) Fields() []params.Field {
	isForm := goquery.NodeName(f.sel) == "form"
	id := f.ID()

	var fields []params.Field
	f.doc.doc.Find(controls).Each(func(_ int, s *goquery.Selection) {
		if !isControl(s) {
			return
		}
		owner, hasOwner := s.Attr("form")
		switch {
		case isForm && hasOwner:
			if id == "" || owner != id {
				return
			}
		case f.sel.Contains(s.Get(0)):
		default:
			return
		}
		fields = append(fields, &field{sel: s, form: f})
	})
	return fields
}

// isControl reports whether s takes part in submission. Buttons only do
// when they submit, which static parsing never models.
func isControl(s *goquery.Selection) bool {
	if goquery.NodeName(s) != "input" {
		return true
	}
	switch inputType(s) {
	case "submit", "reset", "image", "button":
		return false
	}
	return true
}

func hasAttr(s *goquery.Selection, name string) bool {
	_, ok := s.Attr(name)
	return ok
}
