package htmlform

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/narsis77/unpoly/internal/params"
)

// field adapts a control element to params.Field.
type field struct {
	sel  *goquery.Selection
	form *Form
}

func (f *field) Name() string {
	return f.sel.AttrOr("name", "")
}

func (f *field) Type() string {
	switch goquery.NodeName(f.sel) {
	case "select":
		if hasAttr(f.sel, "multiple") {
			return params.FieldTypeSelectMultiple
		}
		return params.FieldTypeSelectOne
	case "textarea":
		return "textarea"
	default:
		return inputType(f.sel)
	}
}

// Disabled reports the disabled attribute, also inherited from a disabled
// fieldset unless the control sits in that fieldset's first legend.
func (f *field) Disabled() bool {
	if hasAttr(f.sel, "disabled") {
		return true
	}

	node := f.sel.Get(0)
	disabled := false
	f.sel.ParentsFiltered("fieldset[disabled]").EachWithBreak(func(_ int, fs *goquery.Selection) bool {
		if fs.ChildrenFiltered("legend").First().Contains(node) {
			return true
		}
		disabled = true
		return false
	})
	return disabled
}

func (f *field) Value() string {
	switch goquery.NodeName(f.sel) {
	case "textarea":
		return f.sel.Text()
	case "select":
		values := f.SelectedValues()
		if len(values) == 0 {
			return ""
		}
		return values[0]
	}

	v, ok := f.sel.Attr("value")
	if !ok {
		switch inputType(f.sel) {
		case params.FieldTypeCheckbox, params.FieldTypeRadio:
			return "on"
		}
	}
	return v
}

func (f *field) Checked() bool {
	return hasAttr(f.sel, "checked")
}

// SelectedValues returns the values of selected options that are not
// disabled. A single select without a selected option falls back to its
// first enabled option.
func (f *field) SelectedValues() []string {
	if goquery.NodeName(f.sel) != "select" {
		return nil
	}

	options := f.sel.Find("option")
	selected := options.Filter("[selected]")

	if hasAttr(f.sel, "multiple") {
		var values []string
		selected.Each(func(_ int, o *goquery.Selection) {
			if !optionDisabled(o) {
				values = append(values, optionValue(o))
			}
		})
		return values
	}

	// Only the last selected option stays selected in a single select.
	if selected.Length() > 0 {
		last := selected.Last()
		if optionDisabled(last) {
			return nil
		}
		return []string{optionValue(last)}
	}

	var values []string
	options.EachWithBreak(func(_ int, o *goquery.Selection) bool {
		if optionDisabled(o) {
			return true
		}
		values = []string{optionValue(o)}
		return false
	})
	return values
}

func (f *field) Files() []params.Blob {
	return f.form.files[f.Name()]
}

func inputType(s *goquery.Selection) string {
	t := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
	if t == "" {
		return "text"
	}
	return t
}

// optionDisabled reports a disabled option, or one in a disabled optgroup.
func optionDisabled(o *goquery.Selection) bool {
	return hasAttr(o, "disabled") || o.ParentFiltered("optgroup[disabled]").Length() > 0
}

func optionValue(o *goquery.Selection) string {
	if v, ok := o.Attr("value"); ok {
		return v
	}
	return strings.Join(strings.Fields(o.Text()), " ")
}
