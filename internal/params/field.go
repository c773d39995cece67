package params

// Field types with special submission rules.
const (
	FieldTypeCheckbox       = "checkbox"
	FieldTypeRadio          = "radio"
	FieldTypeFile           = "file"
	FieldTypeSelectOne      = "select-one"
	FieldTypeSelectMultiple = "select-multiple"
)

// Field is a form control as seen by form submission.
type Field interface {
	// Name is the control's name attribute.
	Name() string

	// Type is the lower-case control type: an input type, "select-one",
	// "select-multiple" or "textarea".
	Type() string

	// Disabled reports whether the control is disabled.
	Disabled() bool

	// Value is the control's current value.
	Value() string

	// Checked reports the checkedness of checkboxes and radio buttons.
	Checked() bool

	// SelectedValues lists the values of the selected options of a select.
	SelectedValues() []string

	// Files lists the files chosen in a file input.
	Files() []Blob
}

// Form enumerates the fields that belong to a form, including controls
// associated through a form attribute.
type Form interface {
	Fields() []Field
}

// FormResolver turns a selector into a form.
type FormResolver interface {
	ResolveForm(selector string) (Form, error)
}

// AddField appends the entries field would contribute to a native form
// submission.
func (p *Params) AddField(field Field) {
	name := field.Name()
	if name == "" || field.Disabled() {
		return
	}

	switch field.Type() {
	case FieldTypeSelectOne:
		if values := field.SelectedValues(); len(values) > 0 {
			p.Add(name, values[0])
		}
	case FieldTypeSelectMultiple:
		for _, v := range field.SelectedValues() {
			p.Add(name, v)
		}
	case FieldTypeCheckbox, FieldTypeRadio:
		if field.Checked() {
			p.Add(name, field.Value())
		}
	case FieldTypeFile:
		for _, f := range field.Files() {
			p.Add(name, f)
		}
	default:
		p.Add(name, field.Value())
	}
}

// AddFields applies AddField to every field in order.
func (p *Params) AddFields(fields []Field) {
	for _, f := range fields {
		p.AddField(f)
	}
}

// FromFields builds params from a list of fields.
func FromFields(fields []Field) *Params {
	p := &Params{}
	p.AddFields(fields)
	return p
}

// FromForm builds params from all fields of form.
func FromForm(form Form) *Params {
	return FromFields(form.Fields())
}

// FromFormSelector resolves selector to a form and builds params from it.
func FromFormSelector(resolver FormResolver, selector string) (*Params, error) {
	if resolver == nil {
		return nil, ErrNoResolver
	}
	form, err := resolver.ResolveForm(selector)
	if err != nil {
		return nil, err
	}
	return FromForm(form), nil
}
