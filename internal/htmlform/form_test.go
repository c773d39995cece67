package htmlform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narsis77/unpoly/internal/params"
)

const page = `<!DOCTYPE html>
<html><body>
<form id="search" action="/search" method="post">
  <input name="q" value="unpoly">
  <input type="hidden" name="page" value="2">
  <input name="nameless-is-fine" value="x" disabled>
  <input value="no name">
  <input type="checkbox" name="exact" checked>
  <input type="checkbox" name="fuzzy" value="yes">
  <input type="radio" name="sort" value="date">
  <input type="radio" name="sort" value="score" checked>
  <select name="lang">
    <option value="go">Go</option>
    <option selected>  Java   Script </option>
  </select>
  <select name="tags[]" multiple>
    <option value="a" selected>A</option>
    <option value="b">B</option>
    <option value="c" selected>C</option>
  </select>
  <select name="size"><option disabled>--</option><option value="m">M</option></select>
  <textarea name="notes">hello
world</textarea>
  <input type="file" name="upload">
  <input type="submit" name="commit" value="Go">
  <input type="image" name="img">
  <input type="reset" name="r">
  <button name="btn" value="1">Button</button>
  <input name="elsewhere" form="other" value="moved">
  <fieldset disabled>
    <legend><input name="in-legend" value="ok"></legend>
    <input name="in-fieldset" value="skip">
  </fieldset>
</form>
<input name="outside" form="search" value="associated">
<input name="stray" value="not associated">
<form id="other"><input name="own" value="1"></form>
<div class="filters"><input name="f" value="1"><select name="g"></select></div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	require.NoError(t, err)
	return doc
}

func TestDocument_Form(t *testing.T) {
	doc := mustParse(t)

	form, err := doc.Form("#search")
	require.NoError(t, err)
	assert.Equal(t, "search", form.ID())
	assert.Equal(t, "/search", form.Action())
	assert.Equal(t, "POST", form.Method())

	_, err = doc.Form("#missing")
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = doc.Form("[[[")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestDocument_Forms(t *testing.T) {
	forms := mustParse(t).Forms()

	require.Len(t, forms, 2)
	assert.Equal(t, "search", forms[0].ID())
	assert.Equal(t, "other", forms[1].ID())
	assert.Equal(t, "GET", forms[1].Method())
}

func TestForm_Params(t *testing.T) {
	doc := mustParse(t)

	p, err := params.FromFormSelector(doc, "#search")
	require.NoError(t, err)

	assert.Equal(t, []params.Entry{
		{Name: "q", Value: "unpoly"},
		{Name: "page", Value: "2"},
		{Name: "exact", Value: "on"},
		{Name: "sort", Value: "score"},
		{Name: "lang", Value: "Java Script"},
		{Name: "tags[]", Value: "a"},
		{Name: "tags[]", Value: "c"},
		{Name: "size", Value: "m"},
		{Name: "notes", Value: "hello\nworld"},
		{Name: "in-legend", Value: "ok"},
		{Name: "outside", Value: "associated"},
	}, p.ToArray())
}

func TestForm_OtherFormOwnsAttributedControl(t *testing.T) {
	form, err := mustParse(t).Form("#other")
	require.NoError(t, err)

	p := params.FromForm(form)
	assert.Equal(t, "elsewhere=moved&own=1", p.ToQuery())
}

func TestForm_Container(t *testing.T) {
	form, err := mustParse(t).Form("div.filters")
	require.NoError(t, err)

	assert.Equal(t, "f=1&g=", params.FromForm(form).ToQuery())
}

func TestForm_AttachFiles(t *testing.T) {
	form, err := mustParse(t).Form("#search")
	require.NoError(t, err)

	file := params.NewFile("report.pdf", "application/pdf", []byte("%PDF"))
	form.AttachFiles("upload", file)

	p := params.FromForm(form)
	assert.Equal(t, []any{file}, p.GetAll("upload"))
	assert.True(t, p.HasBinaryValues())
	assert.NotContains(t, p.ToQuery(), "upload")
}

func TestField_Types(t *testing.T) {
	doc, err := ParseString(`<form id="f">
		<input name="a">
		<input name="b" type="EMAIL">
		<select name="c"></select>
		<select name="d" multiple></select>
		<textarea name="e"></textarea>
	</form>`)
	require.NoError(t, err)

	form, err := doc.Form("#f")
	require.NoError(t, err)

	var types []string
	for _, f := range form.Fields() {
		types = append(types, f.Type())
	}
	assert.Equal(t, []string{"text", "email", "select-one", "select-multiple", "textarea"}, types)
}

func TestField_SingleSelectLastSelectedWins(t *testing.T) {
	doc, err := ParseString(`<form id="f"><select name="s">
		<option value="1" selected>1</option>
		<option value="2" selected>2</option>
	</select></form>`)
	require.NoError(t, err)

	p, err := params.FromFormSelector(doc, "#f")
	require.NoError(t, err)
	assert.Equal(t, "s=2", p.ToQuery())
}

func TestField_DisabledOptions(t *testing.T) {
	doc, err := ParseString(`<form id="f">
		<select name="m" multiple>
			<option value="a" selected>a</option>
			<option value="b" selected disabled>b</option>
			<optgroup label="off" disabled>
				<option value="c" selected>c</option>
			</optgroup>
			<option value="d" selected>d</option>
		</select>
		<select name="one">
			<option value="x">x</option>
			<option value="y" selected disabled>y</option>
		</select>
		<select name="fallback">
			<option value="p" disabled>p</option>
			<optgroup label="off" disabled><option value="q">q</option></optgroup>
			<option value="r">r</option>
		</select>
	</form>`)
	require.NoError(t, err)

	p, err := params.FromFormSelector(doc, "#f")
	require.NoError(t, err)
	assert.Equal(t, "m=a&m=d&fallback=r", p.ToQuery())
}
