// Package htmlform reads forms out of HTML documents.
//
// It supplies the two collaborators params.FromForm needs: a resolver that
// turns a CSS selector into a form, and a field list that follows the HTML
// rules for which controls belong to a form.
//
//	doc, err := htmlform.ParseString(page)
//	p, err := params.FromFormSelector(doc, "#search")
//
// Controls outside the <form> element take part when their form attribute
// names the form's id. Submit, reset, image and button inputs never do.
//
// Static HTML cannot carry chosen files, so file inputs are empty until
// files are attached with Form.AttachFiles.
package htmlform
