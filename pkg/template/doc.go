// Package template prepares static template shapes.
//
// A Result pairs the static strings of a template with the values bound into
// it. The static strings alone determine a Template: its digest, the
// positions of its parts and a parsed content tree that instances are
// cloned from. Templates are parsed once per shape and memoized in a
// Catalog.
//
//	r := template.HTML("<p class=", cls, ">", body, "</p>")
//	tmpl, err := template.DefaultCatalog.Get(r)
//
// Part positions are node indices into the content tree, counted by Walk.
// The server renderer and the hydrator rely on the same counting, so node
// annotations written by one resolve to the same elements in the other.
package template
