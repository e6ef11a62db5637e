// Package render provides server-side rendering of template results.
//
// The renderer produces the markup a client hydrates. Every child slot is
// wrapped in part markers, and a slot holding a template result records the
// template's digest in its open marker. Elements with attribute or element
// bindings carry a node annotation naming their index in the template.
//
// # Basic Usage
//
//	r := render.NewRenderer(render.RendererConfig{})
//	out, err := r.RenderToString(template.HTML("<p>", name, "</p>"))
//
// The output for name = "Ada" is
//
//	<!--vg-part dqJVfBl5hws=--><p><!--vg-part-->Ada<!--/vg-part--></p><!--/vg-part-->
//
// # Bindings
//
// Plain attributes are written with their interpolated value and omitted
// for Nothing or nil. Boolean attributes are written bare when truthy.
// Property and event bindings exist only on the client and are not
// rendered. Directives are resolved with a nil part.
//
// # Security
//
// Text and attribute values are escaped. *html.Node values are serialized
// as they are and should only come from trusted sources.
package render
