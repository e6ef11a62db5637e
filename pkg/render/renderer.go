package render

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/marker"
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/template"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Markers are the comment prefixes to write. Zero fields use the
	// defaults.
	Markers marker.Markers

	// Catalog resolves templates. Defaults to template.DefaultCatalog.
	Catalog *template.Catalog

	// Minify collapses whitespace and drops optional markup while keeping
	// every comment.
	Minify bool
}

// Renderer renders template results to annotated HTML.
// A Renderer is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	config.Markers = config.Markers.OrDefault()
	if config.Catalog == nil {
		config.Catalog = template.DefaultCatalog
	}
	return &Renderer{config: config}
}

// Markers returns the markers the renderer writes.
func (r *Renderer) Markers() marker.Markers {
	return r.config.Markers
}

// RenderToString renders v as a root part.
func (r *Renderer) RenderToString(v any) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams v, rendered as a root part, to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, v any) error {
	if r.config.Minify {
		var buf bytes.Buffer
		if err := r.render(&buf, v); err != nil {
			return err
		}
		return minifyTo(w, &buf)
	}
	return r.render(w, v)
}

func (r *Renderer) render(w io.Writer, v any) error {
	bw := bufio.NewWriter(w)
	if err := r.renderPart(bw, v); err != nil {
		return err
	}
	return bw.Flush()
}

// renderPart writes a child slot with its markers.
func (r *Renderer) renderPart(w *bufio.Writer, v any) error {
	v = part.Resolve(nil, v)
	if part.IsNil(v) {
		v = part.Nothing
	}

	var tmpl *template.Template
	if res, ok := v.(*template.Result); ok {
		t, err := r.config.Catalog.Get(res)
		if err != nil {
			return err
		}
		tmpl = t
	}

	digest := ""
	if tmpl != nil {
		digest = tmpl.Digest
	}
	r.writeComment(w, r.config.Markers.OpenText(digest))

	switch {
	case tmpl != nil:
		if err := r.renderTemplate(w, tmpl, v.(*template.Result).Values); err != nil {
			return err
		}
	case part.IsPrimitive(v):
		if v != part.NoChange {
			w.WriteString(escapeHTML(part.Stringify(v)))
		}
	default:
		if err := r.renderValue(w, v); err != nil {
			return err
		}
	}

	r.writeComment(w, r.config.Markers.CloseText())
	return nil
}

// renderValue writes a non-primitive, non-template value.
func (r *Renderer) renderValue(w *bufio.Writer, v any) error {
	if n, ok := v.(*html.Node); ok {
		return html.Render(w, n)
	}
	if it, ok := part.Iterate(v); ok {
		defer it.Stop()
		for {
			item, ok := it.Next()
			if !ok {
				return nil
			}
			if err := r.renderPart(w, item); err != nil {
				return err
			}
		}
	}
	w.WriteString(escapeHTML(part.Stringify(v)))
	return nil
}

// templateRun carries the state of rendering one template instance.
type templateRun struct {
	tmpl   *template.Template
	values []any

	// next is the node index of the next node to render, as counted by
	// template.Walk.
	next int

	// part and value are cursors into tmpl.Parts and values.
	part  int
	value int
}

func (r *Renderer) renderTemplate(w *bufio.Writer, tmpl *template.Template, values []any) error {
	run := &templateRun{tmpl: tmpl, values: values}
	for c := tmpl.Content.FirstChild; c != nil; c = c.NextSibling {
		skip, err := r.renderNode(w, run, c, false)
		if err != nil {
			return err
		}
		if skip {
			c = c.NextSibling
		}
	}
	return nil
}

// renderNode writes a template content node. It reports whether the node
// started a child part, in which case the caller skips the part's end
// boundary.
func (r *Renderer) renderNode(w *bufio.Writer, run *templateRun, n *html.Node, raw bool) (bool, error) {
	index := run.next
	run.next++

	switch n.Type {
	case html.TextNode:
		if raw {
			w.WriteString(n.Data)
		} else {
			w.WriteString(escapeHTML(n.Data))
		}
		return false, nil

	case html.CommentNode:
		if p, ok := run.current(); ok && p.Kind == template.ChildPart && p.Index == index {
			run.part++
			v := run.values[run.value]
			run.value++
			run.next++ // end boundary
			return true, r.renderPart(w, v)
		}
		r.writeComment(w, n.Data)
		return false, nil

	case html.DoctypeNode:
		fmt.Fprintf(w, "<!DOCTYPE %s>", n.Data)
		return false, nil

	case html.ElementNode:
		return false, r.renderElement(w, run, n, index)
	}
	return false, nil
}

func (r *Renderer) renderElement(w *bufio.Writer, run *templateRun, n *html.Node, index int) error {
	tag := n.Data

	w.WriteByte('<')
	w.WriteString(tag)
	for _, a := range n.Attr {
		writeAttr(w, attrName(a), a.Val)
	}

	bound := false
	for {
		p, ok := run.current()
		if !ok || p.Kind == template.ChildPart || p.Index != index {
			break
		}
		bound = true
		run.part++
		switch p.Kind {
		case template.AttributePart:
			r.renderAttribute(w, p, run.values[run.value:run.value+p.Slots()])
		case template.ElementPart:
			part.Resolve(nil, run.values[run.value])
		}
		run.value += p.Slots()
	}
	w.WriteByte('>')

	if isVoidElement(tag) {
		if bound {
			r.writeComment(w, r.config.Markers.NodeText(index))
		}
		return nil
	}

	after := annotatedAfter(tag)
	if bound && !after {
		r.writeComment(w, r.config.Markers.NodeText(index))
	}
	raw := isRawTextElement(tag)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		skip, err := r.renderNode(w, run, c, raw)
		if err != nil {
			return err
		}
		if skip {
			c = c.NextSibling
		}
	}
	w.WriteString("</")
	w.WriteString(tag)
	w.WriteByte('>')
	if bound && after {
		r.writeComment(w, r.config.Markers.NodeText(index))
	}
	return nil
}

// renderAttribute writes a bound attribute. Properties and event listeners
// are client-only.
func (r *Renderer) renderAttribute(w *bufio.Writer, p template.Part, values []any) {
	name := strings.ToLower(p.Name)
	switch p.Ctor {
	case template.AttrProperty, template.AttrEvent:
		for _, v := range values {
			part.Resolve(nil, v)
		}
		return
	case template.AttrBoolean:
		if part.Truthy(part.Resolve(nil, values[0])) {
			w.WriteByte(' ')
			w.WriteString(name)
		}
		return
	}

	if p.SingleExpression() {
		v := part.Resolve(nil, values[0])
		if v == nil || v == part.Nothing || v == part.NoChange {
			return
		}
		writeAttr(w, name, part.Stringify(v))
		return
	}

	var sb strings.Builder
	sb.WriteString(p.Strings[0])
	for i, v := range values {
		v = part.Resolve(nil, v)
		if v == part.Nothing {
			return
		}
		sb.WriteString(part.Stringify(v))
		sb.WriteString(p.Strings[i+1])
	}
	writeAttr(w, name, sb.String())
}

func (run *templateRun) current() (template.Part, bool) {
	if run.part >= len(run.tmpl.Parts) {
		return template.Part{}, false
	}
	return run.tmpl.Parts[run.part], true
}

func (r *Renderer) writeComment(w *bufio.Writer, text string) {
	w.WriteString("<!--")
	w.WriteString(escapeComment(text))
	w.WriteString("-->")
}

func writeAttr(w *bufio.Writer, name, val string) {
	w.WriteByte(' ')
	w.WriteString(name)
	w.WriteString(`="`)
	w.WriteString(escapeAttr(val))
	w.WriteByte('"')
}

func attrName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// RenderToString renders v with a default renderer.
func RenderToString(v any) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(v)
}

// NodeCount returns the number of node annotations in rendered output.
// It is meant for reports and tests.
func NodeCount(markup string, m marker.Markers) int {
	return strings.Count(markup, "<!--"+m.OrDefault().Node+" ")
}
