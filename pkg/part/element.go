package part

import "golang.org/x/net/html"

// ElementPart binds an element as a whole. Its value is resolved for the
// side effects of directives and never written to the DOM.
type ElementPart struct {
	element *html.Node
	parent  *TemplateInstance
	opts    *Options
	value   any
}

// NewElement creates an element part on el.
func NewElement(el *html.Node, parent *TemplateInstance, opts *Options) *ElementPart {
	return &ElementPart{element: el, parent: parent, opts: opts}
}

// Kind implements Part.
func (e *ElementPart) Kind() Kind { return KindElement }

// Node implements Part.
func (e *ElementPart) Node() *html.Node { return e.element }

// Element returns the bound element.
func (e *ElementPart) Element() *html.Node { return e.element }

// Value returns the last resolved value.
func (e *ElementPart) Value() any { return e.value }

// SetValue resolves v.
func (e *ElementPart) SetValue(v any) {
	e.value = Resolve(e, v)
}
