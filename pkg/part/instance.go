package part

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/template"
)

// TemplateInstance is one binding of a Template to live parts.
type TemplateInstance struct {
	Template *template.Template

	parent *ChildPart
	opts   *Options
	parts  []Part
}

// NewInstance creates an instance of t owned by parent. It has no parts
// until Clone creates them or hydration appends them.
func NewInstance(t *template.Template, parent *ChildPart, opts *Options) *TemplateInstance {
	return &TemplateInstance{Template: t, parent: parent, opts: opts}
}

// Parent returns the child part that owns the instance.
func (ti *TemplateInstance) Parent() *ChildPart { return ti.parent }

// Parts returns the instance's parts in template order.
func (ti *TemplateInstance) Parts() []Part { return ti.parts }

// Append adds a part built over existing markup.
func (ti *TemplateInstance) Append(p Part) {
	ti.parts = append(ti.parts, p)
}

// Clone copies the template content and creates a part for every template
// part. The returned node is a detached container for the copied content;
// no values are committed yet.
func (ti *TemplateInstance) Clone() *html.Node {
	frag := dom.Clone(ti.Template.Content)
	descs := ti.Template.Parts
	next := 0
	for i, n := range template.Walk(frag) {
		for next < len(descs) && descs[next].Index == i {
			d := descs[next]
			switch d.Kind {
			case template.ChildPart:
				ti.parts = append(ti.parts, NewChild(n, n.NextSibling, ti, ti.opts))
			case template.AttributePart:
				ti.parts = append(ti.parts, NewAttribute(n, d, ti, ti.opts))
			case template.ElementPart:
				ti.parts = append(ti.parts, NewElement(n, ti, ti.opts))
			}
			next++
		}
		if next == len(descs) {
			break
		}
	}
	return frag
}

// Update sets values on the instance's parts in order.
func (ti *TemplateInstance) Update(values []any) error {
	if len(values) != ti.Template.ValueCount() {
		return errors.New("E042").
			WithDetailf("template %s expects %d values, got %d", ti.Template.Digest, ti.Template.ValueCount(), len(values))
	}
	i := 0
	for _, p := range ti.parts {
		switch p := p.(type) {
		case *ChildPart:
			if err := p.SetValue(values[i]); err != nil {
				return err
			}
			i++
		case *AttributePart:
			p.SetValues(values, i, false)
			i += p.Slots()
		case *ElementPart:
			p.SetValue(values[i])
			i++
		}
	}
	return nil
}
