package hydrate

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/marker"
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/template"
)

// bind handles a node marker. It creates the attribute and element parts
// the enclosing template declares for the annotated element and primes
// them with their values. Kinds that commit on hydrate, and element parts,
// are applied only once the whole pass has succeeded.
func (h *hydrator) bind(n *html.Node, payload string) error {
	top := h.stack.top()
	if top == nil || top.kind != frameTemplate {
		return h.fail("E030", n).WithDetailf("node marker %q", n.Data)
	}
	index, err := marker.ParseNodeIndex(payload)
	if err != nil {
		return h.fail("E014", n).WithDetailf("node marker %q", n.Data).Wrap(err)
	}
	el := annotated(n)
	if el == nil {
		return h.fail("E015", n).WithDetailf("node marker %q", n.Data)
	}

	inst := top.instance
	values := top.result.Values
	bound := 0
	for {
		d, ok := top.descriptor()
		if !ok || d.Kind == template.ChildPart || d.Index != index {
			break
		}
		if top.instancePartIndex+d.Slots() > len(values) {
			return h.fail("E023", n).
				WithDetailf("node marker %q needs %d value(s), %d left", n.Data, d.Slots(), len(values)-top.instancePartIndex)
		}

		at := top.instancePartIndex
		switch d.Kind {
		case template.AttributePart:
			ap := part.NewAttribute(el, d, inst, h.opts)
			if part.CommitsOnHydrate(ap.Kind()) {
				h.later(func() { ap.SetValues(values, at, false) })
			} else {
				ap.SetValues(values, at, true)
			}
			inst.Append(ap)
			h.bound[ap.Kind()]++
		case template.ElementPart:
			ep := part.NewElement(el, inst, h.opts)
			h.later(func() { ep.SetValue(values[at]) })
			inst.Append(ep)
			h.bound[part.KindElement]++
		}
		top.instancePartIndex += d.Slots()
		top.templatePartIndex++
		bound++
	}

	if bound == 0 {
		return h.fail("E023", n).
			WithDetailf("node marker %q binds no parts of template %s", n.Data, inst.Template.Digest)
	}
	return nil
}

// annotated returns the element a node marker annotates: the element right
// before it, or its parent when the marker is a first child.
func annotated(n *html.Node) *html.Node {
	if prev := n.PrevSibling; prev != nil {
		if prev.Type == html.ElementNode {
			return prev
		}
		return nil
	}
	if p := n.Parent; p != nil && p.Type == html.ElementNode {
		return p
	}
	return nil
}
