package hydrate

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/digest"
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/template"
)

// open handles a child part open marker. It takes the part's value from
// the enclosing frame, creates the part on the marker and pushes a frame
// for the resolved value.
func (h *hydrator) open(n *html.Node, recorded string) error {
	if h.closed {
		return h.fail("E011", n).WithDetailf("open marker %q after the root part closed", n.Data)
	}

	var value, parent any
	switch top := h.stack.top(); {
	case top == nil:
		value, parent = h.value, h.container

	case top.kind == frameTemplate:
		d, ok := top.descriptor()
		if !ok || d.Kind != template.ChildPart {
			return h.fail("E023", n).
				WithDetailf("open marker %q where template %s expects no child part", n.Data, top.instance.Template.Digest)
		}
		if top.instancePartIndex >= len(top.result.Values) {
			return h.fail("E023", n).
				WithDetailf("open marker %q after all %d values were consumed", n.Data, len(top.result.Values))
		}
		value, parent = top.result.Values[top.instancePartIndex], top.instance
		top.instancePartIndex++
		top.templatePartIndex++

	case top.kind == frameIterable:
		v, ok := top.items.Next()
		if !ok {
			return h.fail("E021", n).
				WithDetailf("open marker %q after the iterable ended at %d item(s)", n.Data, len(top.part.Items()))
		}
		value, parent = v, top.part

	default:
		return h.fail("E016", n).WithDetailf("open marker %q inside part opened by %q", n.Data, top.part.Start().Data)
	}

	cp := part.NewChild(n, nil, parent, h.opts)
	switch owner := parent.(type) {
	case *part.TemplateInstance:
		owner.Append(cp)
	case *part.ChildPart:
		owner.AppendItem(cp)
	default:
		h.root = cp
	}
	h.bound[part.KindChild]++

	return h.push(cp, value, recorded, n)
}

// push resolves value for cp, primes cp with it and pushes the matching
// frame. Nothing is written to the DOM.
func (h *hydrator) push(cp *part.ChildPart, value any, recorded string, n *html.Node) error {
	v := part.Resolve(cp, value)
	if part.IsNil(v) {
		v = part.Nothing
	}
	if v == part.NoChange {
		h.stack.push(&frame{kind: frameLeaf, part: cp})
		return nil
	}

	r, isResult := v.(*template.Result)
	if !isResult && recorded != "" {
		return h.fail("E024", n).WithDetailf("marker %q records a template but the value is %T", n.Data, v)
	}

	switch {
	case part.IsPrimitive(v):
		if v == "" {
			v = part.Nothing
		}
		cp.Prime(v)
		h.stack.push(&frame{kind: frameLeaf, part: cp})

	case isResult:
		if want := digest.Compute(r.Strings); recorded != want {
			return h.fail("E020", n).WithDetailf("marker %q records digest %q, template has %s", n.Data, recorded, want)
		}
		tmpl, err := h.catalog.Get(r)
		if err != nil {
			return err
		}
		inst := part.NewInstance(tmpl, cp, h.opts)
		cp.Prime(inst)
		h.stack.push(&frame{kind: frameTemplate, part: cp, instance: inst, result: r})

	case part.IsIterable(v):
		items, _ := part.Iterate(v)
		cp.Prime([]*part.ChildPart{})
		h.stack.push(&frame{kind: frameIterable, part: cp, items: items})

	default:
		// Nodes and other values are committed as opaque leaves.
		cp.Prime(v)
		h.stack.push(&frame{kind: frameLeaf, part: cp})
	}
	return nil
}
