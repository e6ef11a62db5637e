package part

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/template"
)

// AttributePart binds an attribute, boolean attribute, property or event
// listener of an element.
type AttributePart struct {
	kind    Kind
	element *html.Node
	name    string
	strings []string
	parent  *TemplateInstance
	opts    *Options

	// committed holds the value of a single expression binding, or the
	// per-slot values of an interpolated one.
	committed any
	slots     []any
}

// NewAttribute creates the part described by desc on element el.
func NewAttribute(el *html.Node, desc template.Part, parent *TemplateInstance, opts *Options) *AttributePart {
	p := &AttributePart{
		kind:      KindOf(desc.Ctor),
		element:   el,
		name:      desc.Name,
		parent:    parent,
		opts:      opts,
		committed: Nothing,
	}
	if p.kind == KindAttribute || p.kind == KindBoolean {
		p.name = strings.ToLower(desc.Name)
	}
	if !desc.SingleExpression() {
		p.strings = desc.Strings
		p.slots = make([]any, len(desc.Strings)-1)
		for i := range p.slots {
			p.slots[i] = unset
		}
	}
	return p
}

// Kind implements Part.
func (p *AttributePart) Kind() Kind { return p.kind }

// Node implements Part.
func (p *AttributePart) Node() *html.Node { return p.element }

// Element returns the bound element.
func (p *AttributePart) Element() *html.Node { return p.element }

// Name returns the attribute, property or event name.
func (p *AttributePart) Name() string { return p.name }

// Strings returns the static strings of an interpolated binding, or nil.
func (p *AttributePart) Strings() []string { return p.strings }

// Slots returns how many values the part consumes.
func (p *AttributePart) Slots() int {
	if p.strings == nil {
		return 1
	}
	return len(p.strings) - 1
}

// Value returns the committed value. For an interpolated binding it is a
// copy of the per-slot values.
func (p *AttributePart) Value() any {
	if p.strings != nil {
		return append([]any(nil), p.slots...)
	}
	return p.committed
}

// SetValue sets the value of a single expression binding.
func (p *AttributePart) SetValue(v any) {
	p.SetValues([]any{v}, 0, false)
}

// SetValues takes the part's values from values starting at index. With
// noCommit set only the committed state is updated. Event parts always
// commit.
func (p *AttributePart) SetValues(values []any, index int, noCommit bool) {
	if p.kind == KindEvent {
		p.setListener(values[index])
		return
	}

	var value any
	change := false
	if p.strings == nil {
		value = Resolve(p, values[index])
		change = !IsPrimitive(value) || value != NoChange && !Same(value, p.committed)
		if change {
			p.committed = value
		}
	} else {
		var sb strings.Builder
		sb.WriteString(p.strings[0])
		absent := false
		for i := range p.slots {
			v := Resolve(p, values[index+i])
			if v == NoChange {
				v = p.slots[i]
			}
			change = change || !IsPrimitive(v) || !Same(v, p.slots[i])
			if v == Nothing {
				absent = true
			} else if !absent {
				sb.WriteString(Stringify(v))
				sb.WriteString(p.strings[i+1])
			}
			p.slots[i] = v
		}
		value = sb.String()
		if absent {
			value = Nothing
		}
	}

	if change && !noCommit {
		p.commit(value)
	}
}

func (p *AttributePart) commit(value any) {
	doc := p.opts.document()
	switch p.kind {
	case KindBoolean:
		doc.ToggleAttr(p.element, p.name, Truthy(value))
	case KindProperty:
		if value == Nothing {
			value = nil
		}
		doc.SetProperty(p.element, p.name, value)
	default:
		if value == nil || value == Nothing {
			doc.RemoveAttr(p.element, p.name)
			return
		}
		doc.SetAttr(p.element, p.name, Stringify(value))
	}
}

// setListener swaps the committed handler. The part itself is the
// registered listener, so replacing one handler with another is not a DOM
// write.
func (p *AttributePart) setListener(v any) {
	v = Resolve(p, v)
	if v == nil {
		v = Nothing
	}
	if v == NoChange {
		return
	}
	old := p.committed
	doc := p.opts.document()
	if v == Nothing && old != Nothing {
		doc.RemoveListener(p.element, p.name)
	}
	if v != Nothing && old == Nothing {
		doc.AddListener(p.element, p.name, p)
	}
	p.committed = v
}

// HandleEvent calls the committed handler. It accepts a dom.Handler, a
// func(*dom.Event) or a func().
func (p *AttributePart) HandleEvent(ev *dom.Event) {
	switch h := p.committed.(type) {
	case dom.Handler:
		h.HandleEvent(ev)
	case func(*dom.Event):
		h(ev)
	case func():
		h()
	}
}
