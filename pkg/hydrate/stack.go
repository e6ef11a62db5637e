package hydrate

import (
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/template"
)

// frameKind is the structural role of an open child part.
type frameKind uint8

const (
	// frameLeaf holds a part whose value has no nested parts.
	frameLeaf frameKind = iota

	// frameIterable holds a part whose items are still being opened.
	frameIterable

	// frameTemplate holds a part whose template instance is being built.
	frameTemplate
)

func (k frameKind) String() string {
	switch k {
	case frameLeaf:
		return "leaf"
	case frameIterable:
		return "iterable"
	case frameTemplate:
		return "template-instance"
	default:
		return "unknown"
	}
}

// frame is one open child part on the hydration stack.
type frame struct {
	kind frameKind
	part *part.ChildPart

	// iterable
	items part.Iterator

	// template instance
	instance *part.TemplateInstance
	result   *template.Result

	// templatePartIndex is the next template part descriptor to expect.
	templatePartIndex int

	// instancePartIndex is the next value of result to consume.
	instancePartIndex int
}

// descriptor returns the next expected template part, if any.
func (f *frame) descriptor() (template.Part, bool) {
	parts := f.instance.Template.Parts
	if f.templatePartIndex >= len(parts) {
		return template.Part{}, false
	}
	return parts[f.templatePartIndex], true
}

// stack is the hydration part stack. It replaces recursion so nesting
// depth in the markup never grows the Go call stack.
type stack []*frame

func (s *stack) push(f *frame) { *s = append(*s, f) }

func (s *stack) pop() *frame {
	old := *s
	f := old[len(old)-1]
	old[len(old)-1] = nil
	*s = old[:len(old)-1]
	return f
}

// top returns the innermost open frame, or nil.
func (s stack) top() *frame {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// stop releases the iterators of any frames left open.
func (s stack) stop() {
	for _, f := range s {
		if f.items != nil {
			f.items.Stop()
		}
	}
}
