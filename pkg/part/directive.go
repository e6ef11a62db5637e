package part

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Directive transforms a value before it is committed. Resolve receives the
// part the value is bound to. The part is nil when a value is rendered to a
// string on the server.
type Directive interface {
	Resolve(p Part) any
}

// DirectiveFunc adapts a function to Directive.
type DirectiveFunc func(p Part) any

// Resolve implements Directive.
func (f DirectiveFunc) Resolve(p Part) any {
	return f(p)
}

// maxResolve bounds chains of directives returning directives.
const maxResolve = 64

// Resolve applies directives to v until the result is not a directive.
func Resolve(p Part, v any) any {
	for range maxResolve {
		d, ok := v.(Directive)
		if !ok {
			return v
		}
		v = d.Resolve(p)
	}
	return Nothing
}

// IfDefined resolves to Nothing when v is nil and to v otherwise. Bound to
// an attribute it removes the attribute for nil values.
func IfDefined(v any) Directive {
	return DirectiveFunc(func(Part) any {
		if v == nil {
			return Nothing
		}
		return v
	})
}

// Keep resolves to NoChange, leaving whatever is committed in place.
func Keep() Directive {
	return DirectiveFunc(func(Part) any { return NoChange })
}

// ElementRef receives the element a Ref directive is bound to.
type ElementRef struct {
	Element *html.Node
}

// Ref records the element of the part it is bound to in r. It resolves to
// Nothing.
func Ref(r *ElementRef) Directive {
	return DirectiveFunc(func(p Part) any {
		switch p := p.(type) {
		case *ElementPart:
			r.Element = p.Element()
		case *AttributePart:
			r.Element = p.Element()
		}
		return Nothing
	})
}

// ClassMap resolves to the space separated, sorted names whose value is
// true.
func ClassMap(classes map[string]bool) Directive {
	return DirectiveFunc(func(Part) any {
		names := make([]string, 0, len(classes))
		for name, on := range classes {
			if on {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		return strings.Join(names, " ")
	})
}
