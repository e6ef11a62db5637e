package template

import "fmt"

// Result is a template invocation: the static strings of a template plus
// one value per expression between them.
type Result struct {
	Strings []string
	Values  []any
}

// New creates a Result. There must be exactly one value fewer than strings
// for the Result to be usable; Catalog.Get reports the mismatch.
func New(strings []string, values ...any) *Result {
	return &Result{Strings: strings, Values: values}
}

// HTML builds a Result from alternating static strings and values. It must
// start and end with a string. HTML panics on a malformed argument list, so
// it is meant for literal templates in code.
func HTML(parts ...any) *Result {
	if len(parts)%2 == 0 {
		panic(fmt.Sprintf("template.HTML: got %d parts, want an odd count", len(parts)))
	}
	r := &Result{
		Strings: make([]string, 0, len(parts)/2+1),
		Values:  make([]any, 0, len(parts)/2),
	}
	for i, p := range parts {
		if i%2 == 1 {
			r.Values = append(r.Values, p)
			continue
		}
		s, ok := p.(string)
		if !ok {
			panic(fmt.Sprintf("template.HTML: part %d is %T, want string", i, p))
		}
		r.Strings = append(r.Strings, s)
	}
	return r
}

// StaticStrings returns the static strings of the Result.
func (r *Result) StaticStrings() []string {
	return r.Strings
}
