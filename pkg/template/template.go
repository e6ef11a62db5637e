package template

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/digest"
)

// PartKind is the position kind of a template part.
type PartKind uint8

const (
	ChildPart PartKind = iota
	AttributePart
	ElementPart
)

// String returns the string representation of the PartKind.
func (k PartKind) String() string {
	switch k {
	case ChildPart:
		return "child"
	case AttributePart:
		return "attribute"
	case ElementPart:
		return "element"
	default:
		return "unknown"
	}
}

// AttrCtor selects how an attribute binding is committed.
type AttrCtor uint8

const (
	AttrPlain AttrCtor = iota
	AttrBoolean
	AttrProperty
	AttrEvent
)

// String returns the string representation of the AttrCtor.
func (c AttrCtor) String() string {
	switch c {
	case AttrPlain:
		return "plain"
	case AttrBoolean:
		return "boolean"
	case AttrProperty:
		return "property"
	case AttrEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Part describes one binding position in a template.
type Part struct {
	Kind PartKind

	// Index is the node index, as counted by Walk, of the comment that
	// starts a child part or of the element an attribute or element part
	// is bound on.
	Index int

	// Name is the attribute name as written, without its prefix.
	Name string

	// Strings are the static pieces of an attribute value around its
	// expressions.
	Strings []string

	Ctor AttrCtor
}

// Slots returns how many values the part consumes.
func (p Part) Slots() int {
	if p.Kind == AttributePart {
		return len(p.Strings) - 1
	}
	return 1
}

// SingleExpression reports whether the part consumes exactly one value with
// no static text around it.
func (p Part) SingleExpression() bool {
	if p.Kind != AttributePart {
		return true
	}
	return len(p.Strings) == 2 && p.Strings[0] == "" && p.Strings[1] == ""
}

// Template is a prepared static shape.
type Template struct {
	Strings []string
	Digest  string
	Parts   []Part

	// Content holds the parsed markup with placeholders removed. Each
	// child part is bounded by a pair of empty comments. Content must not
	// be modified; instances clone it.
	Content *html.Node
}

// StaticStrings returns the static strings of the template.
func (t *Template) StaticStrings() []string {
	return t.Strings
}

// ValueCount returns the number of values a Result for this template
// carries.
func (t *Template) ValueCount() int {
	return len(t.Strings) - 1
}

type foundPart struct {
	node  *html.Node
	part  Part
	first int
}

// Parse prepares the Template for a static shape.
func Parse(strs []string) (*Template, error) {
	if len(strs) == 0 {
		return nil, errors.New("E041").WithDetail("template has no static strings")
	}
	markup, attrs, err := prepare(strs)
	if err != nil {
		return nil, err
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "template", DataAtom: atom.Template}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, errors.New("E041").WithDetail("markup did not parse").Wrap(err)
	}
	content := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		content.AppendChild(n)
	}

	var all []*html.Node
	for _, n := range Walk(content) {
		all = append(all, n)
	}

	var found []foundPart
	for _, n := range all {
		switch n.Type {
		case html.CommentNode:
			k, ok := placeholderIndex(n.Data, childPlaceholder)
			if !ok {
				continue
			}
			n.Data = ""
			n.Parent.InsertBefore(&html.Node{Type: html.CommentNode}, n.NextSibling)
			found = append(found, foundPart{node: n, part: Part{Kind: ChildPart}, first: k})

		case html.ElementNode:
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if k, ok := placeholderIndex(a.Key, attrPlaceholder); ok && k < len(attrs) {
					info := attrs[k]
					found = append(found, foundPart{
						node:  n,
						part:  Part{Kind: AttributePart, Name: info.name, Strings: info.strings, Ctor: info.ctor},
						first: info.first,
					})
					continue
				}
				if k, ok := placeholderIndex(a.Key, elementPlaceholder); ok {
					found = append(found, foundPart{node: n, part: Part{Kind: ElementPart}, first: k})
					continue
				}
				kept = append(kept, a)
			}
			n.Attr = kept
		}
	}

	index := make(map[*html.Node]int, len(all)+len(found))
	for i, n := range Walk(content) {
		index[n] = i
	}

	parts := make([]Part, 0, len(found))
	next := 0
	for _, f := range found {
		if f.first != next {
			return nil, errors.New("E041").WithDetailf("binding %d was moved by the HTML parser", f.first)
		}
		f.part.Index = index[f.node]
		next += f.part.Slots()
		parts = append(parts, f.part)
	}
	if want := len(strs) - 1; next != want {
		return nil, errors.New("E041").WithDetailf("template has %d bindings, %d survived parsing", want, next)
	}

	return &Template{
		Strings: strs,
		Digest:  digest.Compute(strs),
		Parts:   parts,
		Content: content,
	}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(strs ...string) *Template {
	t, err := Parse(strs)
	if err != nil {
		panic(err)
	}
	return t
}

func placeholderIndex(s, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return 0, false
	}
	k, err := strconv.Atoi(rest)
	if err != nil || k < 0 {
		return 0, false
	}
	return k, true
}
