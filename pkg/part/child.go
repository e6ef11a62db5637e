package part

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/template"
)

// ChildPart binds the content between two comment boundaries.
//
// The committed value is Nothing, a primitive, a fallback value committed
// as text, a *TemplateInstance, an *html.Node, or the []*ChildPart of an
// iterable.
type ChildPart struct {
	start     *html.Node
	end       *html.Node
	parent    any
	opts      *Options
	committed any
}

// NewChild creates a child part between start and end. The parent is the
// owning *TemplateInstance, the enclosing *ChildPart of an iterable, or
// the container node of a root part. end may be nil while hydrating until
// the closing boundary is reached.
func NewChild(start, end *html.Node, parent any, opts *Options) *ChildPart {
	return &ChildPart{start: start, end: end, parent: parent, opts: opts, committed: Nothing}
}

// Kind implements Part.
func (c *ChildPart) Kind() Kind { return KindChild }

// Node implements Part.
func (c *ChildPart) Node() *html.Node { return c.start }

// Start returns the start boundary.
func (c *ChildPart) Start() *html.Node { return c.start }

// End returns the end boundary.
func (c *ChildPart) End() *html.Node { return c.end }

// Parent returns the owner of the part.
func (c *ChildPart) Parent() any { return c.parent }

// Value returns the committed value.
func (c *ChildPart) Value() any { return c.committed }

// Options returns the options the part was created with.
func (c *ChildPart) Options() *Options { return c.opts }

// Prime sets the committed value without touching the DOM.
func (c *ChildPart) Prime(v any) { c.committed = v }

// SetEnd sets the end boundary.
func (c *ChildPart) SetEnd(end *html.Node) { c.end = end }

// AppendItem adds an item part to a primed iterable.
func (c *ChildPart) AppendItem(item *ChildPart) {
	items, _ := c.committed.([]*ChildPart)
	c.committed = append(items, item)
}

// Items returns the item parts of a committed iterable.
func (c *ChildPart) Items() []*ChildPart {
	items, _ := c.committed.([]*ChildPart)
	return items
}

// Instance returns the committed template instance, if any.
func (c *ChildPart) Instance() *TemplateInstance {
	inst, _ := c.committed.(*TemplateInstance)
	return inst
}

// SetValue resolves v and commits it.
func (c *ChildPart) SetValue(v any) error {
	v = Resolve(c, v)
	if IsNil(v) {
		v = Nothing
	}

	if IsPrimitive(v) {
		switch {
		case v == NoChange:
		case v == nil || v == Nothing || v == "":
			if c.committed != Nothing {
				c.clear(c.start.NextSibling)
			}
			c.committed = Nothing
		case !Same(v, c.committed):
			c.commitText(v)
		}
		return nil
	}

	switch x := v.(type) {
	case *template.Result:
		return c.commitTemplateResult(x)
	case *html.Node:
		c.commitNode(x)
		return nil
	}
	if it, ok := Iterate(v); ok {
		return c.commitIterable(it)
	}
	c.commitText(v)
	return nil
}

func (c *ChildPart) insert(n *html.Node) {
	c.opts.document().InsertBefore(c.end.Parent, n, c.end)
}

// clear removes the nodes from n up to the end boundary.
func (c *ChildPart) clear(n *html.Node) {
	doc := c.opts.document()
	for n != nil && n != c.end {
		next := n.NextSibling
		doc.Remove(n)
		doc.Forget(n)
		n = next
	}
}

// textual reports whether the committed value was rendered as one text
// node.
func (c *ChildPart) textual() bool {
	switch c.committed.(type) {
	case *TemplateInstance, *html.Node, []*ChildPart:
		return false
	}
	return c.committed != Nothing
}

func (c *ChildPart) commitText(v any) {
	text := Stringify(v)
	if c.textual() {
		if n := c.start.NextSibling; n != nil && n.Type == html.TextNode && n.NextSibling == c.end {
			c.opts.document().SetText(n, text)
			c.committed = v
			return
		}
	}
	c.commitNode(&html.Node{Type: html.TextNode, Data: text})
	c.committed = v
}

func (c *ChildPart) commitNode(n *html.Node) {
	if cur, ok := c.committed.(*html.Node); ok && cur == n {
		return
	}
	c.clear(c.start.NextSibling)
	c.insert(n)
	c.committed = n
}

func (c *ChildPart) commitTemplateResult(r *template.Result) error {
	tmpl, err := c.opts.catalog().Get(r)
	if err != nil {
		return err
	}
	if inst, ok := c.committed.(*TemplateInstance); ok && inst.Template == tmpl {
		return inst.Update(r.Values)
	}

	inst := NewInstance(tmpl, c, c.opts)
	frag := inst.Clone()
	if err := inst.Update(r.Values); err != nil {
		return err
	}
	c.clear(c.start.NextSibling)
	for n := frag.FirstChild; n != nil; {
		next := n.NextSibling
		c.insert(n)
		n = next
	}
	c.committed = inst
	return nil
}

func (c *ChildPart) commitIterable(it Iterator) error {
	defer it.Stop()

	items, ok := c.committed.([]*ChildPart)
	if !ok {
		c.clear(c.start.NextSibling)
		items = nil
	}

	i := 0
	var last *ChildPart
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		if i == len(items) {
			start := &html.Node{Type: html.CommentNode}
			end := &html.Node{Type: html.CommentNode}
			c.insert(start)
			c.insert(end)
			items = append(items, NewChild(start, end, c, c.opts))
		}
		last = items[i]
		if err := last.SetValue(v); err != nil {
			c.committed = items
			return err
		}
		i++
	}

	if i < len(items) {
		from := c.start.NextSibling
		if last != nil {
			from = last.end.NextSibling
		}
		c.clear(from)
		items = items[:i]
	}
	c.committed = items
	return nil
}
