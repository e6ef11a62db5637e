package dom

import (
	"fmt"

	"golang.org/x/net/html"
)

// MutationKind identifies the kind of a DOM write.
type MutationKind uint8

const (
	AttrSet MutationKind = iota
	AttrRemoved
	PropertySet
	ListenerAdded
	ListenerRemoved
	NodeInserted
	NodeRemoved
	TextChanged
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case AttrSet:
		return "AttrSet"
	case AttrRemoved:
		return "AttrRemoved"
	case PropertySet:
		return "PropertySet"
	case ListenerAdded:
		return "ListenerAdded"
	case ListenerRemoved:
		return "ListenerRemoved"
	case NodeInserted:
		return "NodeInserted"
	case NodeRemoved:
		return "NodeRemoved"
	case TextChanged:
		return "TextChanged"
	default:
		return "Unknown"
	}
}

// Mutation describes one DOM write.
type Mutation struct {
	Kind   MutationKind
	Target *html.Node
	Name   string // attribute, property or event name
	Value  any
}

// String returns a short description of the mutation.
func (m Mutation) String() string {
	target := "<nil>"
	if m.Target != nil {
		target = describe(m.Target)
	}
	if m.Name != "" {
		return fmt.Sprintf("%s %s %s", m.Kind, target, m.Name)
	}
	return fmt.Sprintf("%s %s", m.Kind, target)
}

func describe(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		return "<" + n.Data + ">"
	case html.TextNode:
		return fmt.Sprintf("#text(%q)", n.Data)
	case html.CommentNode:
		return fmt.Sprintf("<!--%s-->", n.Data)
	default:
		return "#node"
	}
}

// Event is dispatched to listeners.
type Event struct {
	Type   string
	Target *html.Node
	Detail any
}

// Handler receives dispatched events.
type Handler interface {
	HandleEvent(ev *Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev *Event)

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ev *Event) {
	f(ev)
}

// Document is the host for a set of node trees.
// A Document is not safe for concurrent use.
type Document struct {
	props     map[*html.Node]map[string]any
	listeners map[*html.Node]map[string]Handler
	observers map[int]func(Mutation)
	nextObs   int
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{
		props:     make(map[*html.Node]map[string]any),
		listeners: make(map[*html.Node]map[string]Handler),
		observers: make(map[int]func(Mutation)),
	}
}

// Observe registers fn to receive every mutation. The returned func
// unregisters it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	id := d.nextObs
	d.nextObs++
	d.observers[id] = fn
	return func() { delete(d.observers, id) }
}

func (d *Document) emit(m Mutation) {
	for _, fn := range d.observers {
		fn(m)
	}
}

// Attr returns the value of an attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, keeping its position when it already exists.
func (d *Document) SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			d.emit(Mutation{Kind: AttrSet, Target: n, Name: key, Value: val})
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	d.emit(Mutation{Kind: AttrSet, Target: n, Name: key, Value: val})
}

// RemoveAttr removes an attribute. Removing a missing attribute is not a
// mutation.
func (d *Document) RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.emit(Mutation{Kind: AttrRemoved, Target: n, Name: key})
			return
		}
	}
}

// ToggleAttr makes a boolean attribute present or absent. It only writes
// when the presence changes.
func (d *Document) ToggleAttr(n *html.Node, key string, on bool) {
	_, has := Attr(n, key)
	switch {
	case on && !has:
		d.SetAttr(n, key, "")
	case !on && has:
		d.RemoveAttr(n, key)
	}
}

// SetProperty assigns a property on a node.
func (d *Document) SetProperty(n *html.Node, name string, v any) {
	props := d.props[n]
	if props == nil {
		props = make(map[string]any)
		d.props[n] = props
	}
	props[name] = v
	d.emit(Mutation{Kind: PropertySet, Target: n, Name: name, Value: v})
}

// Property returns a property previously assigned on a node.
func (d *Document) Property(n *html.Node, name string) (any, bool) {
	v, ok := d.props[n][name]
	return v, ok
}

// AddListener registers h for events of the given type on n, replacing any
// existing listener for that type.
func (d *Document) AddListener(n *html.Node, event string, h Handler) {
	ls := d.listeners[n]
	if ls == nil {
		ls = make(map[string]Handler)
		d.listeners[n] = ls
	}
	ls[event] = h
	d.emit(Mutation{Kind: ListenerAdded, Target: n, Name: event})
}

// RemoveListener unregisters the listener for an event type.
func (d *Document) RemoveListener(n *html.Node, event string) {
	if _, ok := d.listeners[n][event]; !ok {
		return
	}
	delete(d.listeners[n], event)
	d.emit(Mutation{Kind: ListenerRemoved, Target: n, Name: event})
}

// Listener returns the listener registered for an event type.
func (d *Document) Listener(n *html.Node, event string) (Handler, bool) {
	h, ok := d.listeners[n][event]
	return h, ok
}

// Dispatch delivers an event to the listener on n. It reports whether a
// listener was found.
func (d *Document) Dispatch(n *html.Node, ev *Event) bool {
	h, ok := d.listeners[n][ev.Type]
	if !ok {
		return false
	}
	if ev.Target == nil {
		ev.Target = n
	}
	h.HandleEvent(ev)
	return true
}

// InsertBefore inserts n as a child of parent before ref. A nil ref appends.
// A node that is already attached is moved.
func (d *Document) InsertBefore(parent, n, ref *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	parent.InsertBefore(n, ref)
	d.emit(Mutation{Kind: NodeInserted, Target: n})
}

// Remove detaches n from its parent.
func (d *Document) Remove(n *html.Node) {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
	d.emit(Mutation{Kind: NodeRemoved, Target: n})
}

// SetText replaces the data of a text node. Writing identical data is not a
// mutation.
func (d *Document) SetText(n *html.Node, text string) {
	if n.Data == text {
		return
	}
	n.Data = text
	d.emit(Mutation{Kind: TextChanged, Target: n, Value: text})
}

// Forget drops the properties and listeners held for n and its
// descendants. It is called when a subtree leaves the document for good.
func (d *Document) Forget(n *html.Node) {
	for c := range Descendants(n) {
		delete(d.props, c)
		delete(d.listeners, c)
	}
	delete(d.props, n)
	delete(d.listeners, n)
}
