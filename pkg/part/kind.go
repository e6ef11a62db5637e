package part

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/template"
)

// Kind identifies the variant of a part.
type Kind uint8

const (
	KindChild Kind = iota
	KindAttribute
	KindBoolean
	KindProperty
	KindEvent
	KindElement
)

type capability struct {
	name string

	// commitOnHydrate is set for variants whose value is not present in
	// server markup and must be applied while hydrating.
	commitOnHydrate bool
}

var capabilities = [...]capability{
	KindChild:     {name: "child"},
	KindAttribute: {name: "attribute"},
	KindBoolean:   {name: "boolean"},
	KindProperty:  {name: "property", commitOnHydrate: true},
	KindEvent:     {name: "event", commitOnHydrate: true},
	KindElement:   {name: "element"},
}

// String returns the string representation of the Kind.
func (k Kind) String() string {
	if int(k) < len(capabilities) {
		return capabilities[k].name
	}
	return "unknown"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CommitsOnHydrate reports whether parts of kind k write their value to
// the DOM while hydrating.
func CommitsOnHydrate(k Kind) bool {
	return int(k) < len(capabilities) && capabilities[k].commitOnHydrate
}

// KindOf maps a template attribute constructor to a part kind.
func KindOf(ctor template.AttrCtor) Kind {
	switch ctor {
	case template.AttrBoolean:
		return KindBoolean
	case template.AttrProperty:
		return KindProperty
	case template.AttrEvent:
		return KindEvent
	default:
		return KindAttribute
	}
}

// Part is a live binding.
type Part interface {
	Kind() Kind

	// Node returns the element a part is bound to, or the start boundary
	// of a child part.
	Node() *html.Node
}

// Options are shared by all parts of one render root.
type Options struct {
	Document *dom.Document
	Catalog  *template.Catalog
}

func (o *Options) document() *dom.Document {
	if o.Document == nil {
		o.Document = dom.NewDocument()
	}
	return o.Document
}

func (o *Options) catalog() *template.Catalog {
	if o.Catalog == nil {
		return template.DefaultCatalog
	}
	return o.Catalog
}
