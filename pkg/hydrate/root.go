package hydrate

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/part"
)

// Root is the live render held by a container. All later renders of the
// container go through Update.
type Root struct {
	// ID identifies the root in logs and traces.
	ID uuid.UUID

	// Container is the element the root renders into.
	Container *html.Node

	// Part is the root child part that owns every instance and part of the
	// render.
	Part *part.ChildPart

	runtime *Runtime
	opts    *part.Options
	mu      sync.Mutex
}

func newRoot(rt *Runtime, container *html.Node, cp *part.ChildPart, opts *part.Options) *Root {
	return &Root{
		ID:        uuid.New(),
		Container: container,
		Part:      cp,
		runtime:   rt,
		opts:      opts,
	}
}

// Update renders value into the root, patching the existing DOM.
func (r *Root) Update(value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Part.SetValue(value)
}

// Document returns the document the root's parts write through.
func (r *Root) Document() *dom.Document {
	return r.opts.Document
}

// Shape describes the root's part tree.
func (r *Root) Shape() *part.Shape {
	r.mu.Lock()
	defer r.mu.Unlock()
	return part.Describe(r.Part)
}

// Release gives up the container. See Runtime.Release.
func (r *Root) Release() bool {
	if r.runtime.Root(r.Container) != r {
		return false
	}
	return r.runtime.Release(r.Container)
}
