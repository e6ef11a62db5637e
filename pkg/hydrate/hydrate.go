package hydrate

import (
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/marker"
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/template"
)

// hydrator holds the state of one hydration pass over a container.
type hydrator struct {
	container *html.Node
	value     any
	markers   marker.Markers
	catalog   *template.Catalog
	opts      *part.Options
	scanner   *marker.Scanner

	stack  stack
	root   *part.ChildPart
	closed bool

	// bound counts the parts created, by kind.
	bound [part.KindElement + 1]int

	// pending holds the writes made by a successful pass, in marker order.
	pending []func()
}

func newHydrator(container *html.Node, value any, m marker.Markers, opts *part.Options) *hydrator {
	return &hydrator{
		container: container,
		value:     value,
		markers:   m,
		catalog:   opts.Catalog,
		opts:      opts,
		scanner:   marker.NewScanner(container),
	}
}

// run walks every comment in the container once and dispatches markers in
// document order. It returns the root child part when the markers are
// balanced and exactly one root part was found.
func (h *hydrator) run() (*part.ChildPart, error) {
	defer func() { h.stack.stop() }()

	for n := range h.scanner.All() {
		kind, payload := h.markers.Classify(n.Data)
		var err error
		switch kind {
		case marker.KindOpen:
			err = h.open(n, payload)
		case marker.KindNode:
			err = h.bind(n, payload)
		case marker.KindClose:
			err = h.close(n)
		}
		if err != nil {
			return nil, err
		}
	}

	if len(h.stack) > 0 {
		return nil, errors.New("E013").
			WithDetailf("%d part(s) still open, innermost opened by %q", len(h.stack), h.stack.top().part.Start().Data).
			WithLocation(h.scanner.Count(), "")
	}
	if h.root == nil {
		return nil, errors.New("E012").WithLocation(h.scanner.Count(), "")
	}
	for _, fn := range h.pending {
		fn()
	}
	h.pending = nil
	return h.root, nil
}

// later queues a write that must not happen unless the pass succeeds.
func (h *hydrator) later(fn func()) {
	h.pending = append(h.pending, fn)
}

// fail creates an error located at marker n.
func (h *hydrator) fail(code string, n *html.Node) *errors.Error {
	return errors.New(code).WithLocation(h.scanner.Count(), marker.Path(h.container, n))
}

// parts returns the total number of parts created.
func (h *hydrator) parts() int {
	total := 0
	for _, n := range h.bound {
		total += n
	}
	return total
}
