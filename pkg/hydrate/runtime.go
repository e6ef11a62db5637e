package hydrate

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/marker"
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/telemetry"
	"github.com/vango-dev/hydrate/pkg/template"
)

// Options configures a Runtime.
type Options struct {
	// Markers are the marker prefixes the markup was rendered with.
	// Default: marker.Default()
	Markers marker.Markers

	// Catalog memoizes templates.
	// Default: template.DefaultCatalog
	Catalog *template.Catalog

	// Document is shared by every root of the runtime. A Document is not
	// safe for concurrent use, so a shared one must only be used from one
	// goroutine at a time. If nil, each root gets its own.
	Document *dom.Document

	// Logger is the structured logger.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics records passes. Nil records nothing.
	Metrics *telemetry.Metrics

	// Tracer starts spans. Nil uses the global tracer provider.
	Tracer *telemetry.Tracer
}

// Runtime hydrates and renders containers and owns their live roots.
// It is safe for concurrent use on distinct containers.
type Runtime struct {
	markers  marker.Markers
	catalog  *template.Catalog
	document *dom.Document
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	tracer   *telemetry.Tracer

	mu sync.Mutex
	// roots maps a container to its root. A nil entry reserves a container
	// while a pass is in progress.
	roots map[*html.Node]*Root
}

// New creates a Runtime.
func New(opts Options) (*Runtime, error) {
	m := opts.Markers.OrDefault()
	if err := m.Validate(); err != nil {
		return nil, errors.New("E050").WithDetail("markers").Wrap(err)
	}
	rt := &Runtime{
		markers:  m,
		catalog:  opts.Catalog,
		document: opts.Document,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		roots:    make(map[*html.Node]*Root),
	}
	if rt.catalog == nil {
		rt.catalog = template.DefaultCatalog
	}
	if rt.logger == nil {
		rt.logger = slog.Default()
	}
	return rt, nil
}

var defaultRuntime = sync.OnceValue(func() *Runtime {
	rt, _ := New(Options{})
	return rt
})

// Default returns the runtime used by the package-level functions.
func Default() *Runtime {
	return defaultRuntime()
}

// Hydrate hydrates container with the default runtime.
func Hydrate(value any, container *html.Node) (*Root, error) {
	return Default().Hydrate(value, container)
}

// Render renders into container with the default runtime.
func Render(value any, container *html.Node) (*Root, error) {
	return Default().Render(value, container)
}

// Markers returns the marker prefixes the runtime recognizes.
func (rt *Runtime) Markers() marker.Markers {
	return rt.markers
}

// Hydrate reconstructs the parts of markup rendered from value.
func (rt *Runtime) Hydrate(value any, container *html.Node) (*Root, error) {
	return rt.HydrateContext(context.Background(), value, container)
}

// HydrateContext is Hydrate with a context for tracing. The pass itself is
// synchronous and is not cancelled by ctx.
func (rt *Runtime) HydrateContext(ctx context.Context, value any, container *html.Node) (*Root, error) {
	ctx, span := rt.tracer.Start(ctx, "hydrate")
	start := time.Now()

	if err := rt.reserve(container); err != nil {
		rt.metrics.ObserveHydrate(time.Since(start), 0, err)
		rt.logFailure(ctx, "hydrate", err)
		telemetry.End(span, err)
		return nil, err
	}

	opts := rt.partOptions()
	h := newHydrator(container, value, rt.markers, opts)
	cp, err := h.run()
	elapsed := time.Since(start)
	rt.metrics.ObserveHydrate(elapsed, h.scanner.Count(), err)
	if err != nil {
		rt.unreserve(container)
		rt.logFailure(ctx, "hydrate", err)
		telemetry.End(span, err, attribute.Int("hydrate.markers", h.scanner.Count()))
		return nil, err
	}

	for k, n := range h.bound {
		rt.metrics.PartsBound(part.Kind(k).String(), n)
	}
	root := rt.claim(container, cp, opts)
	rt.logger.DebugContext(ctx, "hydrated",
		"root", root.ID.String(),
		"parts", h.parts(),
		"markers", h.scanner.Count(),
		"duration", elapsed,
	)
	telemetry.End(span, nil,
		attribute.String("hydrate.root", root.ID.String()),
		attribute.Int("hydrate.markers", h.scanner.Count()),
		attribute.Int("hydrate.parts", h.parts()),
	)
	return root, nil
}

// Render commits value into container as a fresh render, appending the
// rendered nodes after any existing content.
func (rt *Runtime) Render(value any, container *html.Node) (*Root, error) {
	return rt.RenderContext(context.Background(), value, container)
}

// RenderContext is Render with a context for tracing.
func (rt *Runtime) RenderContext(ctx context.Context, value any, container *html.Node) (*Root, error) {
	ctx, span := rt.tracer.Start(ctx, "render")
	start := time.Now()

	if err := rt.reserve(container); err != nil {
		rt.metrics.ObserveRender(time.Since(start), err)
		rt.logFailure(ctx, "render", err)
		telemetry.End(span, err)
		return nil, err
	}

	opts := rt.partOptions()
	doc := opts.Document
	begin := &html.Node{Type: html.CommentNode}
	end := &html.Node{Type: html.CommentNode}
	doc.InsertBefore(container, begin, nil)
	doc.InsertBefore(container, end, nil)
	cp := part.NewChild(begin, end, container, opts)

	err := cp.SetValue(value)
	rt.metrics.ObserveRender(time.Since(start), err)
	if err != nil {
		for n := begin; n != nil; {
			next := n.NextSibling
			doc.Remove(n)
			doc.Forget(n)
			if n == end {
				break
			}
			n = next
		}
		rt.unreserve(container)
		rt.logFailure(ctx, "render", err)
		telemetry.End(span, err)
		return nil, err
	}

	root := rt.claim(container, cp, opts)
	rt.logger.DebugContext(ctx, "rendered", "root", root.ID.String(), "duration", time.Since(start))
	telemetry.End(span, nil, attribute.String("hydrate.root", root.ID.String()))
	return root, nil
}

// Root returns the live root of container, or nil.
func (rt *Runtime) Root(container *html.Node) *Root {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.roots[container]
}

// Release drops the live root of container so it can be hydrated or
// rendered again. It reports whether a root was held. The container's
// nodes are left as they are.
func (rt *Runtime) Release(container *html.Node) bool {
	rt.mu.Lock()
	root, ok := rt.roots[container]
	if ok && root != nil {
		delete(rt.roots, container)
	}
	rt.mu.Unlock()

	if !ok || root == nil {
		return false
	}
	rt.metrics.RootReleased()
	return true
}

// Len returns the number of live roots.
func (rt *Runtime) Len() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	n := 0
	for _, r := range rt.roots {
		if r != nil {
			n++
		}
	}
	return n
}

// reserve claims container for a pass in progress.
func (rt *Runtime) reserve(container *html.Node) error {
	if container == nil {
		return errors.New("E012").WithDetail("container is nil")
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if _, ok := rt.roots[container]; ok {
		return errors.New("E001").WithDetailf("container <%s>", container.Data)
	}
	rt.roots[container] = nil
	return nil
}

func (rt *Runtime) unreserve(container *html.Node) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if r, ok := rt.roots[container]; ok && r == nil {
		delete(rt.roots, container)
	}
}

// claim turns the reservation of container into a live root.
func (rt *Runtime) claim(container *html.Node, cp *part.ChildPart, opts *part.Options) *Root {
	root := newRoot(rt, container, cp, opts)
	rt.mu.Lock()
	rt.roots[container] = root
	rt.mu.Unlock()
	rt.metrics.RootAdded()
	return root
}

func (rt *Runtime) partOptions() *part.Options {
	doc := rt.document
	if doc == nil {
		doc = dom.NewDocument()
	}
	return &part.Options{Document: doc, Catalog: rt.catalog}
}

func (rt *Runtime) logFailure(ctx context.Context, op string, err error) {
	rt.logger.WarnContext(ctx, op+" failed",
		"code", errors.CodeOf(err),
		"error", err,
	)
}
