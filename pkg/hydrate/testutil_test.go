package hydrate

import (
	"io"
	"log/slog"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/digest"
	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/render"
	"github.com/vango-dev/hydrate/pkg/template"
)

// env is a runtime over one shared document whose mutations are recorded.
type env struct {
	t   *testing.T
	rt  *Runtime
	doc *dom.Document
	cat *template.Catalog
	rec *dom.Recorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	doc := dom.NewDocument()
	cat := template.NewCatalog()
	rt, err := New(Options{
		Document: doc,
		Catalog:  cat,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &env{t: t, rt: rt, doc: doc, cat: cat, rec: dom.Record(doc)}
}

// serve renders v the way a server would and parses the markup into a new
// container.
func (e *env) serve(v any) *html.Node {
	e.t.Helper()
	markup, err := render.NewRenderer(render.RendererConfig{Catalog: e.cat}).RenderToString(v)
	if err != nil {
		e.t.Fatalf("RenderToString: %v", err)
	}
	return e.container(markup)
}

func (e *env) container(markup string) *html.Node {
	e.t.Helper()
	c := dom.Container("div")
	if err := dom.Fill(c, markup); err != nil {
		e.t.Fatalf("Fill(%q): %v", markup, err)
	}
	return c
}

func (e *env) hydrate(v any, c *html.Node) *Root {
	e.t.Helper()
	root, err := e.rt.Hydrate(v, c)
	if err != nil {
		e.t.Fatalf("Hydrate: %v", err)
	}
	return root
}

// open returns the open marker for a template with the given strings.
func open(strs ...string) string {
	return "<!--vg-part " + digest.Compute(strs) + "-->"
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s, got nil", code)
	}
	if got := errors.CodeOf(err); got != code {
		t.Fatalf("error code = %q, want %q (%v)", got, code, err)
	}
}
