package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/hydrate/pkg/digest"
	"github.com/vango-dev/hydrate/pkg/template"
)

func newTestRenderer() *Renderer {
	return NewRenderer(RendererConfig{Catalog: template.NewCatalog()})
}

func mustRender(t *testing.T, r *Renderer, v any) string {
	t.Helper()
	out, err := r.RenderToString(v)
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	return out
}

// open returns the open marker for a template with the given strings.
func open(strs ...string) string {
	return "<!--vg-part " + digest.Compute(strs) + "-->"
}

func extractAttrValue(t *testing.T, s string, attr string) string {
	t.Helper()

	needle := attr + "="
	idx := strings.Index(s, needle)
	if idx == -1 {
		t.Fatalf("expected %q in %q", needle, s)
	}

	start := idx + len(needle)
	if start >= len(s) || s[start] != '"' {
		t.Fatalf("expected quote for %q in %q", attr, s)
	}
	start++

	endRel := strings.IndexByte(s[start:], '"')
	if endRel == -1 {
		t.Fatalf("unterminated attribute %q in %q", attr, s)
	}

	return s[start : start+endRel]
}
