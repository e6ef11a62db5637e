package hydrate

import (
	"golang.org/x/net/html"
)

// close handles a child part close marker. It ends the innermost open part
// on the marker and checks that the part consumed exactly what its value
// provides.
func (h *hydrator) close(n *html.Node) error {
	if len(h.stack) == 0 {
		return h.fail("E010", n).WithDetailf("close marker %q with no open part", n.Data)
	}

	f := h.stack.pop()
	f.part.SetEnd(n)

	switch f.kind {
	case frameIterable:
		_, more := f.items.Next()
		f.items.Stop()
		f.items = nil
		if more {
			return h.fail("E022", n).
				WithDetailf("iterable has more items than the %d marked", len(f.part.Items()))
		}

	case frameTemplate:
		tmpl := f.instance.Template
		if f.templatePartIndex != len(tmpl.Parts) {
			return h.fail("E023", n).
				WithDetailf("template %s closed after %d of %d parts", tmpl.Digest, f.templatePartIndex, len(tmpl.Parts))
		}
		if f.instancePartIndex != len(f.result.Values) {
			return h.fail("E023", n).
				WithDetailf("template %s closed after %d of %d values", tmpl.Digest, f.instancePartIndex, len(f.result.Values))
		}
	}

	if len(h.stack) == 0 {
		h.closed = true
	}
	return nil
}
