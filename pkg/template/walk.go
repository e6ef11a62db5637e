package template

import (
	"iter"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/pkg/dom"
)

// Walk yields every node below root in document order together with its
// node index. Indices start at zero and count nodes of every type.
func Walk(root *html.Node) iter.Seq2[int, *html.Node] {
	return func(yield func(int, *html.Node) bool) {
		i := 0
		for n := range dom.Descendants(root) {
			if !yield(i, n) {
				return
			}
			i++
		}
	}
}

// NodeAt returns the node with the given index below root, or nil.
func NodeAt(root *html.Node, index int) *html.Node {
	for i, n := range Walk(root) {
		if i == index {
			return n
		}
	}
	return nil
}
