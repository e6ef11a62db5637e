package marker

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// Scanner walks the comment nodes below a root in document order.
//
// The walk is a pre-order traversal driven by sibling and parent pointers,
// so its stack use does not grow with tree depth. The tree must not be
// restructured while a scan is in progress.
type Scanner struct {
	root *html.Node
	cur  *html.Node
	seen int
	done bool
}

// NewScanner creates a Scanner over the descendants of root.
func NewScanner(root *html.Node) *Scanner {
	return &Scanner{root: root, cur: root}
}

// Next returns the next comment node, or nil when the walk is complete.
func (s *Scanner) Next() *html.Node {
	if s.done || s.root == nil {
		return nil
	}
	for {
		s.cur = s.advance(s.cur)
		if s.cur == nil {
			s.done = true
			return nil
		}
		if s.cur.Type == html.CommentNode {
			s.seen++
			return s.cur
		}
	}
}

// Count returns how many comments Next has returned.
func (s *Scanner) Count() int {
	return s.seen
}

// All returns an iterator over the remaining comment nodes.
func (s *Scanner) All() iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for n := s.Next(); n != nil; n = s.Next() {
			if !yield(n) {
				return
			}
		}
	}
}

func (s *Scanner) advance(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil && n != s.root {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// Path returns the element path from root down to n's parent, e.g.
// "div/ul/li". It is used to locate markers in error messages.
func Path(root, n *html.Node) string {
	var names []string
	for p := n.Parent; p != nil && p != root; p = p.Parent {
		if p.Type == html.ElementNode {
			names = append(names, p.Data)
		}
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, "/")
}
