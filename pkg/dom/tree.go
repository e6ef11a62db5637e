package dom

import (
	"bytes"
	"iter"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Container creates a detached element to parse server output into.
func Container(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// ParseFragment parses markup as the content of a container element.
func ParseFragment(markup, tag string) (*html.Node, error) {
	c := Container(tag)
	if err := Fill(c, markup); err != nil {
		return nil, err
	}
	return c, nil
}

// Fill parses markup in the context of c and appends the result to c.
func Fill(c *html.Node, markup string) error {
	ctx := &html.Node{Type: html.ElementNode, Data: c.Data, DataAtom: c.DataAtom}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		c.AppendChild(n)
	}
	return nil
}

// Clone returns a deep copy of n without parent or siblings.
func Clone(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		out.Attr = make([]html.Attribute, len(n.Attr))
		copy(out.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(Clone(c))
	}
	return out
}

// Descendants yields every node below n in document order. It does not
// recurse, so deep trees are safe.
func Descendants(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		cur := n.FirstChild
		for cur != nil {
			if !yield(cur) {
				return
			}
			if cur.FirstChild != nil {
				cur = cur.FirstChild
				continue
			}
			for cur != nil && cur != n && cur.NextSibling == nil {
				cur = cur.Parent
			}
			if cur == nil || cur == n {
				return
			}
			cur = cur.NextSibling
		}
	}
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on writer errors.
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// TextContent returns the concatenated text below n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	for c := range Descendants(n) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// Elements yields the element descendants of n with the given tag.
func Elements(n *html.Node, tag string) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for c := range Descendants(n) {
			if c.Type == html.ElementNode && c.Data == tag {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// First returns the first element descendant of n with the given tag.
func First(n *html.Node, tag string) *html.Node {
	for c := range Elements(n, tag) {
		return c
	}
	return nil
}

// Render serializes n and its subtree.
func Render(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}
