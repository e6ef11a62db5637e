// Package marker defines the comment-marker wire format shared by the
// server renderer and the hydrator, and the scanner that walks marker
// comments in document order.
//
// Three marker kinds exist:
//
//	<!--vg-part-->          open a child part holding a non-template value
//	<!--vg-part 9gmR7dlj0Ak=-->  open a child part holding a template result
//	<!--/vg-part-->         close the innermost open child part
//	<!--vg-node 3-->        annotate template node 3 as carrying bindings
//
// A node marker is the first child of the annotated element, or, for void
// elements, its next sibling.
package marker
