// Package dom provides the host document the runtime binds parts to.
//
// Nodes are plain golang.org/x/net/html nodes. Document adds what a static
// tree lacks: per-node properties, event listeners and dispatch, and a
// mutation feed. Every write made through a Document is reported to its
// observers, which is how callers verify that hydration leaves correct
// markup untouched.
//
// Writes made directly on *html.Node values bypass the feed; the runtime
// only does that on detached clones before they are inserted.
package dom
