package marker

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a comment.
type Kind uint8

const (
	KindNone  Kind = iota // ordinary comment
	KindOpen              // child part open
	KindClose             // child part close
	KindNode              // node annotation
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindOpen:
		return "Open"
	case KindClose:
		return "Close"
	case KindNode:
		return "Node"
	default:
		return "Unknown"
	}
}

// Markers holds the textual prefixes of the three marker kinds.
type Markers struct {
	Open  string `json:"open"`
	Close string `json:"close"`
	Node  string `json:"node"`
}

// Default returns the standard marker prefixes.
func Default() Markers {
	return Markers{
		Open:  "vg-part",
		Close: "/vg-part",
		Node:  "vg-node",
	}
}

// OrDefault returns m, or the defaults when m is the zero value.
func (m Markers) OrDefault() Markers {
	if m == (Markers{}) {
		return Default()
	}
	return m
}

// Validate checks that the prefixes are non-empty, distinct, and safe to
// embed in an HTML comment.
func (m Markers) Validate() error {
	prefixes := map[string]string{"open": m.Open, "close": m.Close, "node": m.Node}
	for name, p := range prefixes {
		if p == "" {
			return fmt.Errorf("marker: %s prefix is empty", name)
		}
		if strings.Contains(p, "--") || strings.ContainsAny(p, "> \t\r\n") {
			return fmt.Errorf("marker: %s prefix %q is not comment-safe", name, p)
		}
	}
	if m.Open == m.Close || m.Open == m.Node || m.Close == m.Node {
		return fmt.Errorf("marker: prefixes must be distinct")
	}
	return nil
}

// Classify returns the kind of a comment and the payload after the prefix.
// A prefix matches only when the text ends there or continues with a single
// space; the open payload is a digest, the node payload an index.
func (m Markers) Classify(text string) (Kind, string) {
	if payload, ok := cut(text, m.Close); ok && payload == "" {
		return KindClose, ""
	}
	if payload, ok := cut(text, m.Open); ok {
		return KindOpen, payload
	}
	if payload, ok := cut(text, m.Node); ok {
		return KindNode, payload
	}
	return KindNone, ""
}

func cut(text, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(text, prefix)
	if !ok {
		return "", false
	}
	if rest == "" {
		return "", true
	}
	if rest[0] != ' ' {
		return "", false
	}
	return rest[1:], true
}

// OpenText returns the text of an open marker. An empty digest yields a
// bare open marker.
func (m Markers) OpenText(digest string) string {
	if digest == "" {
		return m.Open
	}
	return m.Open + " " + digest
}

// CloseText returns the text of a close marker.
func (m Markers) CloseText() string {
	return m.Close
}

// NodeText returns the text of a node marker for template node index n.
func (m Markers) NodeText(n int) string {
	return m.Node + " " + strconv.Itoa(n)
}

// ParseNodeIndex parses a node marker payload. Only the canonical decimal
// form written by NodeText is accepted.
func ParseNodeIndex(payload string) (int, error) {
	n, err := strconv.Atoi(payload)
	if err != nil {
		return 0, fmt.Errorf("marker: node index %q: %w", payload, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("marker: node index %d is negative", n)
	}
	if strconv.Itoa(n) != payload {
		return 0, fmt.Errorf("marker: node index %q is not canonical", payload)
	}
	return n, nil
}
