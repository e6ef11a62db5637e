// Package errors provides structured, coded errors for the hydrate runtime.
//
// Every failure the runtime can report has a registered code that maps to
// a category, a short message and a longer explanation. Errors may carry
// the position in the scanned markup where the failure was detected, a
// detail line naming the offending value or marker, and a hint.
//
// # Error Categories
//
//   - state: a container already holds a live render
//   - structural: markers do not nest or balance
//   - shape: the supplied values disagree with the markup
//   - internal: the hydrator reached a state the markers cannot produce
//   - template: a template cannot be prepared
//   - config, fixture, cli: tooling errors
//
// # Usage
//
//	err := errors.New("E020").
//	    WithDetail(`marker "vg-part AAA=" but template digest is "BBB="`).
//	    WithLocation(7, "div/ul")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E020: Template digest mismatch
//	//
//	//   at marker #7 (div/ul)
//	//
//	//   marker "vg-part AAA=" but template digest is "BBB="
//
// Errors compare by code, so a registered code doubles as a sentinel:
//
//	if errors.Is(err, errors.New("E020")) { ... }
package errors
