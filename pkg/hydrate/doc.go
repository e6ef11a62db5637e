// Package hydrate reconstructs live parts from markup produced by a prior
// render.
//
// The server renders a template result with comment markers around every
// child part and before every element that carries attribute or element
// bindings. Hydration walks those markers once, in document order, and
// rebuilds the template instances and parts that a fresh render would have
// created, without rewriting markup it recognizes. Only property and event
// parts, whose values never reach server markup, are applied to the DOM.
//
// A container holds at most one live render. The first Hydrate or Render
// returns a *Root; later renders go through Root.Update:
//
//	root, err := hydrate.Hydrate(result, container)
//	if err != nil {
//	    // fall back to a fresh render
//	}
//	err = root.Update(next)
//
// Every failure aborts the pass and leaves the container unclaimed. Errors
// carry a code (see the Err variables) and the position of the offending
// marker.
package hydrate
