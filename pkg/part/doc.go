// Package part implements the live bindings of template instances.
//
// A part is bound to one dynamic position of a template: the content
// between two comment boundaries (ChildPart), an attribute, property,
// boolean attribute or event listener on an element (AttributePart), or an
// element as a whole (ElementPart). Setting a value on a part resolves
// directives, dirty-checks against the committed value and writes to the
// Document only what changed.
//
// The same parts serve fresh rendering and hydration. A fresh render
// clones a template's content and commits every value. Hydration builds
// the parts over existing markup and primes their committed values instead
// of writing them, so a later update with equal values changes nothing.
package part
