package part

import (
	"fmt"
	"iter"
	"math"
	"math/big"
	"reflect"
	"strconv"

	"github.com/vango-dev/hydrate/pkg/template"
)

// Sentinel is a marker value with special meaning to parts.
type Sentinel struct {
	name string
}

// String returns the sentinel's name.
func (s *Sentinel) String() string {
	return s.name
}

var (
	// NoChange leaves a part's committed value and DOM untouched.
	NoChange = &Sentinel{name: "noChange"}

	// Nothing clears a child part or removes an attribute.
	Nothing = &Sentinel{name: "nothing"}

	// unset fills the committed slots of interpolated attributes so the
	// first commit always writes.
	unset = &Sentinel{name: ""}
)

// IsPrimitive reports whether v is nil, a sentinel, a boolean, a number
// (including *big.Int) or a string. Types defined on those kinds count.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case nil, *Sentinel, *big.Int:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	}
	return false
}

// IsNil reports whether v is nil or a nil pointer, map, func, chan or
// interface. Parts treat such values as Nothing.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// IsTemplateResult reports whether v is a template result.
func IsTemplateResult(v any) bool {
	r, ok := v.(*template.Result)
	return ok && r != nil
}

// IsIterable reports whether v is a slice, an array or an iter.Seq[any].
// Strings and byte slices are not iterable.
func IsIterable(v any) bool {
	switch v.(type) {
	case nil, string, []byte:
		return false
	case iter.Seq[any], func(func(any) bool):
		return true
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// Iterator walks the items of an iterable value.
type Iterator interface {
	// Next returns the next item, or false once the iterable is exhausted.
	Next() (any, bool)
	// Stop releases the iterator. It is safe to call more than once.
	Stop()
}

// Iterate returns an Iterator over v, or false when v is not iterable.
func Iterate(v any) (Iterator, bool) {
	if !IsIterable(v) {
		return nil, false
	}
	switch s := v.(type) {
	case []any:
		return &listIter{items: s}, true
	case iter.Seq[any]:
		next, stop := iter.Pull(s)
		return &pullIter{next: next, stop: stop}, true
	case func(func(any) bool):
		next, stop := iter.Pull(iter.Seq[any](s))
		return &pullIter{next: next, stop: stop}, true
	}
	return &reflectIter{v: reflect.ValueOf(v)}, true
}

type listIter struct {
	items []any
	i     int
}

func (it *listIter) Next() (any, bool) {
	if it.i >= len(it.items) {
		return nil, false
	}
	v := it.items[it.i]
	it.i++
	return v, true
}

func (it *listIter) Stop() {}

type reflectIter struct {
	v reflect.Value
	i int
}

func (it *reflectIter) Next() (any, bool) {
	if it.i >= it.v.Len() {
		return nil, false
	}
	v := it.v.Index(it.i).Interface()
	it.i++
	return v, true
}

func (it *reflectIter) Stop() {}

type pullIter struct {
	next func() (any, bool)
	stop func()
}

func (it *pullIter) Next() (any, bool) { return it.next() }
func (it *pullIter) Stop()             { it.stop() }

// Same reports whether two committed values are equal for dirty checking.
// Only primitives compare by value; anything else is never the same.
func Same(a, b any) bool {
	if !IsPrimitive(a) || !IsPrimitive(b) {
		return false
	}
	if x, ok := a.(*big.Int); ok {
		y, ok := b.(*big.Int)
		return ok && (x == y || x != nil && y != nil && x.Cmp(y) == 0)
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return a == b
}

// Truthy reports whether v counts as true for a boolean attribute.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case *Sentinel:
		return x != Nothing && x != unset
	case *big.Int:
		return x != nil && x.Sign() != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	}
	return true
}

// Stringify formats a value as text content or attribute text.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil, *Sentinel:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case *big.Int:
		if x == nil {
			return ""
		}
		return x.String()
	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ""
		}
		return x.String()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return ""
		}
	}
	return fmt.Sprint(v)
}
