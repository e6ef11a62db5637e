package template

import (
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/hydrate/internal/errors"
)

// Catalog memoizes templates by static shape.
// It is safe for concurrent use.
type Catalog struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// DefaultCatalog is the catalog used when none is configured.
var DefaultCatalog = NewCatalog()

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{templates: make(map[string]*Template)}
}

// Get returns the template for r's static strings, parsing it on first use.
// It fails when r carries the wrong number of values.
func (c *Catalog) Get(r *Result) (*Template, error) {
	if r == nil {
		return nil, errors.New("E042").WithDetail("nil template result")
	}
	t, err := c.Lookup(r.Strings)
	if err != nil {
		return nil, err
	}
	if len(r.Values) != t.ValueCount() {
		return nil, errors.New("E042").
			WithDetailf("template %s expects %d values, got %d", t.Digest, t.ValueCount(), len(r.Values))
	}
	return t, nil
}

// Lookup returns the template for a static shape, parsing it on first use.
func (c *Catalog) Lookup(strs []string) (*Template, error) {
	key := shapeKey(strs)

	c.mu.RLock()
	t := c.templates[key]
	c.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	t, err := Parse(strs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing := c.templates[key]; existing != nil {
		return existing, nil
	}
	c.templates[key] = t
	return t, nil
}

// Len returns the number of memoized templates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// shapeKey builds an unambiguous key from static strings.
func shapeKey(strs []string) string {
	var sb strings.Builder
	for _, s := range strs {
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteByte(':')
		sb.WriteString(s)
	}
	return sb.String()
}
