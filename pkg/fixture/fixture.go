// Package fixture loads YAML descriptions of template result graphs.
//
// A fixture names its templates by their static strings and builds one
// root value from them:
//
//	name: card
//	templates:
//	  card: ["<div class=\"", "\">", "</div>"]
//	root:
//	  template: card
//	  values: ["big", {list: [1, 2, 3]}]
//
// A value is a scalar, a sequence, or a mapping with exactly one of:
//   - template (with values): a template result
//   - list: an iterable
//   - nothing: true for the Nothing sentinel
//   - handler: a named event handler that counts its calls
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/part"
	"github.com/vango-dev/hydrate/pkg/template"
)

// File is a decoded fixture.
type File struct {
	// Name identifies the fixture. Load defaults it to the file name.
	Name string `yaml:"name,omitempty"`

	// Description says what the fixture exercises.
	Description string `yaml:"description,omitempty"`

	// Templates maps template names to their static strings.
	Templates map[string][]string `yaml:"templates"`

	// Graph is the undecoded root value. Root builds it.
	Graph Value `yaml:"root"`

	// Markup is optional server output to hydrate instead of rendering
	// the root value.
	Markup string `yaml:"markup,omitempty"`

	mu       sync.Mutex
	handlers map[string]*Handler
}

// Value is an undecoded fixture value.
type Value struct {
	node *yaml.Node
}

// UnmarshalYAML keeps the node for later conversion.
func (v *Value) UnmarshalYAML(n *yaml.Node) error {
	v.node = n
	return nil
}

// IsZero reports whether the value was absent.
func (v Value) IsZero() bool { return v.node == nil }

// Handler is an event handler that counts its calls.
type Handler struct {
	Name  string
	Calls int
}

// HandleEvent implements dom.Handler.
func (h *Handler) HandleEvent(*dom.Event) {
	h.Calls++
}

// form is the mapping shape of a non-scalar value.
type form struct {
	Template string      `yaml:"template"`
	Values   []yaml.Node `yaml:"values"`
	List     []yaml.Node `yaml:"list"`
	Nothing  bool        `yaml:"nothing"`
	Handler  string      `yaml:"handler"`
}

// Load reads and parses the fixture at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E060").WithDetailf("read %s", path).Wrap(err)
	}
	return parseNamed(data, path)
}

// parseNamed parses data and defaults the fixture name to the base of path.
func parseNamed(data []byte, path string) (*File, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if f.Name == "" {
		f.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// isFixture reports whether name has a fixture extension.
func isFixture(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}

// LoadDir loads every .yaml and .yml fixture in dir, keyed by name.
func LoadDir(dir string) (map[string]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New("E060").WithDetailf("read directory %s", dir).Wrap(err)
	}
	files := make(map[string]*File)
	for _, e := range entries {
		if e.IsDir() || !isFixture(e.Name()) {
			continue
		}
		f, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, dup := files[f.Name]; dup {
			return nil, errors.New("E060").WithDetailf("fixture %q defined twice in %s", f.Name, dir)
		}
		files[f.Name] = f
	}
	return files, nil
}

// Parse decodes a fixture. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.New("E060").Wrap(err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Graph.IsZero() {
		return errors.New("E060").WithDetail("root is required")
	}
	for name, strs := range f.Templates {
		if len(strs) == 0 {
			return errors.New("E060").WithDetailf("template %q has no strings", name)
		}
	}
	return nil
}

// TemplateNames returns the template names in sorted order.
func (f *File) TemplateNames() []string {
	names := make([]string, 0, len(f.Templates))
	for name := range f.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strings returns the static strings of a named template.
func (f *File) Strings(name string) ([]string, error) {
	strs, ok := f.Templates[name]
	if !ok {
		return nil, errors.New("E061").WithDetailf("template %q", name)
	}
	return strs, nil
}

// Result builds a result of a named template with the given values.
func (f *File) Result(name string, values ...any) (*template.Result, error) {
	strs, err := f.Strings(name)
	if err != nil {
		return nil, err
	}
	return template.New(strs, values...), nil
}

// Root builds the root value. Each call builds a fresh graph; handlers are
// shared between calls so their counts accumulate.
func (f *File) Root() (any, error) {
	return f.convert(f.Graph.node, "root")
}

// Handler returns the named handler, creating it on first use.
func (f *File) Handler(name string) *Handler {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers == nil {
		f.handlers = make(map[string]*Handler)
	}
	h, ok := f.handlers[name]
	if !ok {
		h = &Handler{Name: name}
		f.handlers[name] = h
	}
	return h
}

func (f *File) convert(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return f.convert(n.Alias, path)

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, errors.New("E060").WithDetailf("%s (line %d)", path, n.Line).Wrap(err)
		}
		return v, nil

	case yaml.SequenceNode:
		return f.list(n.Content, path)

	case yaml.MappingNode:
		kind, err := formOf(n)
		if err != nil {
			return nil, errors.New("E060").WithDetailf("%s (line %d): %v", path, n.Line, err)
		}
		var m form
		if err := n.Decode(&m); err != nil {
			return nil, errors.New("E060").WithDetailf("%s (line %d)", path, n.Line).Wrap(err)
		}
		switch kind {
		case "template":
			strs, ok := f.Templates[m.Template]
			if !ok {
				return nil, errors.New("E061").WithDetailf("template %q at %s (line %d)", m.Template, path, n.Line)
			}
			values := make([]any, len(m.Values))
			for i := range m.Values {
				v, err := f.convert(&m.Values[i], path+"."+m.Template+"["+strconv.Itoa(i)+"]")
				if err != nil {
					return nil, err
				}
				values[i] = v
			}
			return template.New(strs, values...), nil
		case "list":
			nodes := make([]*yaml.Node, len(m.List))
			for i := range m.List {
				nodes[i] = &m.List[i]
			}
			return f.list(nodes, path)
		case "handler":
			return f.Handler(m.Handler), nil
		default:
			return part.Nothing, nil
		}
	}
	return nil, errors.New("E060").WithDetailf("%s (line %d): unsupported value", path, n.Line)
}

func (f *File) list(nodes []*yaml.Node, path string) ([]any, error) {
	items := make([]any, len(nodes))
	for i, c := range nodes {
		v, err := f.convert(c, path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

// formOf returns the single value form a mapping uses. values belongs to
// the template form.
func formOf(n *yaml.Node) (string, error) {
	kind := ""
	hasValues := false
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		switch key {
		case "values":
			hasValues = true
			continue
		case "template", "list", "handler":
		case "nothing":
			var on bool
			if err := n.Content[i+1].Decode(&on); err != nil || !on {
				return "", fmt.Errorf("nothing must be true")
			}
		default:
			return "", fmt.Errorf("unknown field %q", key)
		}
		if kind != "" {
			return "", fmt.Errorf("%s and %s are exclusive", kind, key)
		}
		kind = key
	}
	if kind == "" {
		return "", fmt.Errorf("one of template, list, nothing or handler is required")
	}
	if hasValues && kind != "template" {
		return "", fmt.Errorf("values only applies to template")
	}
	return kind, nil
}
