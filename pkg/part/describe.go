package part

// Frame names the structural role of a child part's committed value.
type Frame string

const (
	FrameLeaf     Frame = "leaf"
	FrameIterable Frame = "iterable"
	FrameTemplate Frame = "template-instance"
)

// Shape is the structure of a part tree, without values.
type Shape struct {
	Frame      Frame    `json:"frame" yaml:"frame"`
	Digest     string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	Attributes []Kind   `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []*Shape `json:"children,omitempty" yaml:"children,omitempty"`
}

// FrameOf returns the frame of a child part's committed value.
func FrameOf(c *ChildPart) Frame {
	switch c.committed.(type) {
	case *TemplateInstance:
		return FrameTemplate
	case []*ChildPart:
		return FrameIterable
	default:
		return FrameLeaf
	}
}

// Describe returns the shape of the part tree rooted at c.
func Describe(c *ChildPart) *Shape {
	root := &Shape{}
	type item struct {
		part  *ChildPart
		shape *Shape
	}
	stack := []item{{c, root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		s := it.shape
		s.Frame = FrameOf(it.part)
		var children []*ChildPart
		switch v := it.part.committed.(type) {
		case *TemplateInstance:
			s.Digest = v.Template.Digest
			for _, p := range v.parts {
				if cp, ok := p.(*ChildPart); ok {
					children = append(children, cp)
				} else {
					s.Attributes = append(s.Attributes, p.Kind())
				}
			}
		case []*ChildPart:
			children = v
		}
		for _, cp := range children {
			cs := &Shape{}
			s.Children = append(s.Children, cs)
			stack = append(stack, item{cp, cs})
		}
	}
	return root
}

// Count returns the number of child parts in the shape, itself included.
func (s *Shape) Count() int {
	n := 1
	for _, c := range s.Children {
		n += c.Count()
	}
	return n
}
