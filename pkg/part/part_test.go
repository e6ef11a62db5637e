package part

import (
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/hydrate/internal/errors"
	"github.com/vango-dev/hydrate/pkg/dom"
	"github.com/vango-dev/hydrate/pkg/template"
)

type fixture struct {
	doc       *dom.Document
	container *html.Node
	root      *ChildPart
	rec       *dom.Recorder
}

func render(t *testing.T, v any) *fixture {
	t.Helper()
	doc := dom.NewDocument()
	c := dom.Container("div")
	start := &html.Node{Type: html.CommentNode}
	end := &html.Node{Type: html.CommentNode}
	c.AppendChild(start)
	c.AppendChild(end)
	root := NewChild(start, end, c, &Options{Document: doc, Catalog: template.NewCatalog()})
	if err := root.SetValue(v); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	return &fixture{doc: doc, container: c, root: root, rec: dom.Record(doc)}
}

func (f *fixture) update(t *testing.T, v any) {
	t.Helper()
	f.rec.Reset()
	if err := f.root.SetValue(v); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
}

func (f *fixture) html() string {
	return strings.ReplaceAll(dom.InnerHTML(f.container), "<!---->", "")
}

func TestChildText(t *testing.T) {
	f := render(t, template.HTML("<p>", "hi", "</p>"))
	if got := dom.InnerHTML(f.container); got != "<!----><p><!---->hi<!----></p><!---->" {
		t.Errorf("markup = %q", got)
	}

	f.update(t, template.HTML("<p>", "hi", "</p>"))
	if f.rec.Count() != 0 {
		t.Errorf("same value wrote %v", f.rec.Mutations)
	}

	f.update(t, template.HTML("<p>", "bye", "</p>"))
	if f.rec.Count() != 1 || f.rec.Count(dom.TextChanged) != 1 {
		t.Errorf("text update wrote %v, want one TextChanged", f.rec.Mutations)
	}
	if got := f.html(); got != "<p>bye</p>" {
		t.Errorf("markup = %q", got)
	}
}

func TestChildClear(t *testing.T) {
	for _, v := range []any{nil, "", Nothing} {
		f := render(t, template.HTML("<p>", "x", "</p>"))
		f.update(t, template.HTML("<p>", v, "</p>"))
		if got := f.html(); got != "<p></p>" {
			t.Errorf("clear with %v: markup = %q", v, got)
		}
		if f.root.Instance().Parts()[0].(*ChildPart).Value() != Nothing {
			t.Errorf("clear with %v: committed value is not Nothing", v)
		}
	}
}

func TestChildNoChange(t *testing.T) {
	f := render(t, template.HTML("<p>", "x", "</p>"))
	f.update(t, template.HTML("<p>", Keep(), "</p>"))
	if f.rec.Count() != 0 || f.html() != "<p>x</p>" {
		t.Errorf("Keep changed the DOM: %v", f.rec.Mutations)
	}
}

func TestChildNestedTemplateSwap(t *testing.T) {
	f := render(t, template.HTML("<div>", template.HTML("<b>", 1, "</b>"), "</div>"))
	if got := f.html(); got != "<div><b>1</b></div>" {
		t.Fatalf("markup = %q", got)
	}
	inner := f.root.Instance().Parts()[0].(*ChildPart)
	first := inner.Instance()

	f.update(t, template.HTML("<div>", template.HTML("<b>", 2, "</b>"), "</div>"))
	if inner.Instance() != first {
		t.Error("same template was re-instantiated")
	}

	f.update(t, template.HTML("<div>", template.HTML("<i>", 2, "</i>"), "</div>"))
	if inner.Instance() == first {
		t.Error("different template reused the instance")
	}
	if got := f.html(); got != "<div><i>2</i></div>" {
		t.Errorf("markup = %q", got)
	}
}

func TestChildNode(t *testing.T) {
	n := &html.Node{Type: html.ElementNode, Data: "em"}
	f := render(t, template.HTML("<p>", n, "</p>"))
	if got := f.html(); got != "<p><em></em></p>" {
		t.Errorf("markup = %q", got)
	}
	f.update(t, template.HTML("<p>", n, "</p>"))
	if f.rec.Count() != 0 {
		t.Errorf("same node wrote %v", f.rec.Mutations)
	}
}

func TestChildFallback(t *testing.T) {
	f := render(t, template.HTML("<p>", point{1, 2}, "</p>"))
	if got := f.html(); got != "<p>{1 2}</p>" {
		t.Errorf("markup = %q", got)
	}
	f.update(t, template.HTML("<p>", point{1, 2}, "</p>"))
	if f.rec.Count(dom.NodeInserted, dom.NodeRemoved) != 0 {
		t.Errorf("fallback re-render replaced nodes: %v", f.rec.Mutations)
	}
}

func TestChildIterable(t *testing.T) {
	f := render(t, template.HTML("<ul>", []string{"a", "b", "c"}, "</ul>"))
	list := f.root.Instance().Parts()[0].(*ChildPart)
	if got := f.html(); got != "<ul>abc</ul>" {
		t.Errorf("markup = %q", got)
	}
	if len(list.Items()) != 3 {
		t.Fatalf("items = %d, want 3", len(list.Items()))
	}

	f.update(t, template.HTML("<ul>", []string{"a", "x"}, "</ul>"))
	if got := f.html(); got != "<ul>ax</ul>" {
		t.Errorf("markup after shrink = %q", got)
	}
	if len(list.Items()) != 2 {
		t.Errorf("items after shrink = %d, want 2", len(list.Items()))
	}

	f.update(t, template.HTML("<ul>", []any{
		template.HTML("<li>", 1, "</li>"),
		template.HTML("<li>", 2, "</li>"),
		template.HTML("<li>", 3, "</li>"),
	}, "</ul>"))
	if got := f.html(); got != "<ul><li>1</li><li>2</li><li>3</li></ul>" {
		t.Errorf("markup after grow = %q", got)
	}

	f.update(t, template.HTML("<ul>", []any{}, "</ul>"))
	if got := f.html(); got != "<ul></ul>" {
		t.Errorf("markup after empty = %q", got)
	}
}

func TestAttributes(t *testing.T) {
	tmpl := func(class any, hidden any) *template.Result {
		return template.HTML(`<p class=`, class, ` ?hidden=`, hidden, `>x</p>`)
	}
	f := render(t, tmpl("a", true))
	if got := f.html(); got != `<p class="a" hidden="">x</p>` {
		t.Errorf("markup = %q", got)
	}

	f.update(t, tmpl("a", true))
	if f.rec.Count() != 0 {
		t.Errorf("same values wrote %v", f.rec.Mutations)
	}

	f.update(t, tmpl("b", false))
	if f.rec.Count(dom.AttrSet) != 1 || f.rec.Count(dom.AttrRemoved) != 1 {
		t.Errorf("update wrote %v", f.rec.Mutations)
	}
	if got := f.html(); got != `<p class="b">x</p>` {
		t.Errorf("markup = %q", got)
	}

	f.update(t, tmpl(IfDefined(nil), false))
	if got := f.html(); got != `<p>x</p>` {
		t.Errorf("markup = %q", got)
	}
}

func TestInterpolatedAttribute(t *testing.T) {
	tmpl := func(a, b any) *template.Result {
		return template.HTML(`<p class="x `, a, ` y `, b, `"></p>`)
	}
	f := render(t, tmpl("1", 2))
	if got := f.html(); got != `<p class="x 1 y 2"></p>` {
		t.Errorf("markup = %q", got)
	}

	f.update(t, tmpl(NoChange, 3))
	if got := f.html(); got != `<p class="x 1 y 3"></p>` {
		t.Errorf("markup = %q", got)
	}

	f.update(t, tmpl("1", 3))
	if f.rec.Count() != 0 {
		t.Errorf("same values wrote %v", f.rec.Mutations)
	}

	f.update(t, tmpl("1", Nothing))
	if got := f.html(); got != `<p></p>` {
		t.Errorf("markup = %q", got)
	}

	attr := f.root.Instance().Parts()[0].(*AttributePart)
	if !reflect.DeepEqual(attr.Value(), []any{"1", Nothing}) {
		t.Errorf("Value = %v", attr.Value())
	}
}

func TestPropertyAndEvent(t *testing.T) {
	var calls []string
	first := func(*dom.Event) { calls = append(calls, "first") }
	second := dom.HandlerFunc(func(*dom.Event) { calls = append(calls, "second") })
	tmpl := func(v, h any) *template.Result {
		return template.HTML(`<input .value=`, v, ` @input=`, h, `>`)
	}

	f := render(t, tmpl(5, first))
	input := dom.First(f.container, "input")
	if v, _ := f.doc.Property(input, "value"); v != 5 {
		t.Errorf("value property = %v, want 5", v)
	}
	if len(input.Attr) != 0 {
		t.Errorf("property binding wrote attributes %v", input.Attr)
	}
	f.doc.Dispatch(input, &dom.Event{Type: "input"})

	f.update(t, tmpl(5, second))
	if f.rec.Count() != 0 {
		t.Errorf("handler swap wrote %v", f.rec.Mutations)
	}
	f.doc.Dispatch(input, &dom.Event{Type: "input"})
	if !reflect.DeepEqual(calls, []string{"first", "second"}) {
		t.Errorf("calls = %v", calls)
	}

	f.update(t, tmpl(Nothing, nil))
	if f.rec.Count(dom.ListenerRemoved) != 1 || f.rec.Count(dom.PropertySet) != 1 {
		t.Errorf("clear wrote %v", f.rec.Mutations)
	}
	if v, ok := f.doc.Property(input, "value"); !ok || v != nil {
		t.Errorf("value property = %v, %v, want nil", v, ok)
	}
}

func TestElementPartRef(t *testing.T) {
	var ref ElementRef
	f := render(t, template.HTML(`<div `, Ref(&ref), `></div>`))
	if ref.Element == nil || ref.Element != dom.First(f.container, "div") {
		t.Errorf("ref.Element = %v, want the div", ref.Element)
	}
	if got := f.html(); got != "<div></div>" {
		t.Errorf("markup = %q", got)
	}
}

func TestInstanceUpdateCount(t *testing.T) {
	tmpl := template.MustParse("<p>", "</p>")
	inst := NewInstance(tmpl, nil, &Options{})
	inst.Clone()
	err := inst.Update(nil)
	if code := errors.CodeOf(err); code != "E042" {
		t.Errorf("code = %q, want E042", code)
	}
}

func TestCloneCreatesParts(t *testing.T) {
	tmpl := template.MustParse(`<a href=`, `><b `, `></b>`, `</a>`)
	inst := NewInstance(tmpl, nil, &Options{})
	frag := inst.Clone()
	if frag.Parent != nil {
		t.Error("clone is attached")
	}
	var kinds []Kind
	for _, p := range inst.Parts() {
		kinds = append(kinds, p.Kind())
	}
	want := []Kind{KindAttribute, KindElement, KindChild}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	if tmpl.Content.FirstChild.Attr != nil && len(tmpl.Content.FirstChild.Attr) != 0 {
		t.Errorf("template content changed")
	}
}

func TestDescribe(t *testing.T) {
	f := render(t, template.HTML(`<ul class=`, "c", `>`, []any{
		template.HTML("<li>", "a", "</li>"),
		"b",
	}, `</ul>`))
	got := Describe(f.root)
	tmpl := f.root.Instance().Template
	item := f.root.Instance().Parts()[1].(*ChildPart).Items()[0].Instance().Template
	want := &Shape{
		Frame:      FrameTemplate,
		Digest:     tmpl.Digest,
		Attributes: []Kind{KindAttribute},
		Children: []*Shape{{
			Frame: FrameIterable,
			Children: []*Shape{
				{Frame: FrameTemplate, Digest: item.Digest, Children: []*Shape{{Frame: FrameLeaf}}},
				{Frame: FrameLeaf},
			},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Describe = %+v, want %+v", got, want)
	}
	if got.Count() != 5 {
		t.Errorf("Count = %d, want 5", got.Count())
	}
}
