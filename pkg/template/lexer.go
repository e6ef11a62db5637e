package template

import (
	"strconv"
	"strings"

	"github.com/vango-dev/hydrate/internal/errors"
)

// Placeholders written into prepared markup. Each carries the index it
// stands for so moved bindings can be detected after parsing.
const (
	childPlaceholder   = "vg$c$"
	attrPlaceholder    = "vg$a$"
	elementPlaceholder = "vg$e$"
)

type lexState uint8

const (
	stText lexState = iota
	stTagOpen
	stTagName
	stTag
	stAttrName
	stAfterAttrName
	stBeforeValue
	stValueQuoted
	stValueUnquoted
	stComment
	stBogus
	stRawText
	stEndTag
)

// rawText holds elements whose content is not markup.
var rawText = map[string]bool{
	"script":    true,
	"style":     true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
}

// attrInfo describes a bound attribute found by the lexer.
type attrInfo struct {
	name    string
	ctor    AttrCtor
	strings []string
	first   int
}

type pendingAttr struct {
	start   int
	name    []byte
	bound   bool
	first   int
	strings []string
	seg     []byte
}

type lexer struct {
	out   []byte
	state lexState
	tag   []byte
	raw   string
	quote byte
	attr  *pendingAttr
	attrs []attrInfo
	expr  int
}

// prepare joins the static strings into parseable markup, replacing each
// expression with a placeholder for its position.
func prepare(strs []string) (string, []attrInfo, error) {
	lx := &lexer{}
	for i, s := range strs {
		if err := lx.feed(s); err != nil {
			return "", nil, err
		}
		if i < len(strs)-1 {
			if err := lx.expression(); err != nil {
				return "", nil, err
			}
		}
	}
	if lx.attr != nil {
		if err := lx.finishAttr(); err != nil {
			return "", nil, err
		}
	}
	return string(lx.out), lx.attrs, nil
}

func (lx *lexer) emit(s string) { lx.out = append(lx.out, s...) }

func (lx *lexer) feed(s string) error {
	for i := 0; i < len(s); {
		c := s[i]
		switch lx.state {
		case stText:
			lx.out = append(lx.out, c)
			if c == '<' {
				lx.state = stTagOpen
			}
			i++

		case stTagOpen:
			switch {
			case strings.HasPrefix(s[i:], "!--"):
				lx.emit("!--")
				i += 3
				lx.state = stComment
			case c == '!' || c == '?':
				lx.out = append(lx.out, c)
				i++
				lx.state = stBogus
			case c == '/':
				lx.out = append(lx.out, c)
				i++
				lx.state = stEndTag
			case isLetter(c):
				lx.tag = lx.tag[:0]
				lx.state = stTagName
			default:
				lx.state = stText
			}

		case stTagName:
			switch {
			case isSpace(c) || c == '/':
				lx.out = append(lx.out, c)
				lx.state = stTag
			case c == '>':
				lx.closeTag()
			default:
				lx.out = append(lx.out, c)
				lx.tag = append(lx.tag, toLower(c))
			}
			i++

		case stTag:
			switch {
			case isSpace(c) || c == '/':
				lx.out = append(lx.out, c)
				i++
			case c == '>':
				lx.closeTag()
				i++
			default:
				lx.attr = &pendingAttr{start: len(lx.out)}
				lx.state = stAttrName
			}

		case stAttrName:
			switch {
			case isSpace(c):
				lx.out = append(lx.out, c)
				lx.state = stAfterAttrName
				i++
			case c == '=':
				lx.out = append(lx.out, c)
				lx.state = stBeforeValue
				i++
			case c == '>' || c == '/':
				if err := lx.finishAttr(); err != nil {
					return err
				}
			default:
				lx.out = append(lx.out, c)
				lx.attr.name = append(lx.attr.name, c)
				i++
			}

		case stAfterAttrName:
			switch {
			case isSpace(c):
				lx.out = append(lx.out, c)
				i++
			case c == '=':
				lx.out = append(lx.out, c)
				lx.state = stBeforeValue
				i++
			default:
				if err := lx.finishAttr(); err != nil {
					return err
				}
			}

		case stBeforeValue:
			switch {
			case isSpace(c):
				lx.out = append(lx.out, c)
				i++
			case c == '"' || c == '\'':
				lx.out = append(lx.out, c)
				lx.quote = c
				lx.state = stValueQuoted
				i++
			case c == '>':
				if err := lx.finishAttr(); err != nil {
					return err
				}
			default:
				lx.state = stValueUnquoted
			}

		case stValueQuoted:
			lx.out = append(lx.out, c)
			i++
			if c == lx.quote {
				if err := lx.finishAttr(); err != nil {
					return err
				}
				continue
			}
			lx.attr.seg = append(lx.attr.seg, c)

		case stValueUnquoted:
			if isSpace(c) || c == '>' {
				if err := lx.finishAttr(); err != nil {
					return err
				}
				continue
			}
			lx.out = append(lx.out, c)
			lx.attr.seg = append(lx.attr.seg, c)
			i++

		case stComment:
			end := strings.Index(s[i:], "-->")
			if end < 0 {
				lx.emit(s[i:])
				i = len(s)
				continue
			}
			lx.emit(s[i : i+end+3])
			i += end + 3
			lx.state = stText

		case stBogus:
			lx.out = append(lx.out, c)
			i++
			if c == '>' {
				lx.state = stText
			}

		case stRawText:
			end := indexFold(s[i:], "</"+lx.raw)
			if end < 0 {
				lx.emit(s[i:])
				i = len(s)
				continue
			}
			lx.emit(s[i : i+end+2])
			i += end + 2
			lx.state = stEndTag

		case stEndTag:
			lx.out = append(lx.out, c)
			i++
			if c == '>' {
				lx.state = stText
			}
		}
	}
	return nil
}

func (lx *lexer) closeTag() {
	lx.out = append(lx.out, '>')
	if name := string(lx.tag); rawText[name] {
		lx.raw = name
		lx.state = stRawText
		return
	}
	lx.state = stText
}

// finishAttr ends the current attribute and returns to the tag state. A
// bound attribute is replaced in the output by its placeholder.
func (lx *lexer) finishAttr() error {
	a := lx.attr
	lx.attr = nil
	lx.state = stTag
	if a == nil || !a.bound {
		return nil
	}
	a.strings = append(a.strings, string(a.seg))

	name := string(a.name)
	ctor := AttrPlain
	if name != "" {
		switch name[0] {
		case '.':
			ctor, name = AttrProperty, name[1:]
		case '?':
			ctor, name = AttrBoolean, name[1:]
		case '@':
			ctor, name = AttrEvent, name[1:]
		}
	}
	if name == "" {
		return errors.New("E040").WithDetailf("binding %d has no attribute name", a.first)
	}
	if ctor == AttrEvent && (len(a.strings) != 2 || a.strings[0] != "" || a.strings[1] != "") {
		return errors.New("E040").
			WithDetailf("event binding @%s must be a single expression", name).
			WithSuggestion("Bind the handler alone, as @" + name + "=${handler}")
	}

	lx.out = lx.out[:a.start]
	lx.emit(attrPlaceholder + strconv.Itoa(len(lx.attrs)) + `=""`)
	lx.attrs = append(lx.attrs, attrInfo{name: name, ctor: ctor, strings: a.strings, first: a.first})
	return nil
}

// expression handles the boundary between two static strings.
func (lx *lexer) expression() error {
	k := lx.expr
	lx.expr++

	switch lx.state {
	case stText:
		lx.emit("<!--" + childPlaceholder + strconv.Itoa(k) + "-->")
	case stAfterAttrName:
		if err := lx.finishAttr(); err != nil {
			return err
		}
		fallthrough
	case stTag:
		lx.emit(" " + elementPlaceholder + strconv.Itoa(k))
	case stBeforeValue:
		lx.attr.bound = true
		lx.attr.first = k
		lx.attr.strings = append(lx.attr.strings, "")
		lx.state = stValueUnquoted
	case stValueQuoted, stValueUnquoted:
		if !lx.attr.bound {
			lx.attr.bound = true
			lx.attr.first = k
		}
		lx.attr.strings = append(lx.attr.strings, string(lx.attr.seg))
		lx.attr.seg = lx.attr.seg[:0]
	case stTagOpen, stTagName:
		return positionError(k, "a tag name")
	case stAttrName:
		return positionError(k, "an attribute name")
	case stComment, stBogus:
		return positionError(k, "a comment")
	case stRawText:
		return positionError(k, "<"+lx.raw+"> content")
	case stEndTag:
		return positionError(k, "an end tag")
	}
	return nil
}

func positionError(k int, where string) error {
	return errors.New("E040").WithDetailf("binding %d is inside %s", k, where)
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// indexFold is strings.Index ignoring ASCII case.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
