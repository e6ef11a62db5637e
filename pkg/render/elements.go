package render

// voidElements are elements that cannot have children and have no closing tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"keygen": true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// isRawTextElement returns true if the tag's text content is not escaped.
func isRawTextElement(tag string) bool {
	return rawTextElements[tag]
}

// annotatedAfter reports whether the node annotation of an element goes
// after it rather than inside it. Void elements cannot hold it and a
// comment inside text-only elements would not parse as a comment.
func annotatedAfter(tag string) bool {
	return voidElements[tag] || rawTextElements[tag] || tag == "textarea" || tag == "title"
}
