package render

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\u00a0", "&nbsp;",
	)

	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"<", "&lt;",
		">", "&gt;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
		"\u00a0", "&nbsp;",
	)

	// Comment data must not close the comment early.
	commentEscaper = strings.NewReplacer("-->", "--&gt;")
)

// escapeHTML escapes text for inclusion in element content.
func escapeHTML(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes text for inclusion in a double quoted attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// escapeComment makes s safe as comment data.
func escapeComment(s string) string {
	return commentEscaper.Replace(s)
}
