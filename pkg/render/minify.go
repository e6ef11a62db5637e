package render

import (
	"io"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns the HTML minifier. Comments carry the part markers,
// so they are always kept, as are end tags and attribute quotes that would
// change how the markup parses next to a marker.
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.Add("text/html", &html.Minifier{
			KeepComments:        true,
			KeepDefaultAttrVals: true,
			KeepDocumentTags:    true,
			KeepEndTags:         true,
			KeepQuotes:          true,
		})
	})
	return minifier
}

func minifyTo(w io.Writer, r io.Reader) error {
	return getMinifier().Minify("text/html", w, r)
}
