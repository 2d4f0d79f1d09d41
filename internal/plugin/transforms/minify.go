package transforms

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

const (
	mediaHTML = "text/html"
	mediaCSS  = "text/css"
)

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mediaCSS, css.Minify)
	m.Add(mediaHTML, &html.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	return m
}

// MinifyHTML reduces HTML size without changing its semantics. Inline
// stylesheets are minified as CSS.
func MinifyHTML() plugin.Plugin {
	return minifyPlugin("minifyHtml", mediaHTML)
}

// MinifyCSS reduces stylesheet size.
func MinifyCSS() plugin.Plugin {
	return minifyPlugin("minifyCss", mediaCSS)
}

func minifyPlugin(name, mediaType string) plugin.Plugin {
	m := newMinifier()
	return plugin.TextFunc(name, func(pc plugin.Context) (document.Document, error) {
		out, err := m.String(mediaType, pc.File.Content.String())
		if err != nil {
			return pc.File, fmt.Errorf("minify %s: %w", mediaType, err)
		}
		return pc.File.WithText(out), nil
	})
}
