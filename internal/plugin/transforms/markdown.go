package transforms

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

// newMarkdown builds the goldmark converter. Raw HTML is passed through so
// posts can embed inline SVG and custom markup.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
}

// Markdown parses the content as Markdown and replaces it with rendered HTML.
// A .md or .markdown extension becomes .html.
func Markdown() plugin.Plugin {
	md := newMarkdown()
	return plugin.TextFunc("markdown", func(pc plugin.Context) (document.Document, error) {
		var buf bytes.Buffer
		if err := md.Convert([]byte(pc.File.Content.String()), &buf); err != nil {
			return pc.File, fmt.Errorf("render markdown: %w", err)
		}
		return pc.File.WithText(buf.String()).WithPath(HTMLPath(pc.File.Path)), nil
	})
}

// HTMLPath swaps a Markdown extension for .html.
func HTMLPath(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return strings.TrimSuffix(p, path.Ext(p)) + ".html"
	default:
		return p
	}
}
