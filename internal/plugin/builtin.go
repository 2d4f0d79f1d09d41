package plugin

import (
	"fmt"
	"strings"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
)

// MarkRaw declares the current content binary. No text plugin may follow it
// in the same chain. Use transforms.Raw to load and mark in one step.
func MarkRaw() Plugin {
	return Func("markRaw", func(pc Context) (document.Document, error) {
		if pc.File.Content.IsRaw() {
			return pc.File, nil
		}
		return pc.File.WithRaw(pc.File.Content.Bytes()), nil
	})
}

// Index rewrites name.html to name/index.html so permalinks can omit the
// filename. Content is unchanged; index.html files stay where they are.
func Index() Plugin {
	return Func("index", func(pc Context) (document.Document, error) {
		return pc.File.WithPath(IndexPath(pc.File.Path)), nil
	})
}

// IndexPath applies the pretty-URL rewrite to a path.
func IndexPath(p string) string {
	if !strings.HasSuffix(p, ".html") {
		return p
	}
	if p == "index.html" || strings.HasSuffix(p, "/index.html") {
		return p
	}
	return strings.TrimSuffix(p, ".html") + "/index.html"
}

// Normalise strips a trailing index.html so links point at the directory.
func Normalise(link string) string {
	return strings.TrimSuffix(link, "index.html")
}

// Title sets meta.title, replacing any earlier value. This is the documented
// exception to additive metadata.
func Title(title string) Plugin {
	return Func(fmt.Sprintf("title(%q)", title), func(pc Context) (document.Document, error) {
		return pc.File.OverrideMeta("title", title), nil
	})
}

// TemplateFunc produces new content from the configuration and the current document.
type TemplateFunc func(pc Context) (string, error)

// Render replaces the content with fn's output. name identifies the template
// in the memoization key and must be unique per template behavior.
func Render(name string, fn TemplateFunc) Plugin {
	return TextFunc("render("+name+")", func(pc Context) (document.Document, error) {
		out, err := fn(pc)
		if err != nil {
			return pc.File, err
		}
		return pc.File.WithText(out), nil
	})
}

// Meta adds a metadata field that must not already exist.
func Meta(key string, value any) Plugin {
	return Func(fmt.Sprintf("meta(%s=%v)", key, value), func(pc Context) (document.Document, error) {
		return pc.File.WithMeta(key, value)
	})
}
