package transforms

import (
	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

// Reader loads sources relative to the configured source root.
type Reader interface {
	ReadFile(path string) ([]byte, error)
	ReadText(path string) (string, error)
}

// Read loads the document's path from the source root as UTF-8 text.
func Read(r Reader) plugin.Plugin {
	return plugin.TextFunc("read", func(pc plugin.Context) (document.Document, error) {
		text, err := r.ReadText(pc.File.Path)
		if err != nil {
			return pc.File, err
		}
		return pc.File.WithText(text), nil
	})
}

// Raw loads the document's path as bytes and marks the content binary.
func Raw(r Reader) plugin.Plugin {
	return plugin.Func("raw", func(pc plugin.Context) (document.Document, error) {
		data, err := r.ReadFile(pc.File.Path)
		if err != nil {
			return pc.File, err
		}
		return pc.File.WithRaw(data), nil
	})
}
