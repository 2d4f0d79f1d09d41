package plugin

import (
	stderrors "errors"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

// ErrRawContent indicates a text plugin ran after the content was marked raw.
var ErrRawContent = stderrors.New("content is raw")

const priorKey = "prior"

// wrapPluginError attaches the failing plugin's identity and the document
// state before it. Errors that already name a plugin come from a nested build
// and pass through unchanged so the innermost failure is reported. Source,
// conflict and write errors keep their category.
func wrapPluginError(err error, p Plugin, position int, prior document.Document) error {
	if classified, ok := errors.AsClassified(err); ok {
		if _, named := classified.Context().Get("plugin"); named {
			return err
		}
		switch classified.Category() {
		case errors.CategoryTransform, errors.CategorySource:
			return classified.
				WithContext("plugin", p.Name()).
				WithContext("position", position).
				WithContext(priorKey, prior)
		default:
			return err
		}
	}
	return errors.WrapError(err, errors.CategoryTransform, "plugin failed").
		Fatal().
		WithContext("plugin", p.Name()).
		WithContext("position", position).
		WithContext("path", prior.Path).
		WithContext(priorKey, prior).
		Build()
}

// PriorDocument returns the document state immediately before the plugin that failed.
func PriorDocument(err error) (document.Document, bool) {
	classified, ok := errors.AsClassified(err)
	if !ok {
		return document.Document{}, false
	}
	v, ok := classified.Context().Get(priorKey)
	if !ok {
		return document.Document{}, false
	}
	doc, ok := v.(document.Document)
	return doc, ok
}

// FailedPlugin returns the name and chain position of the plugin that failed.
func FailedPlugin(err error) (string, int, bool) {
	classified, ok := errors.AsClassified(err)
	if !ok {
		return "", 0, false
	}
	name, ok := classified.Context().GetString("plugin")
	if !ok {
		return "", 0, false
	}
	pos, _ := classified.Context().GetInt("position")
	return name, pos, true
}
