package plugin

import (
	"context"
	"strings"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

// Chain is an ordered list of plugins attached to one document build.
type Chain []Plugin

// Key is the chain half of the memoization key. Equality is structural: two
// chains with the same plugin names in the same order share a key.
func (c Chain) Key() string {
	return strings.Join(c.Names(), ",")
}

// Names lists the plugin names in order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return names
}

// Apply folds the chain over doc, left to right.
func (c Chain) Apply(ctx context.Context, cfg *config.Config, doc document.Document) (document.Document, error) {
	for i, p := range c {
		if err := ctx.Err(); err != nil {
			return doc, err
		}
		if doc.Content.IsRaw() && isTextOnly(p) {
			return doc, errors.WrapError(ErrRawContent, errors.CategoryTransform, "text plugin applied to raw content").
				Fatal().
				WithContext("plugin", p.Name()).
				WithContext("position", i).
				WithContext("path", doc.Path).
				WithContext(priorKey, doc).
				Build()
		}

		next, err := p.Apply(Context{Context: ctx, Config: cfg, File: doc})
		if err != nil {
			return doc, wrapPluginError(err, p, i, doc)
		}
		if !document.ValidPath(next.Path) {
			return doc, errors.TransformError("plugin produced an invalid path").
				WithContext("plugin", p.Name()).
				WithContext("position", i).
				WithContext("path", next.Path).
				WithContext(priorKey, doc).
				Build()
		}
		next.Path = document.CleanPath(next.Path)
		if next.Meta == nil {
			next.Meta = document.Meta{}
		}
		doc = next
	}
	return doc, nil
}
