// Package registry records the documents a site links to and hands back the
// path each one will be published at. The resulting dependency list is what
// the output writer flushes.
package registry

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/logfields"
	"github.com/davherrmann/davherrmann.github.io/internal/metrics"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

// Builder produces documents; satisfied by *factory.Factory.
type Builder interface {
	Build(ctx context.Context, src document.Source, plugins ...plugin.Plugin) (document.Document, error)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Registry) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// Registry is the ordered, path-unique list of documents to publish.
type Registry struct {
	logger   *slog.Logger
	recorder metrics.Recorder

	mu     sync.Mutex
	deps   []document.Document
	byPath map[string]int
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		byPath:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds doc to the dependency list unless a document with the same
// path and fingerprint is already present, and returns its final path for use
// in links. Pages resolve it against the <base href> of the site header.
// A different payload at an already registered path is a conflict. Paths are
// compared after cleaning.
func (r *Registry) Register(doc document.Document) (string, error) {
	if !document.ValidPath(doc.Path) {
		return "", errors.ValidationError("cannot register document with invalid path").
			WithContext("path", doc.Path).
			Build()
	}
	doc = doc.Clone()
	doc.Path = document.CleanPath(doc.Path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.byPath[doc.Path]; ok {
		existing := r.deps[i]
		if existing.Fingerprint() != doc.Fingerprint() {
			return "", errors.ConflictError("path registered with different content").
				WithContext("path", doc.Path).
				WithContext("existing_fingerprint", existing.Fingerprint()).
				WithContext("new_fingerprint", doc.Fingerprint()).
				Build()
		}
		r.recorder.IncRegistered(true)
		return doc.Path, nil
	}

	r.byPath[doc.Path] = len(r.deps)
	r.deps = append(r.deps, doc)
	r.recorder.IncRegistered(false)
	r.logger.Debug("Registered dependency", logfields.Path(doc.Path), logfields.Count(len(r.deps)))
	return doc.Path, nil
}

// Link builds src with plugins and registers the result.
func (r *Registry) Link(ctx context.Context, b Builder, src document.Source, plugins ...plugin.Plugin) (string, error) {
	doc, err := b.Build(ctx, src, plugins...)
	if err != nil {
		return "", err
	}
	return r.Register(doc)
}

// LinkPath is Link for a path source.
func (r *Registry) LinkPath(ctx context.Context, b Builder, p string, plugins ...plugin.Plugin) (string, error) {
	return r.Link(ctx, b, document.FromPath(p), plugins...)
}

// Dependencies returns the registered documents in registration order.
func (r *Registry) Dependencies() []document.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]document.Document, len(r.deps))
	for i, d := range r.deps {
		out[i] = d.Clone()
	}
	return out
}

// Paths returns the registered paths in registration order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.deps))
	for i, d := range r.deps {
		out[i] = d.Path
	}
	return out
}

// Has reports whether p is registered.
func (r *Registry) Has(p string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byPath[document.CleanPath(p)]
	return ok
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deps)
}

// Sorted returns the registered paths in lexical order.
func (r *Registry) Sorted() []string {
	paths := r.Paths()
	slices.Sort(paths)
	return paths
}
