package factory

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/logfields"
	"github.com/davherrmann/davherrmann.github.io/internal/metrics"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
)

// ErrCycle indicates a document was requested while it was still being built.
var ErrCycle = stderrors.New("document depends on itself")

// Stats summarizes factory activity for a run.
type Stats struct {
	Builds int
	Hits   int
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger used for cache and build events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(f *Factory) {
		if r != nil {
			f.recorder = r
		}
	}
}

// Factory produces documents and memoizes them for the lifetime of a build.
type Factory struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder

	mu    sync.Mutex
	cache map[string]document.Document
	stats Stats

	flights singleflight.Group
}

// New creates a factory that hands cfg to every plugin.
func New(cfg *config.Config, opts ...Option) *Factory {
	f := &Factory{
		cfg:      cfg,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		cache:    make(map[string]document.Document),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Config returns the configuration passed to plugins.
func (f *Factory) Config() *config.Config { return f.cfg }

// Key returns the memoization key for src built with plugins.
func Key(src document.Source, plugins ...plugin.Plugin) string {
	return src.Identity() + "|" + plugin.Chain(plugins).Key()
}

// Build returns the document produced by applying plugins to src. Requests
// with an identical source and identical plugin names return the first
// result without running the chain again.
func (f *Factory) Build(ctx context.Context, src document.Source, plugins ...plugin.Plugin) (document.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start, err := initial(src)
	if err != nil {
		return document.Document{}, err
	}

	chain := plugin.Chain(plugins)
	key := Key(src, plugins...)

	if building(ctx, key) {
		return document.Document{}, errors.WrapError(ErrCycle, errors.CategoryTransform, "dependency cycle").
			Fatal().
			WithContext("path", start.Path).
			WithContext("cache_key", key).
			WithContext("stack", inProgress(ctx)).
			Build()
	}

	if doc, ok := f.lookup(key); ok {
		f.recorder.IncCacheHit()
		f.logger.Debug("Document cache hit", logfields.Path(doc.Path), logfields.CacheKey(key))
		return doc.Clone(), nil
	}

	v, err, _ := f.flights.Do(key, func() (any, error) {
		if doc, ok := f.peek(key); ok {
			return doc, nil
		}
		began := time.Now()
		doc, err := chain.Apply(push(ctx, key), f.cfg, start)
		if err != nil {
			return nil, err
		}
		doc = doc.WithKey(key)

		f.mu.Lock()
		f.cache[key] = doc
		f.stats.Builds++
		f.mu.Unlock()

		elapsed := time.Since(began)
		f.recorder.ObserveDocumentBuild(len(chain), elapsed)
		f.logger.Debug("Document built",
			logfields.Path(doc.Path),
			logfields.CacheKey(key),
			logfields.Count(len(chain)),
			logfields.DurationMS(float64(elapsed.Microseconds())/1000))
		return doc, nil
	})
	if err != nil {
		return document.Document{}, err
	}
	return v.(document.Document).Clone(), nil
}

// Path is shorthand for Build(ctx, document.FromPath(p), plugins...).
func (f *Factory) Path(ctx context.Context, p string, plugins ...plugin.Plugin) (document.Document, error) {
	return f.Build(ctx, document.FromPath(p), plugins...)
}

// From is shorthand for Build(ctx, document.FromDocument(d), plugins...).
func (f *Factory) From(ctx context.Context, d document.Document, plugins ...plugin.Plugin) (document.Document, error) {
	return f.Build(ctx, document.FromDocument(d), plugins...)
}

// Stats reports how many chains ran and how many requests hit the cache.
func (f *Factory) Stats() Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

func (f *Factory) peek(key string) (document.Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.cache[key]
	return doc, ok
}

func (f *Factory) lookup(key string) (document.Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.cache[key]
	if ok {
		f.stats.Hits++
	}
	return doc, ok
}

func initial(src document.Source) (document.Document, error) {
	switch src.Kind() {
	case document.SourcePath:
		if !document.ValidPath(src.Path()) {
			return document.Document{}, errors.SourceError("invalid source path").
				WithContext("path", src.Path()).
				Build()
		}
		return document.New(src.Path()), nil
	case document.SourceBuilt:
		// The chain's result gets its own key; intermediate states carry none.
		return src.Document().Clone().WithKey(""), nil
	default:
		return document.Document{}, errors.InternalError("unknown source kind").
			WithContext("kind", src.Kind().String()).
			Build()
	}
}
