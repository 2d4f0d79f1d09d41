// Package site declares the pages and assets of the blog.
//
// Declaration only builds documents and registers them; nothing is written
// until the output writer flushes the registry.
package site

import (
	"context"
	"log/slog"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/factory"
	"github.com/davherrmann/davherrmann.github.io/internal/logfields"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin"
	"github.com/davherrmann/davherrmann.github.io/internal/plugin/transforms"
	"github.com/davherrmann/davherrmann.github.io/internal/registry"
	"github.com/davherrmann/davherrmann.github.io/internal/source"
)

// Site wires the factory and registry to the source tree.
type Site struct {
	cfg      *config.Config
	root     *source.Root
	factory  *factory.Factory
	registry *registry.Registry
	logger   *slog.Logger

	read, raw, frontMatter, markdown, minifyHTML, minifyCSS plugin.Plugin
}

// New creates a site declaration over root.
func New(f *factory.Factory, reg *registry.Registry, root *source.Root, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	return &Site{
		cfg:         f.Config(),
		root:        root,
		factory:     f,
		registry:    reg,
		logger:      logger,
		read:        transforms.Read(root),
		raw:         transforms.Raw(root),
		frontMatter: transforms.YAMLFrontMatter(),
		markdown:    transforms.Markdown(),
		minifyHTML:  transforms.MinifyHTML(),
		minifyCSS:   transforms.MinifyCSS(),
	}
}

// staticAsset is a file copied to the output without being linked from a page.
type staticAsset struct {
	path string
	raw  bool
}

var staticAssets = []staticAsset{
	{path: "CNAME"},
	{path: "google01a0df28d4492e88.html"},
	{path: "mstile-150x150.png", raw: true},
	{path: "android-chrome-192x192.png", raw: true},
	{path: "android-chrome-512x512.png", raw: true},
}

// Declare registers every page and asset of the site.
func (s *Site) Declare(ctx context.Context) error {
	if _, err := s.registry.LinkPath(ctx, s.factory, "blog/index.html",
		plugin.Title("Blog"), s.render("postList"), s.render("frame")); err != nil {
		return err
	}

	if _, err := s.registry.LinkPath(ctx, s.factory, "index.html",
		s.render("home"), s.minifyHTML); err != nil {
		return err
	}

	for _, a := range staticAssets {
		loader := s.read
		if a.raw {
			loader = s.raw
		}
		if _, err := s.registry.LinkPath(ctx, s.factory, a.path, loader); err != nil {
			return err
		}
	}

	s.logger.Info("Declared site", logfields.Count(s.registry.Len()))
	return nil
}
