// Package plugin defines the unit of composition of the build pipeline.
//
// A Plugin takes the current document and the read-only configuration and
// returns the next document state. Plugins know nothing about each other; a
// Chain applies them strictly left to right.
package plugin

import (
	"context"
	"fmt"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/document"
)

// Plugin is a pure transform step applied to a document.
//
// Name identifies the plugin including its parameters and is part of the
// factory's memoization key, so two plugins with equal names must behave
// identically. Implementations must not keep state between invocations.
type Plugin interface {
	Name() string
	Apply(pc Context) (document.Document, error)
}

// TextPlugin is implemented by plugins that operate on decoded text. They are
// rejected once a document's content was marked raw.
type TextPlugin interface {
	Plugin
	TextOnly() bool
}

// Context is what a plugin receives: the build context, the configuration and
// the document produced by the previous plugin.
type Context struct {
	// Context carries cancellation and the factory's in-progress build stack.
	Context context.Context

	Config *config.Config
	File   document.Document
}

// Func adapts a function to a Plugin.
func Func(name string, fn func(pc Context) (document.Document, error)) Plugin {
	return funcPlugin{name: name, fn: fn}
}

// TextFunc adapts a function to a text-only Plugin.
func TextFunc(name string, fn func(pc Context) (document.Document, error)) Plugin {
	return funcPlugin{name: name, fn: fn, text: true}
}

type funcPlugin struct {
	name string
	fn   func(pc Context) (document.Document, error)
	text bool
}

func (p funcPlugin) Name() string                                { return p.name }
func (p funcPlugin) Apply(pc Context) (document.Document, error) { return p.fn(pc) }
func (p funcPlugin) TextOnly() bool                              { return p.text }
func (p funcPlugin) String() string                              { return fmt.Sprintf("plugin(%s)", p.name) }

func isTextOnly(p Plugin) bool {
	tp, ok := p.(TextPlugin)
	return ok && tp.TextOnly()
}
