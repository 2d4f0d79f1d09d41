// Package transforms is the catalog of content plugins: reading sources,
// front matter extraction, Markdown rendering and minification.
//
// Every plugin here is stateless and has a fixed name, so it is safe to share
// one instance across chains and to memoize on its name.
package transforms
