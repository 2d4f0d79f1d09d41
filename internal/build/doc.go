// Package build runs a complete site build.
//
// A build declares the whole site through the document factory and the link
// registry, optionally verifies internal links, and then flushes the
// registered documents to the output directory. All execution paths (CLI and
// tests) route through Service.
package build
