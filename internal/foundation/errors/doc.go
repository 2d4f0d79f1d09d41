// Package errors provides foundational, type-safe error primitives used across the site build.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (source, transform, conflict, filesystem, etc.)
//   - ErrorSeverity: Whether the error aborts the build (fatal) or one document (error)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for error presentation and exit codes
//
// Example usage:
//
//	err := errors.SourceError("source not readable").
//		WithContext("path", "blog/hello.md").
//		WithCause(originalErr).
//		Build()
package errors
