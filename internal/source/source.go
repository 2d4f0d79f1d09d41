// Package source provides read access to the site's source tree.
package source

import (
	stderrors "errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
)

// ErrInvalidUTF8 indicates a text source that cannot be decoded.
var ErrInvalidUTF8 = stderrors.New("source is not valid UTF-8")

// Root is the configured source directory, addressed with slash paths.
type Root struct {
	fsys fs.FS
	dir  string
}

// NewRoot wraps an arbitrary file system, e.g. fstest.MapFS in tests.
func NewRoot(fsys fs.FS) *Root {
	return &Root{fsys: fsys}
}

// Open returns a Root over a directory on disk.
func Open(dir string) (*Root, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "source directory not accessible").
			Fatal().WithContext("directory", dir).Build()
	}
	if !info.IsDir() {
		return nil, errors.ConfigError("source is not a directory").WithContext("directory", dir).Build()
	}
	return &Root{fsys: os.DirFS(dir), dir: dir}, nil
}

// Dir returns the directory on disk, or "" for in-memory roots.
func (r *Root) Dir() string { return r.dir }

// FS exposes the underlying file system.
func (r *Root) FS() fs.FS { return r.fsys }

// ReadFile reads raw bytes. Any failure is a source read error.
func (r *Root) ReadFile(p string) ([]byte, error) {
	if !document.ValidPath(p) {
		return nil, errors.SourceError("invalid source path").WithContext("path", p).Build()
	}
	clean := document.CleanPath(p)
	if !fs.ValidPath(clean) {
		return nil, errors.SourceError("invalid source path").WithContext("path", p).Build()
	}
	data, err := fs.ReadFile(r.fsys, clean)
	if err != nil {
		msg := "source not readable"
		if stderrors.Is(err, fs.ErrNotExist) {
			msg = "source not found"
		}
		return nil, errors.WrapError(err, errors.CategorySource, msg).Fatal().WithContext("path", clean).Build()
	}
	return data, nil
}

// ReadText reads and decodes a UTF-8 text source.
func (r *Root) ReadText(p string) (string, error) {
	data, err := r.ReadFile(p)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.WrapError(ErrInvalidUTF8, errors.CategorySource, "source not decodable").
			Fatal().WithContext("path", document.CleanPath(p)).Build()
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

// Glob lists files matching a doublestar pattern, sorted.
func (r *Root) Glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(r.fsys, pattern)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategorySource, "invalid glob pattern").
			Fatal().WithContext("pattern", pattern).Build()
	}
	files := matches[:0]
	for _, m := range matches {
		info, err := fs.Stat(r.fsys, m)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}
