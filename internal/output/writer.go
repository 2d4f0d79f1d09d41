// Package output flushes the dependency list to the output directory.
package output

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/logfields"
	"github.com/davherrmann/davherrmann.github.io/internal/metrics"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Result summarizes a flush.
type Result struct {
	Files int
	Bytes int64
}

// Option configures a Writer.
type Option func(*Writer)

// WithClean removes the output root before writing.
func WithClean(clean bool) Option {
	return func(w *Writer) { w.clean = clean }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(w *Writer) {
		if r != nil {
			w.recorder = r
		}
	}
}

// Writer writes documents below a root directory.
type Writer struct {
	root     string
	clean    bool
	logger   *slog.Logger
	recorder metrics.Recorder
}

// NewWriter creates a writer for root.
func NewWriter(root string, opts ...Option) *Writer {
	w := &Writer{
		root:     filepath.Clean(root),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the output directory.
func (w *Writer) Root() string { return w.root }

// Flush writes every document to root/path, creating parent directories and
// overwriting existing files. Nothing is written when the list contains
// two different payloads for one path. The first write failure aborts.
func (w *Writer) Flush(ctx context.Context, deps []document.Document) (Result, error) {
	var res Result
	started := time.Now()

	targets, err := w.plan(deps)
	if err != nil {
		return res, err
	}

	if w.clean {
		if err := w.removeRoot(); err != nil {
			return res, err
		}
	}
	if err := os.MkdirAll(w.root, dirPerm); err != nil {
		return res, writeError(err, w.root, "create output directory")
	}

	for i, doc := range deps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if targets[i] == "" {
			continue
		}
		data := doc.Content.Bytes()
		if err := os.MkdirAll(filepath.Dir(targets[i]), dirPerm); err != nil {
			return res, writeError(err, doc.Path, "create parent directory")
		}
		if err := os.WriteFile(targets[i], data, filePerm); err != nil {
			return res, writeError(err, doc.Path, "write file")
		}
		res.Files++
		res.Bytes += int64(len(data))
		w.logger.Debug("Wrote file", logfields.Path(doc.Path), logfields.Bytes(int64(len(data))))
	}

	w.recorder.ObserveFlush(res.Files, res.Bytes)
	w.logger.Info("Flushed output",
		slog.String("root", w.root),
		logfields.Count(res.Files),
		logfields.Bytes(res.Bytes),
		logfields.DurationMS(float64(time.Since(started).Microseconds())/1000))
	return res, nil
}

// plan resolves target filenames and rejects conflicts before anything is
// written. Exact duplicates map to "" and are skipped.
func (w *Writer) plan(deps []document.Document) ([]string, error) {
	targets := make([]string, len(deps))
	seen := make(map[string]string, len(deps))
	for i, doc := range deps {
		target, err := w.target(doc.Path)
		if err != nil {
			return nil, err
		}
		p := document.CleanPath(doc.Path)
		fp := doc.Fingerprint()
		if prev, ok := seen[p]; ok {
			if prev != fp {
				return nil, errors.ConflictError("path listed twice with different content").
					WithContext("path", p).
					WithContext("existing_fingerprint", prev).
					WithContext("new_fingerprint", fp).
					Build()
			}
			continue
		}
		seen[p] = fp
		targets[i] = target
	}
	return targets, nil
}

func (w *Writer) target(p string) (string, error) {
	if !document.ValidPath(p) {
		return "", errors.FileSystemError("output path escapes the output directory").
			WithContext("path", p).
			Build()
	}
	target := filepath.Join(w.root, filepath.FromSlash(p))
	rel, err := filepath.Rel(w.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.FileSystemError("output path escapes the output directory").
			WithContext("path", p).
			Build()
	}
	return target, nil
}

func (w *Writer) removeRoot() error {
	if w.root == "" || w.root == "." || w.root == string(filepath.Separator) {
		return errors.ValidationError("refusing to clean output directory").
			WithContext("path", w.root).
			Build()
	}
	if err := os.RemoveAll(w.root); err != nil {
		return writeError(err, w.root, "clean output directory")
	}
	w.logger.Debug("Cleaned output directory", logfields.Path(w.root))
	return nil
}

func writeError(err error, p, msg string) error {
	return errors.WrapError(err, errors.CategoryFileSystem, msg).
		Fatal().
		WithContext("path", p).
		Build()
}
