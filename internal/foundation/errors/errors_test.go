package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "site.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "site.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		assert.True(t, HasCategory(err, CategoryConfig))
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.False(t, HasCategory(errors.New("plain"), CategoryConfig))
	})

	t.Run("Detection through fmt wrapping", func(t *testing.T) {
		inner := SourceError("source not readable").WithContext("path", "a.md").Build()
		wrapped := fmt.Errorf("declare site: %w", inner)

		classified, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, CategorySource, classified.Category())
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("permission denied")
	err := WrapError(originalErr, CategoryFileSystem, "write failed").
		WithContext("path", "public/index.html").
		WithContext("bytes", 42).
		Build()

	assert.Equal(t, CategoryFileSystem, err.Category())
	assert.Equal(t, SeverityError, err.Severity())
	assert.ErrorIs(t, err, originalErr)

	n, ok := err.Context().GetInt("bytes")
	require.True(t, ok)
	assert.Equal(t, 42, n)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"source", SourceError("missing").Build(), ErrSourceRead},
		{"transform", TransformError("plugin failed").Build(), ErrTransform},
		{"conflict", ConflictError("same path").Build(), ErrPathConflict},
		{"write", FileSystemError("disk full").Build(), ErrWrite},
		{"config", ConfigError("bad url").Build(), ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("outer: %w", tt.err), tt.sentinel)
		})
	}

	t.Run("Sentinels do not cross categories", func(t *testing.T) {
		assert.NotErrorIs(t, SourceError("missing").Build(), ErrTransform)
	})

	t.Run("Inner category is reachable through an outer one", func(t *testing.T) {
		inner := SourceError("missing").Build()
		outer := WrapError(inner, CategoryTransform, "plugin failed").Build()

		assert.ErrorIs(t, outer, ErrTransform)
		assert.ErrorIs(t, outer, ErrSourceRead)
	})
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := TransformError("plugin failed").WithContext("plugin", "markdown").Build()
	derived := base.WithContext("position", 2)

	_, ok := base.Context().Get("position")
	assert.False(t, ok)

	pos, ok := derived.Context().GetInt("position")
	require.True(t, ok)
	assert.Equal(t, 2, pos)
}
