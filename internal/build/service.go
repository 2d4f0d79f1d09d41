package build

import (
	"time"

	"github.com/davherrmann/davherrmann.github.io/internal/config"
	"github.com/davherrmann/davherrmann.github.io/internal/factory"
	"github.com/davherrmann/davherrmann.github.io/internal/linkverify"
)

// Request contains all inputs required to execute a build.
type Request struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// OutputDir overrides the configured output directory when set.
	OutputDir string

	Options Options
}

// Options provides optional build behavior modifiers.
type Options struct {
	// DryRun declares the site and verifies links without writing output.
	DryRun bool

	// SkipVerify disables link verification regardless of configuration.
	SkipVerify bool
}

// Result contains the outcome of a build execution.
type Result struct {
	BuildID string
	Status  Status

	// Paths lists the registered documents in registration order.
	Paths []string

	// OutputPath is the directory written to (empty on dry runs).
	OutputPath string

	Files int
	Bytes int64

	// Broken lists internal links without a registered target.
	Broken []linkverify.Broken

	Factory factory.Stats

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// IsSuccess returns true if the build completed successfully.
func (s Status) IsSuccess() bool {
	return s == StatusSuccess
}
