package build

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/davherrmann/davherrmann.github.io/internal/document"
	"github.com/davherrmann/davherrmann.github.io/internal/factory"
	"github.com/davherrmann/davherrmann.github.io/internal/foundation/errors"
	"github.com/davherrmann/davherrmann.github.io/internal/linkverify"
	"github.com/davherrmann/davherrmann.github.io/internal/logfields"
	"github.com/davherrmann/davherrmann.github.io/internal/metrics"
	"github.com/davherrmann/davherrmann.github.io/internal/observability"
	"github.com/davherrmann/davherrmann.github.io/internal/output"
	"github.com/davherrmann/davherrmann.github.io/internal/registry"
	"github.com/davherrmann/davherrmann.github.io/internal/site"
	"github.com/davherrmann/davherrmann.github.io/internal/source"
)

// Service executes builds.
type Service struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	source   fs.FS
	newID    func() string
}

// NewService creates a Service that logs to the default logger.
func NewService() *Service {
	return &Service{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		newID:    uuid.NewString,
	}
}

// WithLogger sets the base logger.
func (s *Service) WithLogger(l *slog.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// WithRecorder sets the metrics recorder shared by all build components.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithSource replaces the configured source directory (for testing).
func (s *Service) WithSource(fsys fs.FS) *Service {
	s.source = fsys
	return s
}

// Run declares, verifies and flushes the site described by req.Config.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{BuildID: s.newID(), StartTime: start}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	err := s.run(ctx, req, result)

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)
	s.recorder.ObserveBuildDuration(result.Duration)

	logger := observability.Logger(ctx, s.logger)
	switch {
	case err == nil:
		result.Status = StatusSuccess
		s.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
		logger.Info("Build completed",
			logfields.Count(result.Files),
			logfields.Bytes(result.Bytes),
			logfields.DurationMS(float64(result.Duration.Microseconds())/1000))
	case stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded):
		result.Status = StatusCanceled
		s.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
		logger.Warn("Build canceled", logfields.Error(err))
	default:
		result.Status = StatusFailed
		s.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	}
	return result, err
}

func (s *Service) run(ctx context.Context, req Request, result *Result) error {
	cfg := req.Config
	if cfg == nil {
		return errors.ConfigError("config required").Build()
	}

	root, err := s.openSource(cfg.Source)
	if err != nil {
		return err
	}

	// Declare
	stageCtx := observability.WithStage(ctx, "declare")
	logger := observability.Logger(stageCtx, s.logger)
	began := time.Now()

	f := factory.New(cfg, factory.WithLogger(logger), factory.WithRecorder(s.recorder))
	reg := registry.New(registry.WithLogger(logger), registry.WithRecorder(s.recorder))
	if err := site.New(f, reg, root, logger).Declare(stageCtx); err != nil {
		return err
	}
	deps := reg.Dependencies()
	result.Paths = reg.Paths()
	result.Factory = f.Stats()
	s.recorder.ObserveStageDuration("declare", time.Since(began))
	logger.Info("Dependencies", slog.Any("paths", result.Paths),
		logfields.Count(len(result.Paths)),
		slog.Int("cache_hits", result.Factory.Hits))

	// Verify
	if cfg.Build.VerifyLinks && !req.Options.SkipVerify {
		if err := s.verify(observability.WithStage(ctx, "verify"), cfg.BaseURL, cfg.Build.StrictLinks, deps, result); err != nil {
			return err
		}
	}

	if req.Options.DryRun {
		logger.Info("Dry run, nothing written")
		return nil
	}

	// Flush
	stageCtx = observability.WithStage(ctx, "flush")
	began = time.Now()
	outDir := cfg.Output.Directory
	if req.OutputDir != "" {
		outDir = req.OutputDir
	}
	w := output.NewWriter(outDir,
		output.WithClean(cfg.Output.Clean),
		output.WithLogger(observability.Logger(stageCtx, s.logger)),
		output.WithRecorder(s.recorder))
	res, err := w.Flush(stageCtx, deps)
	if err != nil {
		return err
	}
	result.OutputPath = w.Root()
	result.Files = res.Files
	result.Bytes = res.Bytes
	s.recorder.ObserveStageDuration("flush", time.Since(began))
	return nil
}

func (s *Service) verify(ctx context.Context, baseURL string, strict bool, deps []document.Document, result *Result) error {
	began := time.Now()
	broken, err := linkverify.Verify(deps, baseURL)
	if err != nil {
		return err
	}
	result.Broken = broken
	s.recorder.SetBrokenLinks(len(broken))
	s.recorder.ObserveStageDuration("verify", time.Since(began))

	for _, b := range broken {
		observability.Logger(ctx, s.logger).Warn("Broken internal link",
			logfields.Path(b.Document), logfields.URL(b.URL), slog.String("target", b.Target))
	}
	if strict && len(broken) > 0 {
		return errors.ValidationError("broken internal links").
			WithContext("count", len(broken)).
			WithContext("path", broken[0].Document).
			WithContext("url", broken[0].URL).
			Build()
	}
	return nil
}

func (s *Service) openSource(dir string) (*source.Root, error) {
	if s.source != nil {
		return source.NewRoot(s.source), nil
	}
	return source.Open(dir)
}
