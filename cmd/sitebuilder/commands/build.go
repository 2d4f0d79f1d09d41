package commands

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/davherrmann/davherrmann.github.io/internal/build"
	"github.com/davherrmann/davherrmann.github.io/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the build" type:"path"`
	NoVerify    bool   `name:"no-verify" help:"Skip internal link verification"`
	DryRun      bool   `name:"dry-run" help:"Declare and verify without writing output"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}

	metricsFile := b.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.File
	}

	svc := build.NewService().WithLogger(g.logger())
	var reg *prom.Registry
	if metricsFile != "" {
		reg = prom.NewRegistry()
		svc = svc.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	res, runErr := svc.Run(g.ctx(), build.Request{
		Config:    cfg,
		OutputDir: b.Output,
		Options: build.Options{
			DryRun:     b.DryRun,
			SkipVerify: b.NoVerify,
		},
	})

	if reg != nil {
		if err := metrics.WriteTextfile(metricsFile, reg); err != nil {
			g.logger().Warn("Failed to write metrics", "file", metricsFile, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	out := g.stdout()
	if b.DryRun {
		_, _ = fmt.Fprintf(out, "Dry run: %d files would be written\n", len(res.Paths))
		return nil
	}
	_, _ = fmt.Fprintf(out, "Wrote %d files (%d bytes) to %s\n", res.Files, res.Bytes, res.OutputPath)
	if n := len(res.Broken); n > 0 {
		_, _ = fmt.Fprintf(out, "Warning: %d broken internal links\n", n)
	}
	return nil
}
