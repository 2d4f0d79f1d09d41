// Package metrics provides build observability for the site build.
//
// This package implements the Null Object pattern: components default to
// NoopRecorder and never nil-check. A PrometheusRecorder is swapped in when a
// metrics textfile is requested; the build is one-shot, so the registry is
// exported to a file after the run instead of being served.
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	f := factory.New(cfg, factory.WithRecorder(recorder))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
