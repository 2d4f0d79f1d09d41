package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitebuilder"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	documentBuilds   prom.Counter
	documentDuration prom.Histogram
	chainLength      prom.Histogram
	cacheHits        prom.Counter
	registrations    *prom.CounterVec
	stageDuration    *prom.HistogramVec
	filesWritten     prom.Counter
	bytesWritten     prom.Counter
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	brokenLinks      prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		documentBuilds: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_builds_total",
			Help:      "Documents produced by running a plugin chain (cache misses)",
		}),
		documentDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_build_duration_seconds",
			Help:      "Duration of a single document chain application, nested builds included",
			Buckets:   prom.DefBuckets,
		}),
		chainLength: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_chain_length",
			Help:      "Number of plugins per built document",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		}),
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "document_cache_hits_total",
			Help:      "Document requests served from the memoization cache",
		}),
		registrations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Link registry calls by whether the path was already registered",
		}, []string{"result"}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		filesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Files written to the output directory",
		}),
		bytesWritten: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Bytes written to the output directory",
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		brokenLinks: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "broken_links",
			Help:      "Internal links that do not resolve to a registered document",
		}),
	}
	reg.MustRegister(pr.documentBuilds, pr.documentDuration, pr.chainLength, pr.cacheHits,
		pr.registrations, pr.stageDuration, pr.filesWritten, pr.bytesWritten,
		pr.buildDuration, pr.buildOutcome, pr.brokenLinks)
	return pr
}

func (p *PrometheusRecorder) ObserveDocumentBuild(plugins int, d time.Duration) {
	if p == nil {
		return
	}
	p.documentBuilds.Inc()
	p.chainLength.Observe(float64(plugins))
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil {
		return
	}
	p.cacheHits.Inc()
}

func (p *PrometheusRecorder) IncRegistered(deduplicated bool) {
	if p == nil {
		return
	}
	res := "added"
	if deduplicated {
		res = "deduplicated"
	}
	p.registrations.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveFlush(files int, bytes int64) {
	if p == nil {
		return
	}
	p.filesWritten.Add(float64(files))
	p.bytesWritten.Add(float64(bytes))
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetBrokenLinks(n int) {
	if p == nil {
		return
	}
	p.brokenLinks.Set(float64(n))
}

var _ Recorder = (*PrometheusRecorder)(nil)
var _ Recorder = NoopRecorder{}
