package metrics

import "time"

// BuildOutcomeLabel enumerates final build states.
type BuildOutcomeLabel string

const (
	OutcomeSuccess  BuildOutcomeLabel = "success"
	OutcomeFailed   BuildOutcomeLabel = "failed"
	OutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for the document pipeline.
type Recorder interface {
	ObserveDocumentBuild(plugins int, d time.Duration)
	IncCacheHit()
	IncRegistered(deduplicated bool)
	ObserveStageDuration(stage string, d time.Duration)
	ObserveFlush(files int, bytes int64)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetBrokenLinks(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentBuild(int, time.Duration)     {}
func (NoopRecorder) IncCacheHit()                                {}
func (NoopRecorder) IncRegistered(bool)                          {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveFlush(int, int64)                     {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)           {}
func (NoopRecorder) SetBrokenLinks(int)                          {}
