package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPath       = "path"
	KeyPlugin     = "plugin"
	KeyPosition   = "position"
	KeyStage      = "stage"
	KeyCacheKey   = "cache_key"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyURL        = "url"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Position(i int) slog.Attr        { return slog.Int(KeyPosition, i) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func CacheKey(k string) slog.Attr     { return slog.String(KeyCacheKey, k) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
