package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"path"
	"sort"
	"strings"
)

// Meta is the open set of document-level metadata (title, date, front matter fields).
type Meta map[string]any

// Content is either decoded text or an opaque binary payload.
type Content struct {
	text string
	data []byte
	raw  bool
}

// Text creates text content.
func Text(s string) Content { return Content{text: s} }

// Raw creates binary content. The slice is copied.
func Raw(b []byte) Content { return Content{data: append([]byte(nil), b...), raw: true} }

// IsRaw reports whether the content was marked binary.
func (c Content) IsRaw() bool { return c.raw }

// String returns the text payload; raw content yields its bytes as a string.
func (c Content) String() string {
	if c.raw {
		return string(c.data)
	}
	return c.text
}

// Bytes returns the payload to be written verbatim.
func (c Content) Bytes() []byte {
	if c.raw {
		return append([]byte(nil), c.data...)
	}
	return []byte(c.text)
}

// Len returns the payload size in bytes.
func (c Content) Len() int {
	if c.raw {
		return len(c.data)
	}
	return len(c.text)
}

// Equal compares payload and binary state.
func (c Content) Equal(other Content) bool {
	return c.raw == other.raw && c.String() == other.String()
}

// Document is the unit of content flowing through the pipeline.
type Document struct {
	Path    string
	Content Content
	Meta    Meta

	key   string
	state string
}

// New creates a document at the cleaned path with empty text content and no metadata.
func New(p string) Document {
	return Document{Path: CleanPath(p), Content: Text(""), Meta: Meta{}}
}

// Key returns the memoization identity assigned by the factory, or "" for
// documents constructed elsewhere or changed since.
func (d Document) Key() string {
	if d.key == "" || d.state != d.identityDigest() {
		return ""
	}
	return d.key
}

// WithKey returns a copy carrying the given memoization identity. The key
// stays valid only while path, content and metadata are unchanged.
func (d Document) WithKey(key string) Document {
	d.key, d.state = key, ""
	if key != "" {
		d.state = d.identityDigest()
	}
	return d
}

// edited drops the memoization identity; the result is a new document.
func (d Document) edited() Document {
	d.key, d.state = "", ""
	return d
}

// Clone returns a copy whose metadata map can be modified without affecting d.
func (d Document) Clone() Document {
	d.Meta = maps.Clone(d.Meta)
	if d.Meta == nil {
		d.Meta = Meta{}
	}
	return d
}

// WithPath returns a copy with a new path.
func (d Document) WithPath(p string) Document {
	d.Path = CleanPath(p)
	return d.edited()
}

// WithText returns a copy with text content.
func (d Document) WithText(s string) Document {
	d.Content = Text(s)
	return d.edited()
}

// WithRaw returns a copy with binary content.
func (d Document) WithRaw(b []byte) Document {
	d.Content = Raw(b)
	return d.edited()
}

// WithMeta sets a metadata key that is not yet present.
func (d Document) WithMeta(key string, value any) (Document, error) {
	if _, exists := d.Meta[key]; exists {
		return d, fmt.Errorf("%w: %q", ErrMetaKeyExists, key)
	}
	return d.OverrideMeta(key, value), nil
}

// OverrideMeta sets a metadata key regardless of its previous value. Only
// plugins whose contract documents the override may use it.
func (d Document) OverrideMeta(key string, value any) Document {
	next := make(Meta, len(d.Meta)+1)
	maps.Copy(next, d.Meta)
	next[key] = value
	d.Meta = next
	return d.edited()
}

// MergeMeta adds all fields that are not yet present. Keys that already exist
// keep their value and are reported back, sorted.
func (d Document) MergeMeta(fields map[string]any) (Document, []string) {
	next := make(Meta, len(d.Meta)+len(fields))
	maps.Copy(next, d.Meta)
	var skipped []string
	for k, v := range fields {
		if _, exists := next[k]; exists {
			skipped = append(skipped, k)
			continue
		}
		next[k] = v
	}
	sort.Strings(skipped)
	d.Meta = next
	return d.edited(), skipped
}

// String returns a meta value as a string, or "" when absent or not a string.
func (m Meta) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Fingerprint is a stable hash of the content payload and binary state.
// It is byte exact; two payloads differing only in whitespace differ.
func (d Document) Fingerprint() string {
	h := sha256.New()
	if d.Content.IsRaw() {
		h.Write([]byte("raw\x00"))
	} else {
		h.Write([]byte("text\x00"))
	}
	h.Write(d.Content.Bytes())
	return hex.EncodeToString(h.Sum(nil))
}

// identityDigest covers path, content and metadata. Every field is length
// prefixed and values carry their type, so no two states share an encoding.
func (d Document) identityDigest() string {
	keys := make([]string, 0, len(d.Meta))
	for k := range d.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	field := func(s string) { fmt.Fprintf(h, "%d:%s", len(s), s) }
	field(d.Path)
	field(d.Fingerprint())
	fmt.Fprintf(h, "%d;", len(keys))
	for _, k := range keys {
		field(k)
		v := d.Meta[k]
		field(fmt.Sprintf("%T:%v", v, v))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Equal compares path, content and metadata. The memoization key is ignored.
func (d Document) Equal(other Document) bool {
	if d.Path != other.Path || !d.Content.Equal(other.Content) || len(d.Meta) != len(other.Meta) {
		return false
	}
	for k, v := range d.Meta {
		ov, ok := other.Meta[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(ov) {
			return false
		}
	}
	return true
}

// CleanPath normalizes a logical path: slash separated, relative, no leading "./".
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean("/" + p)
	return strings.TrimPrefix(cleaned, "/")
}

// ValidPath reports whether p is a usable logical path: non-empty, relative
// and not escaping the root.
func ValidPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return false
	}
	cleaned := path.Clean(p)
	return cleaned != "." && cleaned != ".." && !strings.HasPrefix(cleaned, "../")
}
