package document

import "fmt"

// SourceKind tags the variant held by a Source.
type SourceKind int

const (
	// SourcePath starts a build from a path relative to the source root.
	SourcePath SourceKind = iota
	// SourceBuilt starts a build from an already-built document.
	SourceBuilt
)

func (k SourceKind) String() string {
	switch k {
	case SourcePath:
		return "path"
	case SourceBuilt:
		return "built"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// Source is what the factory builds from: Path(string) | Built(Document).
type Source struct {
	kind SourceKind
	path string
	doc  Document
}

// FromPath creates a path source.
func FromPath(p string) Source { return Source{kind: SourcePath, path: p} }

// FromDocument creates a source that reuses an already-built document.
func FromDocument(d Document) Source { return Source{kind: SourceBuilt, doc: d} }

// Kind returns the variant tag.
func (s Source) Kind() SourceKind { return s.kind }

// Path returns the raw path of a path source.
func (s Source) Path() string { return s.path }

// Document returns the document of a built source.
func (s Source) Document() Document { return s.doc }

// Identity is the source half of the memoization key. Unchanged factory
// results use the key the factory assigned; edited or foreign documents fall
// back to path, content and metadata.
func (s Source) Identity() string {
	switch s.kind {
	case SourceBuilt:
		if key := s.doc.Key(); key != "" {
			return "(" + key + ")"
		}
		return "doc:" + s.doc.Path + "#" + s.doc.identityDigest()
	default:
		return "path:" + CleanPath(s.path)
	}
}

func (s Source) String() string {
	if s.kind == SourceBuilt {
		return "built:" + s.doc.Path
	}
	return "path:" + s.path
}
