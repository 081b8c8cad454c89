// Package deps tracks the input files consumed by a build step and
// composes OmniBOR-style provenance documents over their gitoids.
//
// A Session owns three tables: the dependency registry (ordered, unique
// paths), the digest cache (up to two independently computed gitoids per
// dependency), and the note-reference table (previously embedded
// sub-document identifiers supplied by the object-file reader). All
// three are scoped to one build session; Reset clears them for process
// reuse.
package deps

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/deptrack/deptrack/pkg/gitoid"
)

// digestSlots is one slot per algorithm family.
const digestSlots = 2

func slot(algo gitoid.Algorithm) int {
	if algo == gitoid.SHA256 {
		return 1
	}
	return 0
}

// record is one digest-cache entry. A slot holds the lowercase hex
// digest once computed and stays empty ("") until then; once set it is
// never rewritten within a session.
type record struct {
	path    string
	digests [digestSlots]string
}

// noteRef associates a dependency with the sub-document identifiers
// already embedded in its own artifact, one per algorithm family.
type noteRef struct {
	path string
	refs [digestSlots]string
}

// Session accumulates dependency state for a single build invocation.
// It is not safe for concurrent use; the build model is single-threaded.
type Session struct {
	depFile      string
	docsEnabled  bool
	dependencies []string
	records      []*record
	notes        []noteRef
}

// NewSession returns an empty session with tracking disabled.
func NewSession() *Session {
	return &Session{}
}

// SetDepFile sets the output path for the Make-style dependency listing.
// Setting a target also enables dependency tracking.
func (s *Session) SetDepFile(path string) {
	s.depFile = path
}

// DepFile returns the Make-style listing target, or "" if none was set.
func (s *Session) DepFile() string {
	return s.depFile
}

// EnableDocuments turns on provenance document generation. This enables
// dependency tracking independently of SetDepFile.
func (s *Session) EnableDocuments() {
	s.docsEnabled = true
}

// DocumentsEnabled reports whether document generation was requested.
func (s *Session) DocumentsEnabled() bool {
	return s.docsEnabled
}

// TrackingEnabled reports whether registered paths are being retained.
// While false, Register is a no-op so that sessions which request
// neither output do not accumulate state.
func (s *Session) TrackingEnabled() bool {
	return s.depFile != "" || s.docsEnabled
}

// normalizePath maps a path to its comparison form: cleaned, forward
// slashes, case-folded where the host filesystem ignores case.
func normalizePath(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}

func samePath(a, b string) bool {
	return normalizePath(a) == normalizePath(b)
}

// Register records a newly observed input file. Paths equal under the
// host filesystem's path rules (redundant separators, "." segments,
// case on case-insensitive systems) collapse to one entry. Registration
// while tracking is disabled is a no-op. The registry never shrinks
// within a session.
func (s *Session) Register(path string) {
	if !s.TrackingEnabled() {
		return
	}
	for _, existing := range s.dependencies {
		if samePath(existing, path) {
			return
		}
	}
	s.dependencies = append(s.dependencies, path)
}

// Dependencies returns the registered paths in registration order.
func (s *Session) Dependencies() []string {
	out := make([]string, len(s.dependencies))
	copy(out, s.dependencies)
	return out
}

// AddNoteReference supplies the sub-document identifiers embedded in a
// dependency's own artifact. Either reference may be empty if that
// family was not embedded. Entries are read-only once added; the first
// entry for a path wins on lookup.
func (s *Session) AddNoteReference(path, sha1Ref, sha256Ref string) {
	s.notes = append(s.notes, noteRef{
		path: path,
		refs: [digestSlots]string{sha1Ref, sha256Ref},
	})
}

// noteFor returns the embedded reference for a dependency under the
// given algorithm family, or "" if none was supplied.
func (s *Session) noteFor(path string, algo gitoid.Algorithm) string {
	for _, n := range s.notes {
		if samePath(n.path, path) {
			return n.refs[slot(algo)]
		}
	}
	return ""
}

// findRecord returns the cache record for a path, or nil.
func (s *Session) findRecord(path string) *record {
	for _, rec := range s.records {
		if samePath(rec.path, path) {
			return rec
		}
	}
	return nil
}

// fillDigests runs the cache-fill pass for one algorithm family: every
// registered dependency without a digest in that family's slot is read
// and hashed. Files that cannot be read are skipped silently; a vanished
// input should cost a document entry, not the build. Slots filled by an
// earlier pass are left untouched, so the two families never redo each
// other's I/O.
func (s *Session) fillDigests(algo gitoid.Algorithm) {
	for _, path := range s.dependencies {
		rec := s.findRecord(path)
		if rec != nil && rec.digests[slot(algo)] != "" {
			continue
		}
		digest, err := gitoid.HashFile(path, algo)
		if err != nil {
			continue
		}
		if rec == nil {
			rec = &record{path: path}
			s.records = append(s.records, rec)
		}
		rec.digests[slot(algo)] = digest.Hex()
	}
}

// Reset clears the registry, the digest cache, the note-reference table,
// and both enablement flags, returning the session to its initial state
// for the next build invocation.
func (s *Session) Reset() {
	s.depFile = ""
	s.docsEnabled = false
	s.dependencies = nil
	s.records = nil
	s.notes = nil
}
