package deps

import (
	"bytes"
	"sort"

	"github.com/deptrack/deptrack/pkg/gitoid"
	"github.com/deptrack/deptrack/pkg/store"
)

// coverageUniform reports whether every cache record agrees on slot
// presence: for each algorithm family, either all records carry a digest
// or none do. The cache-fill pass guarantees this for the active family;
// disagreement means the session state is internally inconsistent and
// sorting by digest would be meaningless.
func (s *Session) coverageUniform() bool {
	if len(s.records) < 2 {
		return true
	}
	first := s.records[0]
	for _, rec := range s.records[1:] {
		for i := 0; i < digestSlots; i++ {
			if (rec.digests[i] == "") != (first.digests[i] == "") {
				return false
			}
		}
	}
	return true
}

// sortedRecords returns the cache records ordered by ascending
// lexicographic hex digest under algo. Sorting requires uniform slot
// coverage; if the precondition fails the records are returned in their
// original order, composition continues, and the fault never surfaces to
// the caller.
func (s *Session) sortedRecords(algo gitoid.Algorithm) []*record {
	out := make([]*record, len(s.records))
	copy(out, s.records)
	if !s.coverageUniform() {
		return out
	}
	i := slot(algo)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].digests[i] < out[b].digests[i]
	})
	return out
}

// renderDocument composes the canonical document text for one algorithm
// family: the header line, then one "blob <digest>[ bom <note>]" line
// per dependency in ascending digest order, each newline-terminated.
// Records without a digest in the active slot are omitted.
func (s *Session) renderDocument(algo gitoid.Algorithm) []byte {
	var buf bytes.Buffer
	buf.WriteString(algo.Header())
	buf.WriteByte('\n')
	for _, rec := range s.sortedRecords(algo) {
		digest := rec.digests[slot(algo)]
		if digest == "" {
			continue
		}
		buf.WriteString("blob ")
		buf.WriteString(digest)
		if note := s.noteFor(rec.path, algo); note != "" {
			buf.WriteString(" bom ")
			buf.WriteString(note)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteDocument computes any missing digests for algo, composes the
// provenance document, persists it in the sharded store under resultDir
// named by its own gitoid, and returns that gitoid as lowercase hex.
//
// Any failure, an unsupported algorithm or an unwritable store, yields
// "" so the caller omits embedding a reference; document generation is
// best-effort and never aborts the surrounding build.
func (s *Session) WriteDocument(algo gitoid.Algorithm, resultDir string) string {
	if !algo.Valid() {
		return ""
	}

	s.fillDigests(algo)
	doc := s.renderDocument(algo)

	selfDigest, err := gitoid.HashBytes(doc, algo)
	if err != nil {
		return ""
	}
	digestHex := selfDigest.Hex()

	if err := store.WriteObject(resultDir, algo, digestHex, doc); err != nil {
		return ""
	}
	return digestHex
}
