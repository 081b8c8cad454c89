// Package store persists composed provenance documents into a sharded,
// content-addressed directory tree:
//
//	<result_dir>/objects/gitoid_blob_sha{1,256}/<hh>/<rest of digest>
//
// The result directory may be relative or absolute, multi-segment, and
// partially or wholly nonexistent; missing segments are created on the
// way down and existing ones are reused.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deptrack/deptrack/pkg/gitoid"
)

var (
	// ErrEmptyResultDir indicates that no result directory was supplied.
	ErrEmptyResultDir = errors.New("result directory is required")
	// ErrShortDigest indicates a digest too short to shard into a
	// two-character prefix directory and a remainder file name.
	ErrShortDigest = errors.New("digest too short to shard")
)

// dirWalk tracks every directory handle opened while materializing a
// path, so they can all be released once the enclosing write finishes,
// whatever the outcome.
type dirWalk struct {
	handles []*os.File
}

// openSegment opens the directory at path, creating it first if it does
// not exist. The handle is retained until Close.
func (w *dirWalk) openSegment(path string) error {
	dir, err := os.Open(path)
	if err != nil {
		if mkErr := os.Mkdir(path, 0o755); mkErr != nil && !os.IsExist(mkErr) {
			return fmt.Errorf("create directory %q: %w", path, mkErr)
		}
		dir, err = os.Open(path)
		if err != nil {
			return fmt.Errorf("open directory %q: %w", path, err)
		}
	}
	info, err := dir.Stat()
	if err != nil {
		dir.Close()
		return fmt.Errorf("stat directory %q: %w", path, err)
	}
	if !info.IsDir() {
		dir.Close()
		return fmt.Errorf("path segment %q is not a directory", path)
	}
	w.handles = append(w.handles, dir)
	return nil
}

// Close releases all handles accumulated during the walk.
func (w *dirWalk) Close() {
	for _, dir := range w.handles {
		dir.Close()
	}
	w.handles = nil
}

// splitSegments breaks a path into its separator-delimited components,
// collapsing runs of separators, and reports whether the path was
// absolute. Both the native separator and '/' are accepted.
func splitSegments(path string) (segments []string, absolute bool) {
	isSep := func(r rune) bool {
		return r == '/' || r == os.PathSeparator
	}
	absolute = filepath.IsAbs(path)
	segments = strings.FieldsFunc(path, isSep)
	return segments, absolute
}

// walkResultDir opens, creating where necessary, every segment of
// resultDir in order. For an absolute path the root is opened first. The
// returned walk holds one handle per traversed directory; the final
// element is the result directory itself.
func walkResultDir(resultDir string) (*dirWalk, string, error) {
	segments, absolute := splitSegments(resultDir)
	if len(segments) == 0 && !absolute {
		return nil, "", ErrEmptyResultDir
	}

	walk := &dirWalk{}
	current := ""
	if absolute {
		current = string(os.PathSeparator)
		if err := walk.openSegment(current); err != nil {
			walk.Close()
			return nil, "", err
		}
	}

	for _, seg := range segments {
		if current == "" {
			current = seg
		} else {
			current = filepath.Join(current, seg)
		}
		if err := walk.openSegment(current); err != nil {
			walk.Close()
			return nil, "", err
		}
	}
	return walk, current, nil
}

// WriteObject writes docBytes under its own digest in the sharded layout
// rooted at resultDir. Missing directories along resultDir and the
// objects/<algo dir>/<shard> chain are created; existing ones are reused,
// so repeated writes of identical content are idempotent. All directory
// handles opened along the way are released before returning.
func WriteObject(resultDir string, algo gitoid.Algorithm, digestHex string, docBytes []byte) error {
	if !algo.Valid() {
		return fmt.Errorf("write object: unsupported algorithm %s", algo)
	}
	if len(digestHex) != algo.HexLen() {
		return fmt.Errorf("write object: digest %q: %w", digestHex, ErrShortDigest)
	}

	walk, root, err := walkResultDir(resultDir)
	if err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	defer walk.Close()

	shardDir := filepath.Join(root, "objects", algo.StoreDir(), digestHex[:2])
	for _, dir := range []string{
		filepath.Join(root, "objects"),
		filepath.Join(root, "objects", algo.StoreDir()),
		shardDir,
	} {
		if err := walk.openSegment(dir); err != nil {
			return fmt.Errorf("write object: %w", err)
		}
	}

	objectPath := filepath.Join(shardDir, digestHex[2:])
	if err := os.WriteFile(objectPath, docBytes, 0o644); err != nil {
		return fmt.Errorf("write object %q: %w", objectPath, err)
	}
	return nil
}

// ObjectPath returns the store path a digest resolves to under resultDir.
func ObjectPath(resultDir string, algo gitoid.Algorithm, digestHex string) string {
	return filepath.Join(resultDir, "objects", algo.StoreDir(), digestHex[:2], digestHex[2:])
}
