// Package bundle packs the objects/ tree of a result directory into a
// single zstd-compressed stream and unpacks such streams elsewhere, so a
// provenance store can be shipped between machines as one file.
//
// Stream layout (before compression): a fixed header of magic, format
// version, and object count, then one entry per object of
// path-length/path/payload-length/payload. Paths are slash-separated and
// relative to the store root.
package bundle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	bundleMagic   = "ADGB"
	bundleVersion = uint32(1)

	// maxEntryPath bounds path records so a corrupt stream cannot force
	// a huge allocation.
	maxEntryPath = 4096
)

var (
	// ErrBadMagic indicates the stream is not a deptrack bundle.
	ErrBadMagic = errors.New("bad bundle magic")
	// ErrBadVersion indicates an unsupported bundle format version.
	ErrBadVersion = errors.New("unsupported bundle version")
	// ErrUnsafePath indicates a bundle entry that would escape the
	// destination root.
	ErrUnsafePath = errors.New("unsafe path in bundle")
)

// collectObjects lists every file under storeRoot/objects as a
// slash-separated path relative to storeRoot, in lexical walk order.
func collectObjects(storeRoot string) ([]string, error) {
	objectsDir := filepath.Join(storeRoot, "objects")
	var paths []string
	err := filepath.WalkDir(objectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(storeRoot, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store %q: %w", storeRoot, err)
	}
	return paths, nil
}

// Create writes a compressed bundle of every object under
// storeRoot/objects to w.
func Create(storeRoot string, w io.Writer) error {
	paths, err := collectObjects(storeRoot)
	if err != nil {
		return fmt.Errorf("bundle create: %w", err)
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("bundle create: init zstd: %w", err)
	}

	if _, err := enc.Write([]byte(bundleMagic)); err != nil {
		enc.Close()
		return fmt.Errorf("bundle create: write magic: %w", err)
	}
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], bundleVersion)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(paths)))
	if _, err := enc.Write(header[:]); err != nil {
		enc.Close()
		return fmt.Errorf("bundle create: write header: %w", err)
	}

	for _, rel := range paths {
		data, err := os.ReadFile(filepath.Join(storeRoot, filepath.FromSlash(rel)))
		if err != nil {
			enc.Close()
			return fmt.Errorf("bundle create: read %q: %w", rel, err)
		}
		if err := writeEntry(enc, rel, data); err != nil {
			enc.Close()
			return fmt.Errorf("bundle create: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("bundle create: close zstd: %w", err)
	}
	return nil
}

func writeEntry(w io.Writer, rel string, data []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(rel)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write entry %q: %w", rel, err)
	}
	if _, err := w.Write([]byte(rel)); err != nil {
		return fmt.Errorf("write entry %q: %w", rel, err)
	}
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write entry %q: %w", rel, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write entry %q: %w", rel, err)
	}
	return nil
}

// safeRelPath rejects entry paths that are absolute or climb out of the
// destination root.
func safeRelPath(rel string) error {
	if rel == "" || strings.HasPrefix(rel, "/") {
		return ErrUnsafePath
	}
	for _, part := range strings.Split(rel, "/") {
		if part == ".." {
			return ErrUnsafePath
		}
	}
	return nil
}

// Extract unpacks a bundle stream into destRoot, recreating the
// objects/ tree. Existing files are overwritten; the store is
// content-addressed, so identical names imply identical contents.
func Extract(r io.Reader, destRoot string) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return fmt.Errorf("bundle extract: init zstd: %w", err)
	}
	defer dec.Close()

	magic := make([]byte, len(bundleMagic))
	if _, err := io.ReadFull(dec, magic); err != nil {
		return fmt.Errorf("bundle extract: read magic: %w", err)
	}
	if string(magic) != bundleMagic {
		return fmt.Errorf("bundle extract: %w", ErrBadMagic)
	}

	var header [8]byte
	if _, err := io.ReadFull(dec, header[:]); err != nil {
		return fmt.Errorf("bundle extract: read header: %w", err)
	}
	if v := binary.BigEndian.Uint32(header[0:4]); v != bundleVersion {
		return fmt.Errorf("bundle extract: version %d: %w", v, ErrBadVersion)
	}
	count := binary.BigEndian.Uint32(header[4:8])

	for i := uint32(0); i < count; i++ {
		rel, data, err := readEntry(dec)
		if err != nil {
			return fmt.Errorf("bundle extract: entry %d: %w", i, err)
		}
		if err := safeRelPath(rel); err != nil {
			return fmt.Errorf("bundle extract: entry %q: %w", rel, err)
		}
		dest := filepath.Join(destRoot, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("bundle extract: mkdir for %q: %w", rel, err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("bundle extract: write %q: %w", rel, err)
		}
	}
	return nil
}

func readEntry(r io.Reader) (string, []byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", nil, fmt.Errorf("read path length: %w", err)
	}
	pathLen := binary.BigEndian.Uint32(lenBuf[:])
	if pathLen == 0 || pathLen > maxEntryPath {
		return "", nil, fmt.Errorf("invalid path length %d", pathLen)
	}
	pathBuf := make([]byte, pathLen)
	if _, err := io.ReadFull(r, pathBuf); err != nil {
		return "", nil, fmt.Errorf("read path: %w", err)
	}
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return "", nil, fmt.Errorf("read payload length: %w", err)
	}
	data := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, data); err != nil {
		return "", nil, fmt.Errorf("read payload: %w", err)
	}
	return string(pathBuf), data, nil
}
