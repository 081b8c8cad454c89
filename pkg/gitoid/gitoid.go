// Package gitoid computes content-derived identifiers over the git blob
// convention: HASH("blob " + decimal length + NUL + content). Digests
// computed here are interoperable with any other tool hashing the same
// bytes under the same convention.
package gitoid

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"strconv"
)

// Algorithm selects one of the two supported gitoid digest families.
type Algorithm int

const (
	// SHA1 produces 20-byte digests (40 hex characters).
	SHA1 Algorithm = iota
	// SHA256 produces 32-byte digests (64 hex characters).
	SHA256
)

// Size returns the raw digest length in bytes, or 0 for an unknown
// algorithm.
func (a Algorithm) Size() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	}
	return 0
}

// HexLen returns the length of the hex rendering of a digest.
func (a Algorithm) HexLen() int {
	return 2 * a.Size()
}

// Valid reports whether the algorithm is one of the supported families.
func (a Algorithm) Valid() bool {
	return a == SHA1 || a == SHA256
}

// Header returns the document header line (without newline) for the
// algorithm family.
func (a Algorithm) Header() string {
	switch a {
	case SHA1:
		return "gitoid:blob:sha1"
	case SHA256:
		return "gitoid:blob:sha256"
	}
	return ""
}

// StoreDir returns the per-algorithm directory name used in the object
// store layout.
func (a Algorithm) StoreDir() string {
	switch a {
	case SHA1:
		return "gitoid_blob_sha1"
	case SHA256:
		return "gitoid_blob_sha256"
	}
	return ""
}

func (a Algorithm) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// ParseAlgorithm maps the CLI/config spelling of an algorithm to its
// Algorithm value.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	}
	return 0, fmt.Errorf("unsupported gitoid algorithm %q", name)
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case SHA1:
		return sha1.New()
	case SHA256:
		return sha256.New()
	}
	return nil
}

// Digest is a raw gitoid digest (20 or 32 bytes).
type Digest []byte

// Hex renders the digest as lowercase hex, always exactly twice the raw
// digest length.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

// HashBytes computes the gitoid of data. The hashed prefix uses the
// decimal byte length, not hex, and is terminated by a single NUL; data
// may itself contain NUL bytes.
func HashBytes(data []byte, algo Algorithm) (Digest, error) {
	h := algo.newHash()
	if h == nil {
		return nil, fmt.Errorf("hash bytes: unsupported algorithm %s", algo)
	}
	h.Write([]byte("blob "))
	h.Write([]byte(strconv.Itoa(len(data))))
	h.Write([]byte{0})
	h.Write(data)
	return Digest(h.Sum(nil)), nil
}

// HashFile computes the gitoid of a file's contents. The blob length is
// the file's byte count. An open or read failure is returned to the
// caller, which typically treats it as "skip this dependency" rather
// than a fatal condition.
func HashFile(path string, algo Algorithm) (Digest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash file %q: %w", path, err)
	}
	return HashBytes(data, algo)
}
