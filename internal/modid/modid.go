// Package modid computes stable module identities and content hashes:
// ModuleId is a 64-bit hash of a module's canonical path, ContentHash
// is a 256-bit cryptographic hash of its text.
package modid

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"path/filepath"
	"runtime"
	"strings"
)

// ModuleId is the 64-bit hash prefix of a module's canonical path.
type ModuleId uint64

// ContentHash is the 256-bit sha256 digest of a module's source text.
type ContentHash [32]byte

// FromPath computes the ModuleId of a canonicalized file path.
func FromPath(path string) ModuleId {
	canon := canonicalizePath(path)
	sum := sha256.Sum256([]byte(canon))
	return ModuleId(binary.BigEndian.Uint64(sum[:8]))
}

// FromBytes computes the ContentHash of source text. Identical bytes
// always yield identical hashes.
func FromBytes(b []byte) ContentHash {
	return sha256.Sum256(b)
}

// Hex renders a ModuleId as lowercase hex, matching the cache
// filename convention.
func (id ModuleId) Hex() string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return hex.EncodeToString(buf[:])
}

// Hex renders the full ContentHash as lowercase hex.
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// ShortHex renders the first 16 bytes of the ContentHash as hex, the
// form used in cache filenames.
func (h ContentHash) ShortHex() string {
	return hex.EncodeToString(h[:16])
}

// Equal compares two ContentHash values byte-wise.
func (h ContentHash) Equal(other ContentHash) bool {
	return h == other
}

// Metadata carries the identity and dependency facts for one module.
type Metadata struct {
	Id        ModuleId
	Path      string
	Content   ContentHash
	Timestamp int64
	Imports   []ModuleId
}

// canonicalizePath normalizes a path for stable ModuleId calculation:
// cleaned, symlinks resolved where possible, made absolute,
// forward-slashed, and lowercased on case-insensitive filesystems.
func canonicalizePath(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	if isCaseInsensitive() {
		path = strings.ToLower(path)
	}
	return filepath.ToSlash(path)
}

func isCaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
