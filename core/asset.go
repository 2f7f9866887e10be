package core

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Encoding tokens as they appear in Accept-Encoding and Content-Encoding.
const (
	EncodingIdentity = "identity"
	EncodingGzip     = "gzip"
	EncodingBrotli   = "br"
)

// Compressed sibling suffixes produced by the offline pipeline (cmd/assetgen)
// or any external compressor following the same convention.
const (
	SuffixGzip   = ".gz"
	SuffixBrotli = ".br"
)

// Variant is one encoded representation of an asset's bytes.
type Variant struct {
	// Encoding is the token: "identity", "gzip" or "br".
	Encoding string

	// FilePath is the root-relative filesystem path of this representation.
	FilePath string

	// Size is the representation's byte length at index time.
	Size int64
}

// Asset represents one logical static resource and its known
// representations. Assets are created exclusively during indexing and are
// immutable afterwards; concurrent readers need no locks.
type Asset struct {
	// URLPath is the canonical request path, the unique key in the index.
	URLPath string

	// LastModified is the identity file's mtime at index time, truncated to
	// second precision to match the HTTP date format.
	LastModified time.Time

	// ETag is a strong validator: a quoted hex content fingerprint, stable
	// for the lifetime of the process.
	ETag string

	// Immutable marks URL paths that encode a content hash; they get a
	// far-future Cache-Control and are never revalidated.
	Immutable bool

	// ContentType is the media type derived from the extension table,
	// including a charset parameter for text types.
	ContentType string

	// variants maps encoding token to representation. Always contains
	// EncodingIdentity.
	variants map[string]Variant
}

// Variant returns the representation for an encoding token.
func (a *Asset) Variant(encoding string) (Variant, bool) {
	v, ok := a.variants[encoding]
	return v, ok
}

// Identity returns the uncompressed representation, present on every asset.
func (a *Asset) Identity() Variant {
	return a.variants[EncodingIdentity]
}

// HasAlternatives reports whether any compressed representation exists.
// When true, responses carry Vary: Accept-Encoding so shared caches never
// conflate encoded and unencoded bodies.
func (a *Asset) HasAlternatives() bool {
	return len(a.variants) > 1
}

// Size returns the identity representation's size.
func (a *Asset) Size() int64 {
	return a.Identity().Size
}

// FilePath returns the identity representation's root-relative path.
func (a *Asset) FilePath() string {
	return a.Identity().FilePath
}

// fingerprint hashes the file content into a quoted strong ETag. BLAKE2b is
// used for speed on the startup path; the first 16 bytes are plenty for a
// validator.
func fingerprint(fsys fs.FS, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for fingerprint: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return `"` + hex.EncodeToString(h.Sum(nil)[:16]) + `"`, nil
}
