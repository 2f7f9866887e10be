package core

import (
	"errors"
	"path"
	"strings"
)

// Resolver outcomes. Both resolve to a delegate decision in the dispatcher;
// they are distinct so callers can log traversal attempts.
var (
	// ErrNotFound means the path is not under the configured prefix or can
	// never name an indexed file (directories, empty paths).
	ErrNotFound = errors.New("no asset for path")

	// ErrPathTraversal means the path tried to escape the static root.
	ErrPathTraversal = errors.New("path escapes static root")
)

// Resolver maps request URL paths to root-relative file paths. It is a pure
// function over its configuration: no filesystem access, no side effects.
type Resolver struct {
	prefix string // "" or "/static" (validated: leading slash, no trailing)
}

func NewResolver(urlPrefix string) *Resolver {
	return &Resolver{prefix: urlPrefix}
}

// Resolve turns a request path (as found in r.URL.Path, already
// percent-decoded by net/http) into a slash-separated path relative to the
// static root.
//
// Only canonical paths resolve: anything whose cleaned form differs from the
// input (".." segments, doubled or trailing slashes) is rejected, so an
// attacker cannot name a file outside the root no matter how the path is
// spelled. Dot-prefixed segments and compressed-sibling suffixes never
// resolve; the indexer skips both when walking and the resolver must agree
// with it in lazy mode.
func (rs *Resolver) Resolve(requestPath string) (string, error) {
	if rs.prefix != "" {
		if !strings.HasPrefix(requestPath, rs.prefix+"/") {
			return "", ErrNotFound
		}
		requestPath = requestPath[len(rs.prefix):]
	}

	// URLs that could only ever be directories never match.
	if requestPath == "" || requestPath == "/" || strings.HasSuffix(requestPath, "/") {
		return "", ErrNotFound
	}
	if !strings.HasPrefix(requestPath, "/") {
		return "", ErrNotFound
	}
	if strings.ContainsRune(requestPath, 0) {
		return "", ErrNotFound
	}

	// Non-canonical spellings are treated as traversal attempts, mirroring
	// "clean it, then require it was already clean".
	if cleaned := path.Clean(requestPath); cleaned != requestPath {
		return "", ErrPathTraversal
	}

	rel := strings.TrimPrefix(requestPath, "/")
	for _, segment := range strings.Split(rel, "/") {
		if strings.HasPrefix(segment, ".") {
			return "", ErrNotFound
		}
	}

	// Compressed artifacts are variants of their parent asset, never
	// assets of their own. The indexer enforces this when walking; the
	// resolver enforces it for paths that skip the walk.
	if strings.HasSuffix(rel, SuffixGzip) || strings.HasSuffix(rel, SuffixBrotli) {
		return "", ErrNotFound
	}

	return rel, nil
}
