package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caasmo/alabaster/cache"
	"github.com/caasmo/alabaster/config"
	"golang.org/x/sync/singleflight"
	"log/slog"
)

// negativeTTL caches "no such asset" in lazy mode just long enough to absorb
// request bursts without hiding a freshly added file for more than a moment.
const negativeTTL = 1 * time.Second

// Index is the process-wide catalog of servable assets.
//
// In eager mode it is built once before serving starts and is read-only
// afterwards: lookups are plain map reads, safe for any number of concurrent
// requests without locking. In lazy mode entries are created on first access;
// a singleflight group collapses concurrent first accesses to one stat, and
// results land in the cache.
type Index struct {
	mode     string
	prefix   string
	resolver *Resolver
	fsys     fs.FS
	logger   *slog.Logger

	maxAge      time.Duration
	immutableRe interface{ MatchString(string) bool }
	mediaTypes  map[string]string

	// assets is the eager map. Nil in lazy mode.
	assets map[string]*Asset

	// lazy mode machinery. A nil *Asset in the cache is a negative entry.
	cache cache.Cache[string, *Asset]
	group singleflight.Group
}

// NewIndex builds the index for the app's current configuration. In eager
// mode the whole tree is walked and fingerprinted here; the returned Index is
// immutable. A missing or unreadable root is an error: serving must not start.
func NewIndex(app *App) (*Index, error) {
	cfg := app.Config()

	idx := &Index{
		mode:       cfg.Static.IndexMode,
		prefix:     cfg.Static.URLPrefix,
		resolver:   NewResolver(cfg.Static.URLPrefix),
		fsys:       app.fsys,
		logger:     app.Logger(),
		maxAge:     cfg.Static.MaxAge.Duration,
		mediaTypes: cfg.Static.MediaTypes,
		cache:      app.Cache(),
	}
	if re := cfg.Static.ImmutableRe(); re != nil {
		idx.immutableRe = re
	}

	if idx.fsys == nil {
		return nil, fmt.Errorf("index: no filesystem configured")
	}

	if idx.mode == config.IndexModeLazy {
		if idx.cache == nil {
			return nil, fmt.Errorf("index: lazy mode requires a cache (use WithCache)")
		}
		return idx, nil
	}

	assets, err := idx.walk()
	if err != nil {
		return nil, err
	}
	idx.assets = assets

	app.Logger().Info("asset index built", "assets", len(assets), "prefix", idx.prefix)
	return idx, nil
}

// Lookup returns the asset for a request path, nil when the request should be
// delegated to the wrapped application.
func (idx *Index) Lookup(requestPath string) *Asset {
	if idx.mode == config.IndexModeLazy {
		return idx.lookupLazy(requestPath)
	}
	return idx.assets[requestPath]
}

// Len reports the number of indexed assets. Zero in lazy mode.
func (idx *Index) Len() int {
	return len(idx.assets)
}

func (idx *Index) lookupLazy(requestPath string) *Asset {
	rel, err := idx.resolver.Resolve(requestPath)
	if err != nil {
		return nil
	}

	if asset, found := idx.cache.Get(requestPath); found {
		return asset // may be a cached negative (nil)
	}

	// Collapse concurrent first accesses of the same path to one stat.
	v, _, _ := idx.group.Do(requestPath, func() (interface{}, error) {
		asset, err := idx.buildAsset(rel, requestPath)
		if err != nil {
			if !isNotExist(err) {
				idx.logger.Warn("lazy index: asset skipped", "path", requestPath, "error", err)
			}
			idx.cache.SetWithTTL(requestPath, nil, 1, negativeTTL)
			return (*Asset)(nil), nil
		}
		idx.cache.Set(requestPath, asset, 1)
		return asset, nil
	})

	return v.(*Asset)
}

// walk enumerates the root once and builds all assets. Hidden files and
// directories are skipped, as are compressed siblings, which fold into their
// parent asset. Individual unreadable files are logged and excluded; only a
// failure to read the tree itself is fatal.
func (idx *Index) walk() (map[string]*Asset, error) {
	assets := make(map[string]*Asset)

	err := fs.WalkDir(idx.fsys, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			if rel == "." {
				return fmt.Errorf("static root not readable: %w", err)
			}
			idx.logger.Warn("index: subtree skipped", "path", rel, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if rel != "." && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		// Compressed artifacts are variants, not assets of their own.
		if strings.HasSuffix(name, SuffixGzip) || strings.HasSuffix(name, SuffixBrotli) {
			return nil
		}

		urlPath := idx.prefix + "/" + rel
		asset, err := idx.buildAsset(rel, urlPath)
		if err != nil {
			idx.logger.Warn("index: file skipped", "path", rel, "error", err)
			return nil
		}
		assets[urlPath] = asset
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build asset index: %w", err)
	}

	return assets, nil
}

// buildAsset constructs the immutable Asset record for one identity file:
// stat, fingerprint, media type, cache class, and whatever compressed
// siblings exist at this moment. Nothing here is revisited later.
func (idx *Index) buildAsset(rel, urlPath string) (*Asset, error) {
	info, err := fs.Stat(idx.fsys, rel)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", rel)
	}

	etag, err := fingerprint(idx.fsys, rel)
	if err != nil {
		return nil, err
	}

	variants := map[string]Variant{
		EncodingIdentity: {Encoding: EncodingIdentity, FilePath: rel, Size: info.Size()},
	}
	for suffix, encoding := range map[string]string{
		SuffixGzip:   EncodingGzip,
		SuffixBrotli: EncodingBrotli,
	} {
		sInfo, err := fs.Stat(idx.fsys, rel+suffix)
		if err != nil || !sInfo.Mode().IsRegular() {
			continue
		}
		variants[encoding] = Variant{
			Encoding: encoding,
			FilePath: rel + suffix,
			Size:     sInfo.Size(),
		}
	}

	immutable := idx.immutableRe != nil && idx.immutableRe.MatchString(urlPath)

	return &Asset{
		URLPath:      urlPath,
		LastModified: info.ModTime().Truncate(time.Second),
		ETag:         etag,
		Immutable:    immutable,
		ContentType:  mediaTypeFor(urlPath, idx.mediaTypes),
		variants:     variants,
	}, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
