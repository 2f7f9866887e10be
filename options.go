package alabaster

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/caasmo/alabaster/cache/ristretto"
	"github.com/caasmo/alabaster/core"
	"github.com/caasmo/alabaster/router/httprouter"
	"github.com/caasmo/alabaster/router/servemux"
	phuslog "github.com/phuslu/log"
)

// WithRouterServeMux wraps the standard library mux as the host router.
func WithRouterServeMux() core.Option {
	return core.WithRouter(servemux.New())
}

// WithRouterHttprouter wraps julienschmidt's httprouter as the host router.
func WithRouterHttprouter() core.Option {
	return core.WithRouter(httprouter.New())
}

// WithCacheRistretto installs the ristretto-backed asset cache used by the
// lazy index mode.
func WithCacheRistretto() core.Option {
	c, err := ristretto.New[*core.Asset]()
	if err != nil {
		slog.Error("failed to create ristretto cache", "error", err)
		os.Exit(1)
	}
	return core.WithCache(c)
}

// WithFS serves assets from the given filesystem instead of the configured
// root directory. Embedded trees (embed.FS) go through here.
func WithFS(fsys fs.FS) core.Option {
	return core.WithFS(fsys)
}

// DefaultLoggerOptions provides default settings for slog handlers.
// Level: Debug, removes the time attribute from output.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelDebug,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	},
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}
