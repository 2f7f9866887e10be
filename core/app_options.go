package core

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/caasmo/alabaster/cache"
	"github.com/caasmo/alabaster/config"
	"github.com/caasmo/alabaster/router"
)

// ErrMissingConfig is returned by NewApp when no config provider was supplied.
var ErrMissingConfig = errors.New("config provider is required but was not provided (use WithConfigProvider)")

type Option func(*App)

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithCache sets the cache implementation used by the lazy index mode.
func WithCache(c cache.Cache[string, *Asset]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithRouter sets the wrapped application's router.
func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithFS overrides the filesystem the index reads from. The default is
// os.DirFS of the configured root; tests pass an in-memory filesystem.
func WithFS(fsys fs.FS) Option {
	return func(a *App) {
		a.fsys = fsys
	}
}
