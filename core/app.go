package core

import (
	"io/fs"
	"log/slog"

	"github.com/caasmo/alabaster/cache"
	"github.com/caasmo/alabaster/config"
	"github.com/caasmo/alabaster/router"
)

// App is the application wide context: the asset index, the shared read-only
// services, and the wrapped application's router. Heavy objects live here
// once; handlers and middleware only read them.
type App struct {
	configProvider *config.Provider
	logger         *slog.Logger
	cache          cache.Cache[string, *Asset]
	router         router.Router
	index          *Index

	// fsys is the filesystem the index reads from. Defaults to
	// os.DirFS(root_dir); tests substitute an fstest.MapFS.
	fsys fs.FS
}

func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.configProvider == nil {
		return nil, ErrMissingConfig
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a, nil
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) ConfigProvider() *config.Provider {
	return a.configProvider
}

func (a *App) SetConfigProvider(provider *config.Provider) {
	a.configProvider = provider
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) Cache() cache.Cache[string, *Asset] {
	return a.cache
}

func (a *App) SetCache(c cache.Cache[string, *Asset]) {
	a.cache = c
}

// Router returns the wrapped application's router instance.
func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

// Index returns the asset index, nil before BuildIndex has run.
func (a *App) Index() *Index {
	return a.index
}
