package alabaster

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/caasmo/alabaster/cache/ristretto"
	"github.com/caasmo/alabaster/config"
	"github.com/caasmo/alabaster/core"
	"github.com/caasmo/alabaster/core/prerouter"
	"github.com/caasmo/alabaster/db/zombiezen"
	"github.com/caasmo/alabaster/log"
	"github.com/caasmo/alabaster/router"
	"github.com/caasmo/alabaster/server"
)

// New assembles a ready-to-run application from a TOML config file: the core
// App, the asset index, the middleware chain, and a Server owning the
// lifecycle of both the HTTP listener and the access log daemon.
//
// The chain, outermost first: recorder, metrics, hot assets, request log,
// statics, and finally the app's router for everything that is not an asset.
func New(configPath string, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	configProvider := config.NewProvider(cfg)

	allOpts := []core.Option{core.WithConfigProvider(configProvider)}
	allOpts = append(allOpts, opts...)

	app, err := core.NewApp(allOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize core app: %w", err)
	}

	// Lazy indexing needs a cache; give it one unless the caller brought
	// their own.
	if cfg.Static.IndexMode == config.IndexModeLazy && app.Cache() == nil {
		c, err := ristretto.New[*core.Asset]()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create asset cache: %w", err)
		}
		app.SetCache(c)
	}

	if app.Router() == nil {
		WithRouterServeMux()(app)
	}

	statics, err := core.NewStatics(app)
	if err != nil {
		return nil, nil, err
	}

	// The access logger feeds the batching daemon when activated; otherwise
	// request logs share the operational logger.
	var accessLogger *slog.Logger
	var logDaemon *log.Daemon
	if cfg.Log.Access.Activated {
		conn, err := zombiezen.NewConn(cfg.Log.Access.DbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open access log db: %w", err)
		}
		logDaemon, err = log.New(configProvider, app.Logger(), conn)
		if err != nil {
			return nil, nil, err
		}
		recordChan, daemonCtx := logDaemon.Chan()
		accessLogger = slog.New(log.NewBatchHandler(configProvider, recordChan, daemonCtx))
	}

	chain := newChain(app, statics, accessLogger)

	reload := func() error {
		fresh, err := config.Load(configPath)
		if err != nil {
			return err
		}
		configProvider.Update(fresh)
		app.Logger().Info("configuration reloaded", "path", configPath)
		return nil
	}

	srv := server.NewServer(configProvider, chain, app.Logger(), reload)
	if logDaemon != nil {
		srv.AddDaemon(logDaemon)
	}

	return app, srv, nil
}

// newChain stacks the observing middlewares around the static layer and the
// app's router. Recorder runs first so everything behind it sees status and
// size; statics runs last so delegated requests reach the router untouched.
func newChain(app *core.App, statics *core.Statics, accessLogger *slog.Logger) http.Handler {
	recorder := prerouter.NewRecorder(app)
	metrics := prerouter.NewMetrics(app, prerouter.MetricsOpts{})
	hotAssets := prerouter.NewHotAssets(app)
	requestLog := prerouter.NewRequestLog(app, accessLogger)

	return router.NewChain(app.Router()).
		WithMiddleware(
			recorder.Execute,
			metrics.Execute,
			hotAssets.Execute,
			requestLog.Execute,
			statics.Execute,
		).
		Handler()
}
