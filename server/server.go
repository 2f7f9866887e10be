package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caasmo/alabaster/config"
	"golang.org/x/sync/errgroup"
)

// Daemon is a background component tied to the server's lifecycle, like the
// access log writer. Start must not block; Stop must respect the context
// deadline.
type Daemon interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	daemons        []Daemon
	logger         *slog.Logger

	// reloadFunc runs on SIGHUP. Typically re-reads the config file and
	// swaps the provider's snapshot.
	reloadFunc func() error

	// exitFunc is os.Exit, replaceable in tests.
	exitFunc func(code int)
}

func NewServer(provider *config.Provider, handler http.Handler, logger *slog.Logger, reloadFunc func() error) *Server {
	return &Server{
		configProvider: provider,
		handler:        handler,
		logger:         logger,
		reloadFunc:     reloadFunc,
		exitFunc:       os.Exit,
	}
}

// AddDaemon registers a daemon to be started with the server and stopped
// during graceful shutdown. Must be called before Run.
func (s *Server) AddDaemon(d Daemon) {
	s.daemons = append(s.daemons, d)
}

// Run starts the HTTP server and all registered daemons, then blocks until
// a termination signal or a server error triggers graceful shutdown. SIGHUP
// does not terminate; it invokes the reload func.
func (s *Server) Run() {
	cfg := s.configProvider.Get().Server

	s.logger.Info("Server configuration",
		"addr", cfg.Addr,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("ListenAndServe error", "err", err)
			serverError <- err
		}
	}()

	started := make([]Daemon, 0, len(s.daemons))
	daemonsOK := true
	for _, d := range s.daemons {
		if err := d.Start(); err != nil {
			s.logger.Error("Daemon failed to start", "daemon", d.Name(), "err", err)
			daemonsOK = false
			break
		}
		started = append(started, d)
	}

	if !daemonsOK {
		s.shutdown(srv, started, cfg.ShutdownGracefulTimeout.Duration, 1)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGHUP,  // reload
		syscall.SIGINT,  // kill -SIGINT XXXX or Ctrl+c
		syscall.SIGQUIT, // kill -SIGQUIT XXXX
		syscall.SIGTERM, // e.g. systemd stop
	)
	defer signal.Stop(sigChan)

	exitCode := 0
	for running := true; running; {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				s.logger.Info("Received SIGHUP - reloading configuration")
				if err := s.reloadFunc(); err != nil {
					s.logger.Error("Configuration reload failed", "err", err)
				}
				continue
			}
			s.logger.Info("Received shutdown signal - gracefully shutting down", "signal", sig)
			running = false
		case err := <-serverError:
			s.logger.Error("Server error - initiating shutdown", "err", err)
			exitCode = 1
			running = false
		}
	}

	s.shutdown(srv, started, cfg.ShutdownGracefulTimeout.Duration, exitCode)
}

// shutdown stops the HTTP server and the started daemons concurrently,
// bounded by the graceful timeout, and exits the process.
func (s *Server) shutdown(srv *http.Server, daemons []Daemon, timeout time.Duration, exitCode int) {
	gracefulCtx, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	shutdownGroup, _ := errgroup.WithContext(gracefulCtx)

	shutdownGroup.Go(func() error {
		s.logger.Info("Shutting down HTTP server")
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "err", err)
			return err
		}
		s.logger.Info("HTTP server stopped gracefully")
		return nil
	})

	for _, d := range daemons {
		shutdownGroup.Go(func() error {
			s.logger.Info("Shutting down daemon", "daemon", d.Name())
			if err := d.Stop(gracefulCtx); err != nil {
				s.logger.Error("Daemon shutdown error", "daemon", d.Name(), "err", err)
				return err
			}
			s.logger.Info("Daemon stopped gracefully", "daemon", d.Name())
			return nil
		})
	}

	if err := shutdownGroup.Wait(); err != nil {
		s.logger.Error("Error during shutdown", "err", err)
		if exitCode == 0 {
			exitCode = 1
		}
	} else {
		s.logger.Info("All systems stopped gracefully")
	}

	s.exitFunc(exitCode)
}
