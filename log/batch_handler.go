package log

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/caasmo/alabaster/config"
)

// BatchHandler is a lightweight slog.Handler that sends records to a channel
// for batched processing by the Daemon. The request path never blocks on the
// database: a full channel drops the record with an error.
type BatchHandler struct {
	configProvider *config.Provider   // for dynamic log levels
	recordChan     chan<- slog.Record // write-end of the channel, provided by Daemon
	daemonCtx      context.Context    // context from daemon for shutdown detection
	attrs          []slog.Attr
}

// NewBatchHandler creates a new BatchHandler. All parameters are required.
func NewBatchHandler(configProvider *config.Provider, recordChan chan<- slog.Record, daemonCtx context.Context) *BatchHandler {
	if configProvider == nil {
		panic("batchhandler: configProvider cannot be nil")
	}
	if recordChan == nil {
		panic("batchhandler: recordChan cannot be nil")
	}
	if daemonCtx == nil {
		panic("batchhandler: daemonCtx cannot be nil")
	}

	return &BatchHandler{
		configProvider: configProvider,
		recordChan:     recordChan,
		daemonCtx:      daemonCtx,
		attrs:          []slog.Attr{},
	}
}

// Enabled consults the config provider so the level can change at runtime
// without recreating the handler.
func (h *BatchHandler) Enabled(_ context.Context, level slog.Level) bool {
	conf := h.configProvider.Get()
	return level >= conf.Log.Access.Level.Level
}

// Handle sends the record to the buffered channel without blocking. The
// daemon context is checked first since select evaluation order is random.
func (h *BatchHandler) Handle(_ context.Context, r slog.Record) error {
	if h.daemonCtx.Err() != nil {
		return fmt.Errorf("daemon shutting down, dropping log record")
	}

	if len(h.attrs) > 0 {
		r.AddAttrs(h.attrs...)
	}

	select {
	case h.recordChan <- r:
		return nil
	default:
		return fmt.Errorf("log channel full, dropping record")
	}
}

// WithAttrs returns a new handler that adds the given attributes to every
// record it handles.
func (h *BatchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	return &BatchHandler{
		configProvider: h.configProvider,
		recordChan:     h.recordChan,
		daemonCtx:      h.daemonCtx,
		attrs:          merged,
	}
}

// WithGroup is accepted but flattened; the access log schema is a single
// level of attributes.
func (h *BatchHandler) WithGroup(name string) slog.Handler {
	return h
}
