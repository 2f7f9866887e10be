package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/caasmo/alabaster/config"
	"github.com/caasmo/alabaster/db"
	"github.com/caasmo/alabaster/db/zombiezen"
	"zombiezen.com/go/sqlite"
)

// Daemon consumes slog.Records from a channel and writes them to a DB in
// batches. It owns the channel and the database connection.
type Daemon struct {
	recordChan     chan slog.Record
	db             *sqlite.Conn
	opLogger       *slog.Logger
	configProvider *config.Provider

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

// New creates a new Daemon with its record channel sized from config.
func New(configProvider *config.Provider, opLogger *slog.Logger, conn *sqlite.Conn) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	if conn == nil {
		cancel()
		return nil, fmt.Errorf("logger daemon: database connection cannot be nil")
	}

	cfg := configProvider.Get()
	daemon := &Daemon{
		recordChan:     make(chan slog.Record, cfg.Log.Access.ChanSize),
		db:             conn,
		opLogger:       opLogger.With("daemon_component", "AccessLogDaemon"),
		configProvider: configProvider,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}
	return daemon, nil
}

// Chan returns the write-end of the channel and the daemon's context.
// The context can be used to check if the daemon is shutting down.
func (ld *Daemon) Chan() (chan<- slog.Record, context.Context) {
	return ld.recordChan, ld.ctx
}

func (ld *Daemon) Name() string {
	return "AccessLogDaemon"
}

// Start begins the daemon's log processing goroutine.
func (ld *Daemon) Start() error {
	ld.opLogger.Info("starting access log daemon")
	go ld.processLogs()
	return nil
}

// Stop gracefully shuts down the daemon, flushing what is buffered.
func (ld *Daemon) Stop(ctx context.Context) error {
	ld.opLogger.Info("stopping access log daemon")
	ld.cancel()

	select {
	case <-ld.shutdownDone:
		ld.opLogger.Info("access log daemon confirmed shutdown")
	case <-ctx.Done():
		ld.opLogger.Error("access log daemon shutdown timed out", "error", ctx.Err())
		return ctx.Err()
	}
	return nil
}

// prepareRecordForDB converts an slog.Record into a db.Log row. Attributes
// become a flat JSON object.
func (ld *Daemon) prepareRecordForDB(record slog.Record) (db.Log, error) {
	attrs := make(map[string]any, record.NumAttrs())
	record.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Resolve().Any()
		return true
	})

	jsonData, err := json.Marshal(attrs)
	if err != nil {
		return db.Log{}, fmt.Errorf("failed to marshal log attrs: %w", err)
	}

	return db.Log{
		Level:    int64(record.Level),
		Message:  record.Message,
		JsonData: string(jsonData),
		Created:  record.Time.UTC().Format(time.RFC3339Nano),
	}, nil
}

// processLogs is the internal goroutine that reads from the channel,
// prepares, and writes to the DB.
func (ld *Daemon) processLogs() {
	defer close(ld.shutdownDone)

	cfg := ld.configProvider.Get()
	ticker := time.NewTicker(cfg.Log.Access.FlushInterval.Duration)
	defer ticker.Stop()

	batch := make([]db.Log, 0, cfg.Log.Access.FlushSize)

	flushBatch := func(reason string) {
		if len(batch) == 0 {
			return
		}
		if err := zombiezen.InsertLogs(ld.db, batch); err != nil {
			ld.opLogger.Error("failed to write access log batch",
				"error", err, "batch_size", len(batch), "reason", reason)
		}
		batch = batch[:0]
	}

	for {
		select {
		case record := <-ld.recordChan:
			dbEntry, err := ld.prepareRecordForDB(record)
			if err != nil {
				ld.opLogger.Error("failed to prepare log record", "error", err)
				continue
			}
			batch = append(batch, dbEntry)
			if len(batch) >= cfg.Log.Access.FlushSize {
				flushBatch("batch_full")
			}

		case <-ticker.C:
			flushBatch("interval")

		case <-ld.ctx.Done():
			// Drain whatever is already queued, then flush and exit.
			for {
				select {
				case record := <-ld.recordChan:
					dbEntry, err := ld.prepareRecordForDB(record)
					if err != nil {
						continue
					}
					batch = append(batch, dbEntry)
				default:
					flushBatch("shutdown")
					return
				}
			}
		}
	}
}
