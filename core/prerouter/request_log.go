package prerouter

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/caasmo/alabaster/core"
)

const logMessage = "http_request"

// Cached common log attributes
var logType = slog.String("type", "request")

// RemoteIP returns the normalized IP address from the request.
func RemoteIP(r *http.Request) string {
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	parsed, err := netip.ParseAddr(ip)
	if err != nil {
		return ip // fallback to original if parsing fails
	}
	return parsed.StringExpanded()
}

// cutStr limits string length by adding ellipsis if needed
func cutStr(str string, max int) string {
	if len(str) > max {
		return str[:max] + "..."
	}
	return str
}

// RequestLog is middleware that logs HTTP request details. With the access
// log daemon wired in, these records end up batched in SQLite; otherwise
// they go wherever the app logger points.
type RequestLog struct {
	app    *core.App
	logger *slog.Logger
}

// NewRequestLog creates a new request logging middleware instance. The
// logger is typically backed by log.BatchHandler; nil falls back to the
// app's operational logger.
func NewRequestLog(app *core.App, logger *slog.Logger) *RequestLog {
	if logger == nil {
		logger = app.Logger()
	}
	return &RequestLog{app: app, logger: logger}
}

// Execute wraps the next handler with request logging.
func (rl *RequestLog) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.app.Config().Log.Access.Activated {
			next.ServeHTTP(w, r)
			return
		}

		rec, ok := w.(*core.ResponseRecorder)
		if !ok {
			rec = &core.ResponseRecorder{
				ResponseWriter: w,
				Status:         http.StatusOK,
				StartTime:      time.Now(),
			}
		}

		next.ServeHTTP(rec, r)

		rl.logger.LogAttrs(r.Context(), slog.LevelInfo, logMessage,
			logType,
			slog.String("method", strings.ToUpper(r.Method)),
			slog.String("uri", cutStr(r.URL.RequestURI(), 512)),
			slog.Int("status", rec.Status),
			slog.Int64("bytes", rec.BytesWritten),
			slog.String("duration", rec.Duration().String()),
			slog.String("remote_ip", cutStr(RemoteIP(r), 64)),
			slog.String("user_agent", cutStr(r.UserAgent(), 256)),
			slog.String("referer", cutStr(r.Referer(), 512)),
			slog.String("proto", r.Proto),
		)
	})
}
