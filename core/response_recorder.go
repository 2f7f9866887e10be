package core

import (
	"net/http"
	"time"
)

// ResponseRecorder captures status and size of a response as it streams
// through, for the logging and metrics middlewares further out in the chain.
type ResponseRecorder struct {
	http.ResponseWriter
	Status       int       // HTTP status code
	WroteHeader  bool      // whether headers were written
	BytesWritten int64     // total bytes written to response
	StartTime    time.Time // when the request started
}

// WriteHeader captures the status code and marks headers as written.
func (r *ResponseRecorder) WriteHeader(status int) {
	if !r.WroteHeader {
		r.Status = status
		r.WroteHeader = true
		r.ResponseWriter.WriteHeader(status)
	}
}

// Write captures bytes written and ensures headers are written first.
func (r *ResponseRecorder) Write(b []byte) (int, error) {
	if !r.WroteHeader {
		r.WriteHeader(http.StatusOK)
	}

	n, err := r.ResponseWriter.Write(b)
	r.BytesWritten += int64(n)
	return n, err
}

// Duration returns the time elapsed since the request started.
func (r *ResponseRecorder) Duration() time.Duration {
	return time.Since(r.StartTime)
}
