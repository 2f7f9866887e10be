package core

import (
	"fmt"
	"net/http"
	"os"
)

// Statics is the entry point of the static layer: a middleware that answers
// requests for indexed assets and hands everything else to the wrapped
// application, untouched and exactly once.
//
// It keeps no per-request state; the shared Index is read-only (eager mode)
// or internally synchronized (lazy mode), so one Statics value serves any
// number of concurrent requests.
type Statics struct {
	app *App
}

// NewStatics builds the asset index for the app's configuration and returns
// the middleware. Index build failures are startup failures.
func NewStatics(app *App) (*Statics, error) {
	if app.fsys == nil {
		app.fsys = os.DirFS(app.Config().Static.RootDir)
	}

	index, err := NewIndex(app)
	if err != nil {
		return nil, fmt.Errorf("statics: %w", err)
	}
	app.index = index

	return &Statics{app: app}, nil
}

// Execute wraps the next handler. An index hit short-circuits into the
// response builder; a miss delegates to next. Traversal attempts look like
// misses on the wire.
func (s *Statics) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asset := s.app.Index().Lookup(r.URL.Path)
		if asset == nil {
			next.ServeHTTP(w, r)
			return
		}
		s.serve(w, r, asset)
	})
}
