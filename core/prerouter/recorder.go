package prerouter

import (
	"net/http"
	"time"

	"github.com/caasmo/alabaster/core"
)

type Recorder struct {
	app *core.App
}

func NewRecorder(app *core.App) *Recorder {
	return &Recorder{app: app}
}

// Execute installs the shared response recorder at the beginning of the
// chain so the observing middlewares further in see status and size.
func (rec *Recorder) Execute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &core.ResponseRecorder{
			ResponseWriter: w,
			Status:         http.StatusOK, // default for implicit success
			StartTime:      time.Now(),
		}
		next.ServeHTTP(recorder, r)
	})
}
