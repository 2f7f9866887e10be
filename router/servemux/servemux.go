package servemux

import (
	"net/http"

	"github.com/caasmo/alabaster/router"
)

// Implementation of the router interface backed by net/http ServeMux.
type Router struct {
	mux *http.ServeMux
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Handle(path string, handler http.Handler) {
	r.mux.Handle("GET "+path, handler)
}

func (r *Router) HandleFunc(path string, handler func(http.ResponseWriter, *http.Request)) {
	r.mux.HandleFunc("GET "+path, handler)
}

func New() router.Router {
	return &Router{mux: http.NewServeMux()}
}
