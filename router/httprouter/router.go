package httprouter

import (
	"net/http"

	"github.com/caasmo/alabaster/router"
	jshttprouter "github.com/julienschmidt/httprouter"
)

// Implementation of the router interface backed by julienschmidt/httprouter.
type Router struct {
	rt *jshttprouter.Router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

func (r *Router) Handle(path string, handler http.Handler) {
	r.rt.Handler("GET", path, handler)
}

func (r *Router) HandleFunc(path string, handler func(http.ResponseWriter, *http.Request)) {
	r.rt.Handle("GET", path, func(w http.ResponseWriter, req *http.Request, _ jshttprouter.Params) {
		handler(w, req)
	})
}

func New() router.Router {
	return &Router{rt: jshttprouter.New()}
}
