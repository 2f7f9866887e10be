package router

import "net/http"

// Router is the routing surface of the wrapped application. The static layer
// never inspects it; it only delegates requests that match no asset.
type Router interface {
	http.Handler

	// Handle registers a GET handler for the given path.
	Handle(path string, handler http.Handler)

	// HandleFunc registers a GET handler func for the given path.
	HandleFunc(path string, handler func(http.ResponseWriter, *http.Request))
}
