package router

import (
	"net/http"
)

type Chain struct {
	handler     http.Handler
	middlewares []func(http.Handler) http.Handler
}

// NewChain creates a new Chain instance with the base handler and initialized
// middlewares slice.
func NewChain(h http.Handler) *Chain {
	if h == nil {
		panic("chain handler cannot be nil")
	}
	return &Chain{
		handler:     h,
		middlewares: make([]func(http.Handler) http.Handler, 0),
	}
}

// WithMiddleware adds one or more middlewares to the chain.
// Middlewares execute in the order they are defined, from left to right.
// For example:
//
//	.WithMiddleware(mw1, mw2, mw3)
//
// Will execute as:
// 1. mw1 (first middleware runs first)
// 2. mw2
// 3. mw3
// 4. Handler
//
// This follows the same semantics as popular middleware chaining packages like
// Alice (github.com/justinas/alice) where the first middleware in the chain
// is the outermost handler that runs first.
func (r *Chain) WithMiddleware(middlewares ...func(http.Handler) http.Handler) *Chain {
	for _, mw := range middlewares {
		r.middlewares = append([]func(http.Handler) http.Handler{mw}, r.middlewares...)
	}
	return r
}

// Handler returns the final handler with all middlewares applied.
func (r *Chain) Handler() http.Handler {
	handler := r.handler
	for _, mw := range r.middlewares {
		handler = mw(handler)
	}
	return handler
}
