package middlewares

import "net/http"

// ApplyMiddlewares wraps h so that the first middleware is the outermost.
func ApplyMiddlewares(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
