package httputil

import "net/http"

// Allowed method sets per route group.
const (
	MethodsChat        = "GET,POST,OPTIONS"
	MethodsStaticModel = "GET,POST,PUT,DELETE,OPTIONS"
	MethodsThread      = "GET,DELETE,OPTIONS"
	MethodsHealth      = "GET,OPTIONS"
	MethodsDefault     = "GET,POST,PUT,DELETE,OPTIONS"
)

// AllowedHeaders is the fixed request header allow-list.
const AllowedHeaders = "Content-Type, Authorization"

// CORSHeaders is the header set stamped on responses.
type CORSHeaders struct {
	// AllowOrigin is written as Access-Control-Allow-Origin. Empty leaves the
	// origin header to the outer CORS handler.
	AllowOrigin string
	Methods     string
}

// Apply sets the headers on h, replacing any earlier values.
func (c CORSHeaders) Apply(h http.Header) {
	if c.AllowOrigin != "" {
		h.Set("Access-Control-Allow-Origin", c.AllowOrigin)
	}
	h.Set("Access-Control-Allow-Methods", c.Methods)
	h.Set("Access-Control-Allow-Headers", AllowedHeaders)
}

// WithMethods returns a copy with a different method set.
func (c CORSHeaders) WithMethods(methods string) CORSHeaders {
	c.Methods = methods
	return c
}

// Middleware stamps the headers before next runs, so every response path
// carries them, and answers OPTIONS with 204.
func (c CORSHeaders) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.Apply(w.Header())
		if r.Method == http.MethodOptions {
			RespondNoContent(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
