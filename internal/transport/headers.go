package transport

import (
	"net/http"

	"github.com/agentstation/rostermatch/pkg/constants"
)

// Decorator applies request-wide settings such as headers to HTTP requests.
type Decorator interface {
	Apply(req *http.Request)
}

// NoHeaders leaves requests untouched.
type NoHeaders struct{}

// Apply implements the Decorator interface for NoHeaders.
func (NoHeaders) Apply(_ *http.Request) {}

// HeaderSet sets a fixed set of headers on every request.
type HeaderSet map[string]string

// Apply implements the Decorator interface for HeaderSet.
func (h HeaderSet) Apply(req *http.Request) {
	for k, v := range h {
		req.Header.Set(k, v)
	}
}

// BrowserHeaders returns the header set the rating host expects from a
// browser. Requests without a Referer from the host itself are refused.
func BrowserHeaders(referer string) HeaderSet {
	return HeaderSet{
		"User-Agent":      constants.UserAgent,
		"Accept":          constants.AcceptHeader,
		"Accept-Language": constants.AcceptLanguage,
		"Referer":         referer,
	}
}
