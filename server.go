package mockd

import (
	"net/http"
	"strings"
)

// Engine owns the two sub-handlers that share a single listener: the
// Admin API under AdminPrefix, and the Dispatcher for everything else
// (§2). It is the http.Handler passed to http.Server.
type Engine struct {
	Admin      http.Handler
	Dispatcher http.Handler
}

// NewEngine wires admin and dispatch behind one mux, short-circuiting
// any path under AdminPrefix to admin before it ever reaches dispatch.
func NewEngine(admin, dispatcher http.Handler) *Engine {
	return &Engine{Admin: admin, Dispatcher: dispatcher}
}

func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, AdminPrefix) {
		http.StripPrefix(AdminPrefix, e.Admin).ServeHTTP(w, r)
		return
	}
	e.Dispatcher.ServeHTTP(w, r)
}
