// Package mockd holds the types shared across the engine: the Route
// record, its JSON wire shape, and the domain error kinds every component
// reports through.
package mockd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AdminPrefix is the reserved path namespace for the admin API. No Route
// may be registered under it, and the Dispatcher never sees it.
const AdminPrefix = "/__mock"

// MaxLogEntries bounds the Request Log (§6).
const MaxLogEntries = 1000

// Supported route methods, per the data model (§3).
var validMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// ValidMethod reports whether m is one of the methods a Route may use.
func ValidMethod(m string) bool {
	return validMethods[m]
}

// Route is a canned response or proxy target addressed by (Method, Path).
type Route struct {
	Method   string            `json:"method"`
	Path     string            `json:"path"`
	Response json.RawMessage   `json:"response,omitempty"`
	Status   int               `json:"status,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
	ProxyURL string            `json:"proxy_url,omitempty"`
}

// Identity is the (Method, Path) pair that uniquely names a Route.
type Identity struct {
	Method string
	Path   string
}

// ID returns the Route's identity.
func (r Route) ID() Identity {
	return Identity{Method: r.Method, Path: r.Path}
}

// EffectiveStatus returns the Route's status, defaulting to 200.
func (r Route) EffectiveStatus() int {
	if r.Status == 0 {
		return 200
	}
	return r.Status
}

// HasResponse reports whether the Route carries a usable canned response,
// including an explicit JSON null.
func (r Route) HasResponse() bool {
	return len(r.Response) > 0
}

// HasProxy reports whether the Route forwards instead of, or ahead of,
// mocking.
func (r Route) HasProxy() bool {
	return r.ProxyURL != ""
}

// Validate enforces the Route Table's insertion-time invariants (§3, §4.1):
// method must be one of the supported verbs, path must be absolute and
// outside the admin namespace, and the route must carry a response or a
// proxy target.
func (r Route) Validate() error {
	if !ValidMethod(r.Method) {
		return NewError(KindInvalid, fmt.Errorf("unsupported method %q", r.Method))
	}
	if !strings.HasPrefix(r.Path, "/") {
		return NewError(KindInvalid, fmt.Errorf("path %q must be absolute", r.Path))
	}
	if strings.HasPrefix(r.Path, AdminPrefix) {
		return NewError(KindInvalid, fmt.Errorf("path %q is reserved for the admin API", r.Path))
	}
	if !r.HasResponse() && !r.HasProxy() {
		return NewError(KindInvalid, fmt.Errorf("route %s %s must set response or proxy_url", r.Method, r.Path))
	}
	return nil
}
