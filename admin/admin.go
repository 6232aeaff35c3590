// Package admin implements the HTTP admin API under the reserved
// /__mock prefix (SPEC_FULL.md §4.7, §6). Handlers are grounded on the
// teacher's AdminHandlerFunc / APIError pattern in admin.go: every
// handler returns an error instead of writing one directly, and a single
// wrapper translates domain errors to the wire shapes of §7.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/logging"
	"github.com/mockbridge/mockd/proxyconfig"
	"github.com/mockbridge/mockd/requestlog"
	"github.com/mockbridge/mockd/routetable"
)

// Server holds the components the admin API mutates and reads.
type Server struct {
	Table *routetable.Table
	Proxy *proxyconfig.Config
	Log   *requestlog.Log
}

// New wires a Server over the given components.
func New(table *routetable.Table, proxy *proxyconfig.Config, log *requestlog.Log) *Server {
	return &Server{Table: table, Proxy: proxy, Log: log}
}

// handlerFunc is the admin equivalent of http.HandlerFunc: it returns an
// error instead of writing one, so the error-to-status mapping of §7
// lives in exactly one place (wrap, via writeError and mapAdminError below).
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// Router builds the chi router serving every path in the admin table
// (§6). Mounted under mockd.AdminPrefix by the caller.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/config", s.wrap(s.handleGetConfig))
	r.Post("/endpoints", s.wrap(s.handlePostEndpoint))
	r.Put("/endpoints", s.wrap(s.handlePutEndpoint))
	r.Delete("/endpoints", s.wrap(s.handleDeleteEndpoint))
	r.Get("/logs", s.wrap(s.handleGetLogs))
	r.Delete("/logs", s.wrap(s.handleDeleteLogs))
	r.Post("/import", s.wrap(s.handlePostImport))
	r.Get("/export", s.wrap(s.handleGetExport))
	r.Get("/proxy", s.wrap(s.handleGetProxy))
	r.Post("/proxy", s.wrap(s.handlePostProxy))
	r.Delete("/proxy", s.wrap(s.handleDeleteProxy))
	r.Get("/healthz", s.wrap(s.handleHealthz))

	return r
}

// writeError maps a domain error to the JSON body shapes of §7. Unlike
// the dispatch-path mapping, admin errors carry fixed, generic messages
// for NotFound/Conflict/Internal; Invalid echoes the underlying reason in
// "error", and BadGateway echoes it in "details".
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := mapAdminError(err)

	logging.Log().Warn("admin request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	writeJSON(w, status, body)
}

func mapAdminError(err error) (int, map[string]string) {
	switch mockd.KindOf(err) {
	case mockd.KindInvalid:
		return http.StatusBadRequest, map[string]string{"error": err.Error()}
	case mockd.KindNotFound:
		return http.StatusNotFound, map[string]string{"error": "Endpoint not found"}
	case mockd.KindConflict:
		return http.StatusConflict, map[string]string{"error": "Endpoint already exists"}
	case mockd.KindBadGateway:
		return http.StatusBadGateway, map[string]string{"error": "Proxy request failed", "details": err.Error()}
	default:
		return http.StatusInternalServerError, map[string]string{"error": "Internal server error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// openAPISpecOf extracts the raw spec document bytes from the
// openapi_spec field of an import request body, accepting either an
// embedded JSON object/array or a JSON string containing YAML text.
func openAPISpecOf(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, mockd.Invalid(errMissingOpenAPISpec)
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, mockd.Invalid(err)
		}
		return []byte(text), nil
	}
	return raw, nil
}
