package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/logging"
	"github.com/mockbridge/mockd/openapi"
)

var errMissingOpenAPISpec = errors.New("missing openapi_spec")

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, s.Table.List())
	return nil
}

func (s *Server) handlePostEndpoint(w http.ResponseWriter, r *http.Request) error {
	var route mockd.Route
	if err := decodeJSON(r, &route); err != nil {
		return err
	}
	if err := s.Table.Insert(route); err != nil {
		return err
	}
	logging.Log().Info("route added", zap.String("method", route.Method), zap.String("path", route.Path))
	writeJSON(w, http.StatusOK, map[string]bool{"added": true})
	return nil
}

// handlePutEndpoint updates the route named by the request body's own
// (method, path). The same pair serves as both the lookup key and the
// identity of the stored result; SPEC_FULL.md's wire contract carries a
// single (method, path) per request, so identity-moving updates (which
// routetable.Table itself supports) aren't reachable through this
// endpoint — see DESIGN.md.
func (s *Server) handlePutEndpoint(w http.ResponseWriter, r *http.Request) error {
	var route mockd.Route
	if err := decodeJSON(r, &route); err != nil {
		return err
	}
	if route.Method == "" || route.Path == "" {
		return mockd.Invalid(fmt.Errorf("method and path are required"))
	}
	if err := s.Table.Update(route.Method, route.Path, route); err != nil {
		return err
	}
	logging.Log().Info("route updated", zap.String("method", route.Method), zap.String("path", route.Path))
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
	return nil
}

func (s *Server) handleDeleteEndpoint(w http.ResponseWriter, r *http.Request) error {
	var id mockd.Identity
	if err := decodeJSON(r, &id); err != nil {
		return err
	}
	removed := s.Table.Remove(id.Method, id.Path)
	logging.Log().Info("route removed", zap.String("method", id.Method), zap.String("path", id.Path), zap.Bool("found", removed))
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
	return nil
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, s.Log.Snapshot())
	return nil
}

func (s *Server) handleDeleteLogs(w http.ResponseWriter, r *http.Request) error {
	s.Log.Clear()
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	return nil
}

type importRequest struct {
	OpenAPISpec json.RawMessage `json:"openapi_spec"`
}

type importedEndpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

func (s *Server) handlePostImport(w http.ResponseWriter, r *http.Request) error {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	specBytes, err := openAPISpecOf(req.OpenAPISpec)
	if err != nil {
		return err
	}

	routes, err := openapi.Import(specBytes)
	if err != nil {
		return err
	}
	if err := s.Table.BulkReplace(routes); err != nil {
		return err
	}

	endpoints := make([]importedEndpoint, 0, len(routes))
	for _, rt := range routes {
		endpoints = append(endpoints, importedEndpoint{Method: rt.Method, Path: rt.Path, Status: rt.EffectiveStatus()})
	}
	logging.Log().Info("openapi spec imported", zap.Int("count", len(routes)))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported":  true,
		"count":     len(routes),
		"endpoints": endpoints,
	})
	return nil
}

func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) error {
	doc := openapi.Export(s.Table.List())
	writeJSON(w, http.StatusOK, doc)
	return nil
}

func (s *Server) handleGetProxy(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, s.Proxy.Snapshot())
	return nil
}

type proxyRequest struct {
	URL string `json:"url"`
}

func (s *Server) handlePostProxy(w http.ResponseWriter, r *http.Request) error {
	var req proxyRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := s.Proxy.Set(req.URL); err != nil {
		return err
	}
	logging.Log().Info("default proxy url set", zap.String("url", req.URL))
	writeJSON(w, http.StatusOK, map[string]interface{}{"proxy_url": req.URL, "enabled": true})
	return nil
}

func (s *Server) handleDeleteProxy(w http.ResponseWriter, r *http.Request) error {
	s.Proxy.Clear()
	logging.Log().Info("default proxy url cleared")
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return mockd.Invalid(fmt.Errorf("malformed request body: %w", err))
	}
	return nil
}
