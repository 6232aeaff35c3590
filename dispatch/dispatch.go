// Package dispatch implements the four-way request-dispatch state
// machine of SPEC_FULL.md §4.5: for every request outside the admin
// prefix, classify it as a route-proxy, a mock, a default-proxy, or a
// not-found, execute that classification, and append a Request Log
// entry before the response is flushed. The branch order here is
// authoritative and must not be reordered (§9).
package dispatch

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/forwarder"
	"github.com/mockbridge/mockd/logging"
	"github.com/mockbridge/mockd/metrics"
	"github.com/mockbridge/mockd/proxyconfig"
	"github.com/mockbridge/mockd/requestlog"
	"github.com/mockbridge/mockd/routetable"
)

// Dispatcher is the http.Handler for every non-admin path.
type Dispatcher struct {
	Table     *routetable.Table
	Proxy     *proxyconfig.Config
	Forwarder *forwarder.Forwarder
	Log       *requestlog.Log
}

// New wires a Dispatcher over the given components.
func New(table *routetable.Table, proxy *proxyconfig.Config, fwd *forwarder.Forwarder, log *requestlog.Log) *Dispatcher {
	return &Dispatcher{Table: table, Proxy: proxy, Forwarder: fwd, Log: log}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry := requestlog.NewEntry()
	entry.Method = r.Method
	entry.Path = r.URL.Path
	entry.Query = r.URL.RawQuery
	entry.RequestHeaders = flattenHeader(r.Header)

	reqBody, _ := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(reqBody))
	entry.RequestBody = requestBodyForLog(r.Header.Get("Content-Type"), reqBody)

	route, found := d.Table.Lookup(r.Method, r.URL.Path)

	switch {
	case found && route.HasProxy():
		d.proxyVia(w, r, route.ProxyURL, &entry, metrics.OutcomeProxyRoute)
		entry.MatchedEndpoint = route.Method + " " + route.Path

	case found:
		d.mock(w, route, &entry)

	case d.Proxy.Enabled():
		base, _ := d.Proxy.Get()
		d.proxyVia(w, r, base, &entry, metrics.OutcomeProxyDefault)

	default:
		d.notFound(w, r.URL.Path, &entry)
	}

	entry.DurationMS = time.Since(start).Milliseconds()
	d.Log.Append(entry)
}

// mock serves the Route's canned response: status, headers (defaulting
// Content-Type to application/json when the Route doesn't set one,
// compared case-insensitively), and the JSON-serialized response body.
func (d *Dispatcher) mock(w http.ResponseWriter, route mockd.Route, entry *requestlog.Entry) {
	headers := map[string]string{}
	for k, v := range route.Headers {
		headers[k] = v
	}
	if !hasContentType(headers) {
		headers["Content-Type"] = "application/json"
	}
	for k, v := range headers {
		w.Header().Set(k, v)
	}

	body := route.Response
	if len(body) == 0 {
		body = json.RawMessage("null")
	}

	status := route.EffectiveStatus()
	w.WriteHeader(status)
	w.Write(body)

	entry.MatchedEndpoint = route.Method + " " + route.Path
	entry.Status = status
	entry.ResponseHeaders = headers
	entry.ResponseBody = body
	metrics.DispatchTotal.WithLabelValues(metrics.OutcomeMock).Inc()
}

// proxyVia forwards r to baseURL and relays the upstream response
// verbatim. On forwarder failure, it synthesizes the 502 BadGateway body
// of §4.4/§7 instead of crashing the handler goroutine.
func (d *Dispatcher) proxyVia(w http.ResponseWriter, r *http.Request, baseURL string, entry *requestlog.Entry, outcome string) {
	result, err := d.Forwarder.Forward(r, baseURL)
	if err != nil {
		logging.Log().Warn("proxy request failed",
			zap.String("base_url", baseURL),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		status, body := http.StatusBadGateway, mustJSON(map[string]string{
			"error":   "Proxy request failed",
			"details": err.Error(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)

		entry.Status = status
		entry.ResponseHeaders = map[string]string{"Content-Type": "application/json"}
		entry.ResponseBody = body
		metrics.DispatchTotal.WithLabelValues(outcome).Inc()
		return
	}

	for k, vals := range result.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(result.Status)
	w.Write(result.Body)

	entry.ProxiedTo = result.TookURL
	entry.Status = result.Status
	entry.ResponseHeaders = flattenHeader(result.Header)
	entry.ResponseBody = responseBodyForLog(result.Header.Get("Content-Type"), result.Body)
	metrics.DispatchTotal.WithLabelValues(outcome).Inc()
}

func (d *Dispatcher) notFound(w http.ResponseWriter, path string, entry *requestlog.Entry) {
	body := mustJSON(map[string]string{"error": "Not found", "path": path})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write(body)

	entry.Status = http.StatusNotFound
	entry.ResponseHeaders = map[string]string{"Content-Type": "application/json"}
	entry.ResponseBody = body
	metrics.DispatchTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
}

func hasContentType(headers map[string]string) bool {
	for k := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return true
		}
	}
	return false
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func isJSONContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "application/json")
}

// requestBodyForLog parses the request body as JSON when the
// content-type claims JSON and the body is non-empty, else omits it
// entirely (§3).
func requestBodyForLog(contentType string, raw []byte) json.RawMessage {
	if len(raw) == 0 || !isJSONContentType(contentType) || !json.Valid(raw) {
		return nil
	}
	return json.RawMessage(raw)
}

// responseBodyForLog parses the upstream response body as JSON when its
// content-type claims JSON, otherwise records it as a JSON string (§9).
func responseBodyForLog(contentType string, raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	if isJSONContentType(contentType) && json.Valid(raw) {
		return json.RawMessage(raw)
	}
	return mustJSON(string(raw))
}

func mustJSON(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
