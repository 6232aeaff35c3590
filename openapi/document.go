// Package openapi implements the bidirectional translation between
// OpenAPI 3.0 documents and the engine's Route set, described in
// SPEC_FULL.md §4.6. Import accepts either JSON or YAML and converges on
// a common generic tree before walking it; Export always produces a
// fixed, deterministically-ordered JSON document.
package openapi

import "encoding/json"

// Document is the fixed shape Export produces. Field declaration order
// controls JSON marshal order for PathItem's operations (get, post, put,
// patch, delete) exactly as SPEC_FULL.md §4.6 requires; map key order for
// Paths is handled by encoding/json's own lexicographic sort of string
// map keys, which happens to match the required "lexicographic on path"
// ordering without any extra bookkeeping.
type Document struct {
	OpenAPI string              `json:"openapi"`
	Info    Info                `json:"info"`
	Paths   map[string]PathItem `json:"paths"`
}

// Info is the fixed preamble metadata (§4.6).
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// PathItem holds at most one Operation per supported method. Pointer
// fields with omitempty mean a path with only a GET produces a document
// with only a "get" key, nothing else.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Patch  *Operation `json:"patch,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation describes one method on one path.
type Operation struct {
	Summary     string              `json:"summary"`
	OperationID string              `json:"operationId"`
	Responses   map[string]Response `json:"responses"`
}

// Response is one entry under an Operation's "responses" map.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType is one entry under a Response's "content" map.
type MediaType struct {
	Example json.RawMessage `json:"example,omitempty"`
	Schema  Schema          `json:"schema"`
}

// Schema is a deliberately minimal schema object; SPEC_FULL.md's
// Non-goals exclude schema-level request validation, so Export never
// needs to describe anything beyond "this is a JSON object".
type Schema struct {
	Type string `json:"type"`
}

// orderedMethods is the fixed operation order used both by Export (field
// declaration order on PathItem mirrors this) and documented here for
// anything that needs to iterate methods in the same order, such as
// import's last-write-wins walk.
var orderedMethods = []string{"get", "post", "put", "patch", "delete"}
