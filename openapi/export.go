package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mockbridge/mockd"
)

// Export builds the fixed-preamble OpenAPI document for routes, per
// §4.6. Headers and ProxyURL are intentionally not encoded — the
// round-trip property only covers (method, path, status, response).
func Export(routes []mockd.Route) Document {
	doc := Document{
		OpenAPI: "3.0.0",
		Info: Info{
			Title:       "Mock API",
			Description: "Exported from mock server",
			Version:     "1.0.0",
		},
		Paths: make(map[string]PathItem),
	}

	for _, r := range routes {
		item := doc.Paths[r.Path]
		op := operationFor(r)
		switch strings.ToUpper(r.Method) {
		case "GET":
			item.Get = op
		case "POST":
			item.Post = op
		case "PUT":
			item.Put = op
		case "PATCH":
			item.Patch = op
		case "DELETE":
			item.Delete = op
		default:
			continue
		}
		doc.Paths[r.Path] = item
	}
	return doc
}

func operationFor(r mockd.Route) *Operation {
	status := r.EffectiveStatus()
	method := strings.ToLower(r.Method)
	body := r.Response
	if len(body) == 0 {
		body = []byte("{}")
	}

	return &Operation{
		Summary:     fmt.Sprintf("%s %s", strings.ToUpper(r.Method), r.Path),
		OperationID: operationID(method, r.Path),
		Responses: map[string]Response{
			strconv.Itoa(status): {
				Description: fmt.Sprintf("Successful response with status %d", status),
				Content: map[string]MediaType{
					"application/json": {
						Example: body,
						Schema:  Schema{Type: "object"},
					},
				},
			},
		},
	}
}

// operationID builds "<method>_<path_with_slashes_as_underscores>",
// e.g. get_api_users (§4.6).
func operationID(method, path string) string {
	trimmed := strings.Trim(path, "/")
	slug := strings.ReplaceAll(trimmed, "/", "_")
	if slug == "" {
		return method
	}
	return method + "_" + slug
}
