package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mockbridge/mockd"
)

// Import parses data as either JSON or YAML and converts every
// (path, operation) pair under "paths" into a Route. Operations missing
// a usable 2xx response block still yield a Route with status 200 and an
// empty object body (§4.6).
func Import(data []byte) ([]mockd.Route, error) {
	tree, err := parseTree(data)
	if err != nil {
		return nil, mockd.Invalid(fmt.Errorf("parsing openapi document: %w", err))
	}

	paths, _ := tree["paths"].(map[string]interface{})
	if paths == nil {
		return nil, mockd.Invalid(fmt.Errorf("openapi document has no usable \"paths\" object"))
	}

	// Deterministic path iteration keeps import reproducible even though
	// duplicate (method, path) pairs can't occur from a single decoded
	// map; the sort only affects which route "wins" when two literal
	// path strings normalize to the same thing isn't a concern here, but
	// it does make error messages and test fixtures stable.
	pathKeys := make([]string, 0, len(paths))
	for p := range paths {
		pathKeys = append(pathKeys, p)
	}
	sort.Strings(pathKeys)

	routes := make([]mockd.Route, 0, len(pathKeys))
	for _, path := range pathKeys {
		item, ok := paths[path].(map[string]interface{})
		if !ok {
			continue
		}
		for _, method := range orderedMethods {
			opRaw, ok := item[method]
			if !ok {
				continue
			}
			op, ok := opRaw.(map[string]interface{})
			if !ok {
				continue
			}
			route, err := routeFromOperation(method, path, op)
			if err != nil {
				return nil, err
			}
			routes = append(routes, route)
		}
	}
	return routes, nil
}

// parseTree converges JSON or YAML input on a common
// map[string]interface{} tree. JSON is tried first and YAML only if JSON fails,
// since valid JSON is also valid YAML but the reverse isn't guaranteed,
// and JSON is the overwhelmingly more common case in practice.
func parseTree(data []byte) (map[string]interface{}, error) {
	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err == nil {
		return tree, nil
	}

	var yamlTree map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlTree); err != nil {
		return nil, fmt.Errorf("not valid JSON or YAML: %w", err)
	}
	return yamlTree, nil
}

// routeFromOperation builds the Route for a single (method, path,
// operation) triple, per the status- and body-selection rules of §4.6.
func routeFromOperation(method, path string, op map[string]interface{}) (mockd.Route, error) {
	status, body := selectResponse(op)

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return mockd.Route{}, mockd.Invalid(fmt.Errorf("encoding example for %s %s: %w", method, path, err))
	}

	return mockd.Route{
		Method:   strings.ToUpper(method),
		Path:     path,
		Status:   status,
		Response: bodyJSON,
	}, nil
}

// selectResponse picks the lowest-numbered 2xx response under
// "responses" and returns its status plus the example body found at
// content."application/json".example, defaulting to (200, {}) when no
// matching response block exists.
func selectResponse(op map[string]interface{}) (int, interface{}) {
	responses, _ := op["responses"].(map[string]interface{})

	best := 0
	for key := range responses {
		code, err := strconv.Atoi(key)
		if err != nil || code < 200 || code > 299 {
			continue
		}
		if best == 0 || code < best {
			best = code
		}
	}
	if best == 0 {
		return 200, map[string]interface{}{}
	}

	respBlock, _ := responses[strconv.Itoa(best)].(map[string]interface{})
	content, _ := respBlock["content"].(map[string]interface{})
	jsonMedia, _ := content["application/json"].(map[string]interface{})
	if example, ok := jsonMedia["example"]; ok {
		return best, example
	}
	return best, map[string]interface{}{}
}
