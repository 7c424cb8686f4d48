package routes

import (
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/devops-learning/internal/http/v1/devops"
)

// Options carries per-handler settings resolved from configuration.
type Options struct {
	Devops devops.Options
}

// Route is one registered (method, path) pair and the operation serving it.
type Route struct {
	Method      string
	Path        string
	OperationID string
}

// Register wires all API routes into the provided router. Every mapping is
// listed here explicitly.
func Register(api huma.API, opts Options) {
	devops.Register(api, opts.Devops)
}

// Table lists the operations in the API's OpenAPI document, sorted by path and
// then method.
func Table(api huma.API) []Route {
	var table []Route
	for path, item := range api.OpenAPI().Paths {
		if item == nil {
			continue
		}
		for method, op := range operations(item) {
			if op == nil {
				continue
			}
			table = append(table, Route{Method: method, Path: path, OperationID: op.OperationID})
		}
	}
	sort.Slice(table, func(i, j int) bool {
		if table[i].Path != table[j].Path {
			return table[i].Path < table[j].Path
		}
		return table[i].Method < table[j].Method
	})
	return table
}

func operations(item *huma.PathItem) map[string]*huma.Operation {
	return map[string]*huma.Operation{
		http.MethodGet:     item.Get,
		http.MethodHead:    item.Head,
		http.MethodPost:    item.Post,
		http.MethodPut:     item.Put,
		http.MethodPatch:   item.Patch,
		http.MethodDelete:  item.Delete,
		http.MethodOptions: item.Options,
		http.MethodTrace:   item.Trace,
	}
}
