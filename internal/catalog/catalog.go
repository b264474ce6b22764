// Package catalog loads route catalogs from files and derives them from
// OpenAPI documents.
package catalog

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/brizzai/specfetch/internal/apidef"
)

// Catalog is a loaded API plus what callers need to expose it.
type Catalog struct {
	API *apidef.API
	// Operations holds OpenAPI metadata for routes derived from a document.
	// Routes loaded from catalog files have no entry.
	Operations map[string]*Operation
	adjuster   *Adjuster
}

// Operation describes the parameters of an OpenAPI-derived route.
type Operation struct {
	Path         string
	Method       string
	QueryParams  []string
	BodySchema   *openapi3.SchemaRef
	BodyRequired bool
}

// ExposedRoutes returns the sorted names of routes selected by the
// adjustments file. Without selections every route is exposed.
func (c *Catalog) ExposedRoutes() []string {
	var names []string
	for name, route := range c.API.Routes {
		if c.adjuster.Selected(name, route.URL, string(route.Method)) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func newCatalog(api *apidef.API, adjuster *Adjuster) *Catalog {
	if adjuster == nil {
		adjuster = NewAdjuster()
	}
	for name, route := range api.Routes {
		route.Description = adjuster.Description(name, route.URL, string(route.Method), route.Description)
		api.Routes[name] = route
	}
	return &Catalog{
		API:        api,
		Operations: map[string]*Operation{},
		adjuster:   adjuster,
	}
}
