package catalog

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/config"
)

// NewFromConfig loads the catalog named by the api config section.
func NewFromConfig(cfg *config.Config) (*Catalog, error) {
	adjuster := NewAdjuster()
	if err := adjuster.Load(cfg.API.AdjustmentsFile); err != nil {
		return nil, fmt.Errorf("failed to load adjustments file: %w", err)
	}

	var (
		c   *Catalog
		err error
	)
	switch {
	case cfg.API.CatalogFile != "":
		c, err = LoadFile(cfg.API.CatalogFile, adjuster)
	case cfg.API.OpenAPIFile != "":
		c, err = LoadOpenAPIFile(cfg.API.OpenAPIFile, adjuster)
	default:
		return nil, fmt.Errorf("either api.catalog_file or api.openapi_file is required")
	}
	if err != nil {
		return nil, err
	}

	if cfg.API.BaseURL != "" {
		c.API.BaseURL = cfg.API.BaseURL
	}
	return c, nil
}

// API exposes the catalog's definition to the client.
func API(c *Catalog) *apidef.API {
	return c.API
}

// Module provides the catalog dependencies
var Module = fx.Module("catalog",
	fx.Provide(
		NewFromConfig,
		API,
	),
)
