package main

import (
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/catalog"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes declared in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := catalog.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			return pterm.DefaultTable.WithHasHeader().WithData(routeTable(c)).Render()
		},
	}
}

// routeTable renders the catalog as table rows, header first.
func routeTable(c *catalog.Catalog) pterm.TableData {
	exposed := map[string]bool{}
	for _, name := range c.ExposedRoutes() {
		exposed[name] = true
	}

	names := c.API.RouteNames()
	sort.Strings(names)
	data := pterm.TableData{{"Name", "Method", "URL", "Content type", "Exposed"}}
	for _, name := range names {
		route := c.API.Routes[name]
		contentType := route.RequestContentType.String()
		if route.RequestContentType == apidef.MIMENone {
			contentType = "-"
		}
		data = append(data, []string{
			name,
			string(route.Method),
			route.URL,
			contentType,
			yesNo(exposed[name]),
		})
	}
	return data
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
