// Package tool turns declared routes into MCP tools.
package tool

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/catalog"
)

const (
	// BodyArgument carries the request payload of non-GET routes.
	BodyArgument = "body"
	// QueryArgument carries free-form query params of GET routes without
	// documented parameters.
	QueryArgument = "query"
)

// Build creates the MCP tool for a route. op may be nil for routes that did
// not come from an OpenAPI document.
func Build(name string, route apidef.RouteSpec, op *catalog.Operation) mcp.Tool {
	description := fmt.Sprintf("%s %s", route.Method, route.URL)
	if route.Description != "" {
		description += " \n " + route.Description
	}
	opts := []mcp.ToolOption{mcp.WithDescription(description)}

	for _, param := range PathParams(route.URL) {
		opts = append(opts, mcp.WithString(param,
			mcp.Required(),
			mcp.Description(fmt.Sprintf("Path parameter: %s", param)),
		))
	}

	if route.Method == apidef.MethodGet {
		if op != nil && len(op.QueryParams) > 0 {
			for _, param := range op.QueryParams {
				opts = append(opts, mcp.WithString(param,
					mcp.Description(fmt.Sprintf("Query parameter: %s", param)),
				))
			}
		} else if op == nil {
			opts = append(opts, mcp.WithObject(QueryArgument,
				mcp.Description("Query parameters as a flat object"),
			))
		}
		return mcp.NewTool(name, opts...)
	}

	if op != nil && op.BodySchema != nil {
		opts = append(opts, schemaOption(op.BodySchema, BodyArgument, op.BodyRequired))
	} else {
		desc := "Request body"
		if route.RequestContentType != apidef.MIMENone {
			desc = fmt.Sprintf("Request body (%s)", route.RequestContentType)
		}
		opts = append(opts, mcp.WithObject(BodyArgument, mcp.Description(desc)))
	}
	return mcp.NewTool(name, opts...)
}

// PathParams lists the {name} placeholders of a route URL in order.
func PathParams(path string) []string {
	var params []string
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			params = append(params, strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}"))
		}
	}
	return params
}
