package tool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/logger"
	"github.com/brizzai/specfetch/internal/requester"
)

// Caller executes a declared route. *requester.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, routeName string, data any, opts ...requester.CallOption) (*requester.RequestResult, error)
}

// Handler executes tool calls through a Caller.
type Handler struct {
	caller Caller
}

func NewHandler(caller Caller) *Handler {
	return &Handler{caller: caller}
}

// CreateHandler creates the handler function for a route's tool.
func (h *Handler) CreateHandler(name string, route apidef.RouteSpec) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pathParams := PathParams(route.URL)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		params := make(map[string]string, len(pathParams))
		for _, p := range pathParams {
			v, ok := args[p]
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("missing path parameter %q", p)), nil
			}
			params[p] = fmt.Sprint(v)
		}

		payload := toolPayload(route.Method, args, pathParams)
		logger.Debug("Executing tool",
			zap.String("tool", name),
			zap.Any("path_params", params),
		)

		res, err := h.caller.Call(ctx, name, payload, requester.WithPathParams(params))
		if err != nil {
			return nil, fmt.Errorf("failed to execute request for tool %s: %w", name, err)
		}

		var body string
		if res.Response != nil {
			body = string(res.Response.Body)
		}
		if !res.OK {
			status := "no response"
			if res.Response != nil {
				status = fmt.Sprintf("HTTP %d", res.Response.StatusCode)
			}
			return mcp.NewToolResultError(fmt.Sprintf("%s (%s): %s", res.Message, status, body)), nil
		}
		return mcp.NewToolResultText(body), nil
	}
}

// toolPayload extracts the call payload: the body or query argument when
// given, otherwise every argument that is not a path parameter.
func toolPayload(method apidef.Method, args map[string]any, pathParams []string) any {
	key := BodyArgument
	if method == apidef.MethodGet {
		key = QueryArgument
	}
	if v, ok := args[key]; ok {
		return v
	}

	rest := make(map[string]any, len(args))
	for k, v := range args {
		rest[k] = v
	}
	for _, p := range pathParams {
		delete(rest, p)
	}
	if len(rest) == 0 {
		return nil
	}
	return rest
}
