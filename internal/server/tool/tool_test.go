package tool

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/catalog"
	"github.com/brizzai/specfetch/internal/requester"
)

type recordedCall struct {
	route string
	data  any
}

type fakeCaller struct {
	calls  []recordedCall
	result *requester.RequestResult
	err    error
}

func (f *fakeCaller) Call(_ context.Context, routeName string, data any, _ ...requester.CallOption) (*requester.RequestResult, error) {
	f.calls = append(f.calls, recordedCall{route: routeName, data: data})
	return f.result, f.err
}

func TestPathParams(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{name: "empty path", path: "", expected: nil},
		{name: "no params", path: "/api/users", expected: nil},
		{name: "one param", path: "/api/users/{id}", expected: []string{"id"}},
		{name: "multiple params", path: "/api/users/{id}/posts/{postId}", expected: []string{"id", "postId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PathParams(tt.path))
		})
	}
}

func TestBuild(t *testing.T) {
	t.Run("GET with documented query params", func(t *testing.T) {
		route := apidef.RouteSpec{URL: "/pets/{petId}", Method: apidef.MethodGet}
		tl := Build("getPet", route, &catalog.Operation{QueryParams: []string{"fields"}})

		assert.Equal(t, "getPet", tl.Name)
		assert.Contains(t, tl.InputSchema.Properties, "petId")
		assert.Contains(t, tl.InputSchema.Properties, "fields")
		assert.NotContains(t, tl.InputSchema.Properties, QueryArgument)
		assert.Equal(t, []string{"petId"}, tl.InputSchema.Required)
	})

	t.Run("GET from a catalog file", func(t *testing.T) {
		tl := Build("search", apidef.RouteSpec{URL: "/search", Method: apidef.MethodGet}, nil)
		assert.Contains(t, tl.InputSchema.Properties, QueryArgument)
	})

	t.Run("POST with body schema", func(t *testing.T) {
		schema := &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type:     &openapi3.Types{openapi3.TypeObject},
			Required: []string{"name"},
			Properties: openapi3.Schemas{
				"name": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Description: "Pet name"}},
				"age":  {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeInteger}}},
			},
		}}
		route := apidef.RouteSpec{URL: "/pets", Method: apidef.MethodPost, RequestContentType: apidef.MIMEJSON}
		tl := Build("createPet", route, &catalog.Operation{BodySchema: schema, BodyRequired: true})

		body, ok := tl.InputSchema.Properties[BodyArgument].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "object", body["type"])
		assert.Equal(t, []string{"name"}, body["required"])
		props, ok := body["properties"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"type": "string", "description": "Pet name"}, props["name"])
		assert.Equal(t, map[string]any{"type": "integer"}, props["age"])
		assert.Equal(t, []string{BodyArgument}, tl.InputSchema.Required)
	})

	t.Run("optional body keeps nested required list", func(t *testing.T) {
		schema := &openapi3.SchemaRef{Value: &openapi3.Schema{
			Type:     &openapi3.Types{openapi3.TypeObject},
			Required: []string{"name"},
			Properties: openapi3.Schemas{
				"name": {Value: &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}}},
			},
		}}
		route := apidef.RouteSpec{URL: "/pets/{id}", Method: apidef.MethodPatch, RequestContentType: apidef.MIMEJSON}
		tl := Build("patchPet", route, &catalog.Operation{BodySchema: schema})

		body, ok := tl.InputSchema.Properties[BodyArgument].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []string{"name"}, body["required"])
		assert.Equal(t, []string{"id"}, tl.InputSchema.Required)
	})

	t.Run("POST without schema", func(t *testing.T) {
		route := apidef.RouteSpec{URL: "/upload", Method: apidef.MethodPut, RequestContentType: apidef.MIMEXWWWFormUrlencoded}
		tl := Build("upload", route, nil)
		body, ok := tl.InputSchema.Properties[BodyArgument].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Request body (application/x-www-form-urlencoded)", body["description"])
	})
}

func TestHandler(t *testing.T) {
	okResult := &requester.RequestResult{
		OK:       true,
		Response: &requester.Response{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)},
	}

	request := func(args map[string]any) mcp.CallToolRequest {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = args
		return req
	}

	t.Run("GET passes remaining args as query", func(t *testing.T) {
		caller := &fakeCaller{result: okResult}
		h := NewHandler(caller).CreateHandler("getPet", apidef.RouteSpec{URL: "/pets/{id}", Method: apidef.MethodGet})

		res, err := h(context.Background(), request(map[string]any{"id": 7, "fields": "name"}))
		require.NoError(t, err)
		assert.False(t, res.IsError)
		require.Len(t, caller.calls, 1)
		assert.Equal(t, "getPet", caller.calls[0].route)
		assert.Equal(t, map[string]any{"fields": "name"}, caller.calls[0].data)
	})

	t.Run("body argument is the payload", func(t *testing.T) {
		caller := &fakeCaller{result: okResult}
		h := NewHandler(caller).CreateHandler("create", apidef.RouteSpec{URL: "/pets", Method: apidef.MethodPost})

		_, err := h(context.Background(), request(map[string]any{"body": []any{1, 2}}))
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, caller.calls[0].data)
	})

	t.Run("no args means no payload", func(t *testing.T) {
		caller := &fakeCaller{result: okResult}
		h := NewHandler(caller).CreateHandler("list", apidef.RouteSpec{URL: "/pets", Method: apidef.MethodGet})

		_, err := h(context.Background(), request(nil))
		require.NoError(t, err)
		assert.Nil(t, caller.calls[0].data)
	})

	t.Run("failed result", func(t *testing.T) {
		caller := &fakeCaller{result: &requester.RequestResult{OK: false, Message: "connection refused"}}
		h := NewHandler(caller).CreateHandler("list", apidef.RouteSpec{URL: "/pets", Method: apidef.MethodGet})

		res, err := h(context.Background(), request(nil))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "connection refused (no response): ", text.Text)
	})

	t.Run("call error", func(t *testing.T) {
		caller := &fakeCaller{err: errors.New("boom")}
		h := NewHandler(caller).CreateHandler("list", apidef.RouteSpec{URL: "/pets", Method: apidef.MethodGet})

		_, err := h(context.Background(), request(nil))
		assert.ErrorContains(t, err, "failed to execute request for tool list: boom")
	})
}
