package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/config"
)

func TestLoadOpenAPIFile_V3(t *testing.T) {
	c, err := LoadOpenAPIFile(filepath.Join("testdata", "petstore.yaml"), nil)
	require.NoError(t, err)
	api := c.API

	assert.Equal(t, "https://petstore.example.com/v1", api.BaseURL)
	assert.Equal(t, []string{"createPet", "get_pets_petid", "listPets"}, c.ExposedRoutes())

	list := api.Routes["listPets"]
	assert.Equal(t, apidef.MethodGet, list.Method)
	assert.Equal(t, "/pets", list.URL)
	assert.Equal(t, "List all pets", list.Description)
	assert.Equal(t, []apidef.MIMEType{apidef.MIMEJSON}, list.ExpectedResponses[200].ExpectedContentTypes)
	assert.Nil(t, list.Validate)
	assert.Equal(t, []string{"limit"}, c.Operations["listPets"].QueryParams)

	create := api.Routes["createPet"]
	assert.Equal(t, apidef.MethodPost, create.Method)
	assert.Equal(t, "Create a pet", create.Description)
	assert.Equal(t, apidef.MIMEJSON, create.RequestContentType)
	assert.Equal(t, []apidef.MIMEType{"application/problem+json"}, create.ExpectedResponses[400].ExpectedContentTypes)
	_, has201 := create.ExpectedResponses[201]
	assert.False(t, has201)

	require.NotNil(t, create.Validate)
	assert.NoError(t, create.Validate(map[string]any{"id": float64(1), "name": "rex"}))
	assert.Error(t, create.Validate(map[string]any{"name": "rex"}))
	assert.True(t, c.Operations["createPet"].BodyRequired)
	require.NotNil(t, c.Operations["createPet"].BodySchema)

	byID := api.Routes["get_pets_petid"]
	assert.Equal(t, "/pets/{petId}", byID.URL)
	assert.Nil(t, byID.ExpectedResponses)
}

func TestLoadOpenAPIFile_V2(t *testing.T) {
	c, err := LoadOpenAPIFile(filepath.Join("testdata", "swagger.json"), nil)
	require.NoError(t, err)

	assert.Contains(t, c.API.BaseURL, "legacy.example.com")
	order, ok := c.API.Routes["createOrder"]
	require.True(t, ok)
	assert.Equal(t, apidef.MIMEJSON, order.RequestContentType)
	require.NotNil(t, order.Validate)
	assert.Error(t, order.Validate(map[string]any{}))
	assert.NoError(t, order.Validate(map[string]any{"sku": "A-1"}))
}

func TestLoadOpenAPI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "no version", doc: `{"info": {}}`, wantErr: "missing 'swagger' or 'openapi'"},
		{name: "openapi 1", doc: `{"openapi": "1.0"}`, wantErr: "unsupported OpenAPI version"},
		{name: "swagger 1.2", doc: `{"swagger": "1.2"}`, wantErr: "unsupported Swagger version"},
		{name: "not a document", doc: `[unclosed`, wantErr: "invalid OpenAPI document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOpenAPI([]byte(tt.doc), nil)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestUniqueName(t *testing.T) {
	routes := map[string]apidef.RouteSpec{"get_users_id": {}}
	assert.Equal(t, "get_users_id_2", uniqueName(routes, "get_users_id"))
	assert.Equal(t, "fresh", uniqueName(routes, "fresh"))
}

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{API: config.APIConfig{
		CatalogFile:     filepath.Join("testdata", "catalog.yaml"),
		AdjustmentsFile: filepath.Join("testdata", "adjustments.yaml"),
		BaseURL:         "http://localhost:9999",
	}}
	c, err := NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", API(c).BaseURL)
	assert.Equal(t, []string{"login", "profile"}, c.ExposedRoutes())

	_, err = NewFromConfig(&config.Config{})
	assert.Error(t, err)
}
