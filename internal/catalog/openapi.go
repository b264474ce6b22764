package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/brizzai/specfetch/internal/apidef"
	"github.com/brizzai/specfetch/internal/logger"
)

// preferredRequestTypes ranks request body media types when an operation
// accepts several.
var preferredRequestTypes = []apidef.MIMEType{
	apidef.MIMEJSON,
	apidef.MIMEXWWWFormUrlencoded,
	apidef.MIMEMultipartFormData,
	apidef.MIMEOctetStream,
}

// LoadOpenAPIFile derives a catalog from an OpenAPI 2 or 3 document in JSON
// or YAML. adjuster may be nil.
func LoadOpenAPIFile(path string, adjuster *Adjuster) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}
	return LoadOpenAPI(data, adjuster)
}

// LoadOpenAPI derives a catalog from document bytes.
func LoadOpenAPI(data []byte, adjuster *Adjuster) (*Catalog, error) {
	doc, err := parseOpenAPI(data)
	if err != nil {
		return nil, err
	}

	api := &apidef.API{Routes: map[string]apidef.RouteSpec{}}
	if len(doc.Servers) > 0 && doc.Servers[0] != nil {
		api.BaseURL = doc.Servers[0].URL
	}
	operations := map[string]*Operation{}

	paths := make([]string, 0, len(doc.Paths.Map()))
	for path := range doc.Paths.Map() {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		pathItem := doc.Paths.Value(path)
		httpMethods := []struct {
			Method    apidef.Method
			Operation *openapi3.Operation
		}{
			{apidef.MethodGet, pathItem.Get},
			{apidef.MethodPost, pathItem.Post},
			{apidef.MethodPut, pathItem.Put},
			{apidef.MethodDelete, pathItem.Delete},
			{apidef.MethodPatch, pathItem.Patch},
			{apidef.MethodHead, pathItem.Head},
		}
		for _, m := range httpMethods {
			if m.Operation == nil {
				continue
			}
			name := uniqueName(api.Routes, routeName(path, m.Method, m.Operation))
			route, op := createRoute(path, m.Method, pathItem, m.Operation)
			api.Routes[name] = route
			operations[name] = op
		}
	}

	if err := api.Validate(); err != nil {
		return nil, fmt.Errorf("derived catalog is invalid: %w", err)
	}
	logger.Info("Derived route catalog from OpenAPI document",
		zap.Int("routes", len(api.Routes)),
		zap.String("base_url", api.BaseURL),
	)

	c := newCatalog(api, adjuster)
	c.Operations = operations
	return c, nil
}

// parseOpenAPI detects the document version and returns an OpenAPI 3 model
// with references resolved.
func parseOpenAPI(data []byte) (*openapi3.T, error) {
	var header struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	switch {
	case header.Swagger != "":
		return convertOpenAPI2to3(data, header.Swagger)
	case strings.HasPrefix(header.OpenAPI, "3."):
		doc, err := openapi3.NewLoader().LoadFromData(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
		}
		logger.Debug("Parsed OpenAPI 3 document", zap.String("version", header.OpenAPI))
		return doc, nil
	case header.OpenAPI != "":
		return nil, fmt.Errorf("unsupported OpenAPI version: %s", header.OpenAPI)
	}
	return nil, fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
}

func convertOpenAPI2to3(data []byte, version string) (*openapi3.T, error) {
	if version != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %s", version)
	}
	raw, err := asJSON(data)
	if err != nil {
		return nil, err
	}
	var swagger2Doc openapi2.T
	if err := json.Unmarshal(raw, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 spec: %w", err)
	}

	logger.Debug("Converting OpenAPI 2.0 document to 3.0")
	doc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}
	if err := openapi3.NewLoader().ResolveRefsIn(doc, nil); err != nil {
		return nil, fmt.Errorf("failed to resolve references: %w", err)
	}
	return doc, nil
}

// asJSON returns data as JSON, converting from YAML when needed.
func asJSON(data []byte) ([]byte, error) {
	if json.Valid(data) {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid YAML document: %w", err)
	}
	return json.Marshal(stringKeys(v))
}

// stringKeys rewrites YAML maps with non-string keys (such as unquoted
// status codes) into JSON-compatible maps.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	}
	return v
}

// routeName uses the operation id, falling back to method and path.
func routeName(path string, method apidef.Method, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	name := strings.TrimPrefix(path, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "{", "")
	name = strings.ReplaceAll(name, "}", "")
	return strings.ToLower(fmt.Sprintf("%s_%s", method, name))
}

func uniqueName(routes map[string]apidef.RouteSpec, name string) string {
	if _, taken := routes[name]; !taken {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + "_" + strconv.Itoa(i)
		if _, taken := routes[candidate]; !taken {
			return candidate
		}
	}
}

func createRoute(path string, method apidef.Method, item *openapi3.PathItem, op *openapi3.Operation) (apidef.RouteSpec, *Operation) {
	route := apidef.RouteSpec{
		URL:         path,
		Method:      method,
		Description: op.Description,
	}
	if route.Description == "" {
		route.Description = op.Summary
	}

	meta := &Operation{Path: path, Method: string(method)}
	for _, params := range []openapi3.Parameters{item.Parameters, op.Parameters} {
		for _, param := range params {
			if param.Value != nil && param.Value.In == openapi3.ParameterInQuery {
				meta.QueryParams = append(meta.QueryParams, param.Value.Name)
			}
		}
	}

	if method != apidef.MethodGet {
		contentType, schema, required := requestBody(op)
		route.RequestContentType = contentType
		meta.BodySchema = schema
		meta.BodyRequired = required
		if contentType == apidef.MIMEJSON && schema != nil && schema.Value != nil {
			route.Validate = schemaValidator(schema.Value)
		}
	}

	route.ExpectedResponses = expectedResponses(op)
	return route, meta
}

// requestBody picks the preferred media type of the operation's body.
func requestBody(op *openapi3.Operation) (apidef.MIMEType, *openapi3.SchemaRef, bool) {
	if op.RequestBody == nil || op.RequestBody.Value == nil || len(op.RequestBody.Value.Content) == 0 {
		return apidef.MIMENone, nil, false
	}
	body := op.RequestBody.Value

	byType := make(map[apidef.MIMEType]*openapi3.MediaType, len(body.Content))
	var types []string
	for raw, media := range body.Content {
		mt := apidef.MediaType(raw)
		byType[mt] = media
		types = append(types, string(mt))
	}
	for _, preferred := range preferredRequestTypes {
		if media, ok := byType[preferred]; ok {
			return preferred, media.Schema, body.Required
		}
	}
	sort.Strings(types)
	chosen := apidef.MIMEType(types[0])
	return chosen, byType[chosen].Schema, body.Required
}

// expectedResponses declares the documented media types of each numeric
// response. Wildcard media types disable the check for that status.
func expectedResponses(op *openapi3.Operation) apidef.ResponseRules {
	if op.Responses == nil {
		return nil
	}
	rules := apidef.ResponseRules{}
	for key, ref := range op.Responses.Map() {
		code, err := strconv.Atoi(key)
		if err != nil || !apidef.StatusCode(code).IsRecognized() {
			continue
		}
		if ref == nil || ref.Value == nil || len(ref.Value.Content) == 0 {
			continue
		}
		var types []apidef.MIMEType
		for raw := range ref.Value.Content {
			if strings.Contains(raw, "*") {
				types = nil
				break
			}
			types = append(types, apidef.MediaType(raw))
		}
		if len(types) == 0 {
			continue
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		rules[apidef.StatusCode(code)] = apidef.ResponseRule{ExpectedContentTypes: types}
	}
	if len(rules) == 0 {
		return nil
	}
	return rules
}

func schemaValidator(schema *openapi3.Schema) func(any) error {
	return func(payload any) error {
		return schema.VisitJSON(payload)
	}
}
