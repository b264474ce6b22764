package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/brizzai/specfetch/internal/apidef"
)

// Document is the on-disk catalog format shared by YAML, JSON and TOML
// files. Status code keys are strings so every format can express them.
type Document struct {
	BaseURL          string              `yaml:"base_url" json:"base_url" toml:"base_url"`
	Defaults         map[string]RuleDoc  `yaml:"defaults" json:"defaults" toml:"defaults"`
	ExternalDefaults map[string]RuleDoc  `yaml:"external_defaults" json:"external_defaults" toml:"external_defaults"`
	ErrorHandling    *ErrorPolicyDoc     `yaml:"error_handling" json:"error_handling" toml:"error_handling"`
	Routes           map[string]RouteDoc `yaml:"routes" json:"routes" toml:"routes"`
}

type RouteDoc struct {
	URL                string             `yaml:"url" json:"url" toml:"url"`
	Method             string             `yaml:"method" json:"method" toml:"method"`
	RequestContentType string             `yaml:"request_content_type" json:"request_content_type" toml:"request_content_type"`
	Mode               string             `yaml:"mode" json:"mode" toml:"mode"`
	Credentials        string             `yaml:"credentials" json:"credentials" toml:"credentials"`
	Description        string             `yaml:"description" json:"description" toml:"description"`
	BaseBody           map[string]any     `yaml:"base_body" json:"base_body" toml:"base_body"`
	BaseQueryParams    map[string]string  `yaml:"base_query_params" json:"base_query_params" toml:"base_query_params"`
	Headers            map[string]string  `yaml:"headers" json:"headers" toml:"headers"`
	ExpectedResponses  map[string]RuleDoc `yaml:"expected_responses" json:"expected_responses" toml:"expected_responses"`
	ErrorHandling      *ErrorPolicyDoc    `yaml:"error_handling" json:"error_handling" toml:"error_handling"`
}

type RuleDoc struct {
	IsSuccess            *bool    `yaml:"is_success" json:"is_success" toml:"is_success"`
	Message              *string  `yaml:"message" json:"message" toml:"message"`
	ExpectedContentTypes []string `yaml:"expected_content_types" json:"expected_content_types" toml:"expected_content_types"`
	RedirectTo           string   `yaml:"redirect_to" json:"redirect_to" toml:"redirect_to"`
	PreserveRequest      *bool    `yaml:"preserve_request" json:"preserve_request" toml:"preserve_request"`
}

// ErrorPolicyDoc has no callback: callbacks only exist for catalogs built
// in code.
type ErrorPolicyDoc struct {
	ShouldLogError bool `yaml:"should_log_error" json:"should_log_error" toml:"should_log_error"`
	ShouldRethrow  bool `yaml:"should_rethrow" json:"should_rethrow" toml:"should_rethrow"`
}

// ToAPI converts the document and validates the result.
func (d *Document) ToAPI() (*apidef.API, error) {
	var errs []error
	api := &apidef.API{
		BaseURL:       d.BaseURL,
		Routes:        make(map[string]apidef.RouteSpec, len(d.Routes)),
		ErrorHandling: d.ErrorHandling.toPolicy(),
	}

	var err error
	if api.Defaults, err = toRules(d.Defaults); err != nil {
		errs = append(errs, fmt.Errorf("defaults: %w", err))
	}
	if api.ExternalDefaults, err = toRules(d.ExternalDefaults); err != nil {
		errs = append(errs, fmt.Errorf("external_defaults: %w", err))
	}

	for name, doc := range d.Routes {
		route, err := doc.toRoute()
		if err != nil {
			errs = append(errs, fmt.Errorf("route %q: %w", name, err))
			continue
		}
		api.Routes[name] = route
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := api.Validate(); err != nil {
		return nil, err
	}
	return api, nil
}

func (r RouteDoc) toRoute() (apidef.RouteSpec, error) {
	method, ok := apidef.ParseMethod(r.Method)
	if r.Method == "" {
		method, ok = apidef.MethodGet, true
	}
	if !ok {
		return apidef.RouteSpec{}, fmt.Errorf("%w: unsupported method %q", apidef.ErrInvalidRoute, r.Method)
	}
	rules, err := toRules(r.ExpectedResponses)
	if err != nil {
		return apidef.RouteSpec{}, err
	}
	return apidef.RouteSpec{
		URL:                r.URL,
		Method:             method,
		RequestContentType: apidef.ParseMIMEType(r.RequestContentType),
		Mode:               apidef.Mode(r.Mode),
		Credentials:        apidef.Credentials(r.Credentials),
		Description:        r.Description,
		BaseBody:           r.BaseBody,
		BaseQueryParams:    r.BaseQueryParams,
		Headers:            r.Headers,
		ExpectedResponses:  rules,
		ErrorHandling:      r.ErrorHandling.toPolicy(),
	}, nil
}

func toRules(docs map[string]RuleDoc) (apidef.ResponseRules, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	rules := make(apidef.ResponseRules, len(docs))
	for key, doc := range docs {
		code, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: status key %q is not a number", apidef.ErrInvalidRoute, key)
		}
		rule := apidef.ResponseRule{
			IsSuccess:       doc.IsSuccess,
			Message:         doc.Message,
			RedirectTo:      apidef.Redirect(doc.RedirectTo),
			PreserveRequest: doc.PreserveRequest,
		}
		if doc.ExpectedContentTypes != nil {
			rule.ExpectedContentTypes = make([]apidef.MIMEType, len(doc.ExpectedContentTypes))
			for i, ct := range doc.ExpectedContentTypes {
				rule.ExpectedContentTypes[i] = apidef.ParseMIMEType(ct)
			}
		}
		rules[apidef.StatusCode(code)] = rule
	}
	return rules, nil
}

func (p *ErrorPolicyDoc) toPolicy() *apidef.ErrorPolicy {
	if p == nil {
		return nil
	}
	return &apidef.ErrorPolicy{
		ShouldLogError: p.ShouldLogError,
		ShouldRethrow:  p.ShouldRethrow,
	}
}
