package apidef

import (
	"net/http"
	"strings"
)

// Method is an HTTP method a route may declare.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
	MethodHead   Method = http.MethodHead
)

// ParseMethod upper-cases s and reports whether it is a supported method.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead:
		return m, true
	}
	return m, false
}

// Redirect names where a response redirects to: a route name, or one of the
// reserved values below.
type Redirect string

const (
	// RedirectHeaderLocation follows the response's Location header as an
	// external call.
	RedirectHeaderLocation Redirect = "header-location"
	// RedirectNever cancels a redirect inherited from a lower layer.
	RedirectNever Redirect = "never"
)

// IsRoute reports whether r names a declared route rather than a reserved value.
func (r Redirect) IsRoute() bool {
	return r != "" && r != RedirectHeaderLocation && r != RedirectNever
}

// Mode mirrors the fetch request mode.
type Mode string

const (
	ModeCORS       Mode = "cors"
	ModeNoCORS     Mode = "no-cors"
	ModeSameOrigin Mode = "same-origin"
)

// Credentials mirrors the fetch credentials setting.
type Credentials string

const (
	CredentialsInclude    Credentials = "include"
	CredentialsSameOrigin Credentials = "same-origin"
	CredentialsOmit       Credentials = "omit"
)

// ResponseRule is the interpretation attached to one status code at one
// layer of the cascade. Nil fields fall through to the layer below.
type ResponseRule struct {
	IsSuccess            *bool
	Message              *string
	ExpectedContentTypes []MIMEType
	RedirectTo           Redirect
	PreserveRequest      *bool
}

// ResponseRules maps status codes to rules for one layer.
type ResponseRules map[StatusCode]ResponseRule

// ErrorPolicy decides what happens when the transport itself fails.
type ErrorPolicy struct {
	ShouldLogError bool
	ShouldRethrow  bool
	Callback       func(error)
}

// DefaultErrorPolicy logs and swallows transport errors.
var DefaultErrorPolicy = ErrorPolicy{ShouldLogError: true}

// RouteSpec declares one endpoint. It is read-only once the API is built.
type RouteSpec struct {
	URL                string
	Method             Method
	RequestContentType MIMEType
	Mode               Mode
	Credentials        Credentials
	Description        string
	// BaseBody is merged under caller-supplied JSON object payloads.
	BaseBody map[string]any
	// BaseQueryParams is merged under caller-supplied GET query params.
	BaseQueryParams map[string]string
	// Headers override synthesized headers; values may hold #{cookie} placeholders.
	Headers           map[string]string
	ExpectedResponses ResponseRules
	ErrorHandling     *ErrorPolicy
	// Validate, when set, checks the normalized caller payload before encoding.
	Validate func(payload any) error
}

// API is a full route catalog plus API-wide defaults.
type API struct {
	BaseURL string
	Routes  map[string]RouteSpec
	// Defaults apply to every declared route.
	Defaults ResponseRules
	// ExternalDefaults apply to calls against arbitrary URLs.
	ExternalDefaults ResponseRules
	ErrorHandling    *ErrorPolicy
}

// Route looks up a declared route.
func (a *API) Route(name string) (RouteSpec, bool) {
	if a == nil {
		return RouteSpec{}, false
	}
	r, ok := a.Routes[name]
	return r, ok
}

// RouteNames returns the declared route names.
func (a *API) RouteNames() []string {
	names := make([]string, 0, len(a.Routes))
	for name := range a.Routes {
		names = append(names, name)
	}
	return names
}

// ResolveErrorPolicy picks the route policy, then the API policy, then the
// library default.
func (a *API) ResolveErrorPolicy(route *RouteSpec) ErrorPolicy {
	if route != nil && route.ErrorHandling != nil {
		return *route.ErrorHandling
	}
	if a != nil && a.ErrorHandling != nil {
		return *a.ErrorHandling
	}
	return DefaultErrorPolicy
}

// Bool and String build pointer fields for rule literals.
func Bool(v bool) *bool { return &v }

func String(v string) *string { return &v }
